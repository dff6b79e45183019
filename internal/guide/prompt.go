package guide

import (
	"encoding/base64"
	"strings"

	"github.com/mhutton/lodestar/internal/gemini"
)

// ParseDataImage validates and decodes a data:<mime>;base64,<payload> image.
// Anything else fails with MalformedImage before a network call is made.
func ParseDataImage(dataURI string) (*gemini.Blob, *Failure) {
	rest, ok := strings.CutPrefix(dataURI, "data:")
	if !ok {
		return nil, NewFailure(MalformedImage, "image is not a data URI")
	}
	mime, payload, ok := strings.Cut(rest, ";base64,")
	if !ok || mime == "" || payload == "" {
		return nil, NewFailure(MalformedImage, "image data URI missing mime type or base64 payload")
	}
	if _, err := base64.StdEncoding.DecodeString(payload); err != nil {
		return nil, NewFailure(MalformedImage, "image payload is not valid base64: "+err.Error())
	}
	return &gemini.Blob{MIMEType: mime, Data: payload}, nil
}

// BuildPrimaryPrompt is the tier-1 instruction: a photorealistic three-panel
// sequential guide of the subject performing the activity, composited as one
// wide image with no text labels. The environment clause is added only when
// an environment photo accompanies the request.
func BuildPrimaryPrompt(activity string, hasEnvironmentImage bool) string {
	var b strings.Builder
	b.WriteString("Create a single wide image containing a sequence of exactly 3 panels, ")
	b.WriteString("side by side, showing the person from the first photo performing this activity step by step: ")
	b.WriteString(strings.TrimSpace(activity))
	b.WriteString(". Photorealistic style, consistent appearance of the person across all panels, ")
	b.WriteString("warm natural lighting, no text, no labels, no numbers, no speech bubbles.")
	if hasEnvironmentImage {
		b.WriteString(" Place the person in the room shown in the second photo, keeping its furniture and layout recognizable.")
	}
	return b.String()
}

// BuildFallbackPrompt is the tier-2 instruction: same three-panel intent,
// restated conservatively as a simple line drawing with no environment
// reference. Stylistic simplicity tends to pass moderation where a
// photorealistic composite of a real person does not.
func BuildFallbackPrompt(activity string) string {
	var b strings.Builder
	b.WriteString("Draw a simple, friendly 3-panel line-drawing guide of the person in the photo doing: ")
	b.WriteString(strings.TrimSpace(activity))
	b.WriteString(". One wide image, three clear steps, minimal detail, no text or labels.")
	return b.String()
}
