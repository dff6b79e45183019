package guide

import (
	"encoding/base64"
	"strings"

	"github.com/mhutton/lodestar/internal/gemini"
)

// Artifact is a successfully generated guide image.
type Artifact struct {
	MIMEType string
	Data     []byte
}

// Classify turns a raw provider response into an artifact or a typed
// failure. Rules apply in strict order: an explicit safety block wins over
// everything, then the first inline image payload found in the content parts
// is taken verbatim, and a text-only response classifies as NoImageReturned.
func Classify(resp *gemini.Response) (*Artifact, *Failure) {
	if resp.SafetyBlocked() {
		return nil, NewFailure(SafetyBlocked, safetyDiagnostic(resp))
	}

	var text strings.Builder
	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
				if err != nil {
					return nil, NewFailure(NoImageReturned, "inline image payload is not valid base64: "+err.Error())
				}
				return &Artifact{MIMEType: part.InlineData.MIMEType, Data: data}, nil
			}
			if part.Text != "" {
				text.WriteString(part.Text)
			}
		}
	}

	raw := strings.TrimSpace(text.String())
	if raw == "" {
		raw = "provider returned no image and no text"
	}
	return nil, NewFailure(NoImageReturned, raw)
}

func safetyDiagnostic(resp *gemini.Response) string {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "prompt blocked: " + resp.PromptFeedback.BlockReason
	}
	for _, cand := range resp.Candidates {
		if cand.FinishReason != "" {
			return "candidate finished with reason " + cand.FinishReason
		}
	}
	return "blocked by content moderation"
}
