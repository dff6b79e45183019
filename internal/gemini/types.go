package gemini

// Wire types for the generateContent endpoint. Only the shape the app
// depends on is modeled: ordered image/text parts in, candidates with an
// optional safety finish reason and inline image data out.

type Request struct {
	Contents         []Content         `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

type Part struct {
	Text       string `json:"text,omitempty"`
	InlineData *Blob  `json:"inlineData,omitempty"`
}

// Blob is an inline media payload. Data is standard base64.
type Blob struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type GenerationConfig struct {
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

type Response struct {
	Candidates     []Candidate     `json:"candidates"`
	PromptFeedback *PromptFeedback `json:"promptFeedback,omitempty"`
	Error          *ErrorDetail    `json:"error,omitempty"`
}

type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

type PromptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

type ErrorDetail struct {
	Code    int    `json:"code"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Finish and block reason values that indicate a content-safety rejection.
// These are exact enum values from the API, compared verbatim, never
// substring-matched.
const (
	FinishReasonSafety            = "SAFETY"
	FinishReasonImageSafety       = "IMAGE_SAFETY"
	FinishReasonProhibitedContent = "PROHIBITED_CONTENT"

	BlockReasonSafety            = "SAFETY"
	BlockReasonProhibitedContent = "PROHIBITED_CONTENT"
)

// SafetyBlocked reports whether the response was rejected by content
// moderation, either at the prompt level or on the first candidate.
func (r *Response) SafetyBlocked() bool {
	if r.PromptFeedback != nil {
		switch r.PromptFeedback.BlockReason {
		case BlockReasonSafety, BlockReasonProhibitedContent:
			return true
		}
	}
	for _, c := range r.Candidates {
		switch c.FinishReason {
		case FinishReasonSafety, FinishReasonImageSafety, FinishReasonProhibitedContent:
			return true
		}
	}
	return false
}
