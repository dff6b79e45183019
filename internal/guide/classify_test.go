package guide

import (
	"bytes"
	"testing"

	"github.com/mhutton/lodestar/internal/gemini"
)

func imageResponse(mime, b64 string) *gemini.Response {
	return &gemini.Response{
		Candidates: []gemini.Candidate{{
			Content:      gemini.Content{Parts: []gemini.Part{{InlineData: &gemini.Blob{MIMEType: mime, Data: b64}}}},
			FinishReason: "STOP",
		}},
	}
}

func textResponse(text string) *gemini.Response {
	return &gemini.Response{
		Candidates: []gemini.Candidate{{
			Content:      gemini.Content{Parts: []gemini.Part{{Text: text}}},
			FinishReason: "STOP",
		}},
	}
}

func TestClassifyInlineImage(t *testing.T) {
	artifact, fail := Classify(imageResponse("image/png", "aGVsbG8="))
	if fail != nil {
		t.Fatalf("classify: %v", fail)
	}
	if artifact.MIMEType != "image/png" {
		t.Errorf("mime = %q, want image/png", artifact.MIMEType)
	}
	if !bytes.Equal(artifact.Data, []byte("hello")) {
		t.Errorf("data = %q, want %q", artifact.Data, "hello")
	}
}

func TestClassifySafetyBlockWinsOverImage(t *testing.T) {
	resp := imageResponse("image/png", "aGVsbG8=")
	resp.PromptFeedback = &gemini.PromptFeedback{BlockReason: gemini.BlockReasonSafety}

	_, fail := Classify(resp)
	if fail == nil || fail.Kind != SafetyBlocked {
		t.Fatalf("failure = %v, want SafetyBlocked", fail)
	}
	if fail.UserMessage != msgSafetyBlocked {
		t.Errorf("user message = %q, want %q", fail.UserMessage, msgSafetyBlocked)
	}
}

func TestClassifyCandidateFinishReasonSafety(t *testing.T) {
	resp := textResponse("blocked")
	resp.Candidates[0].FinishReason = gemini.FinishReasonImageSafety

	_, fail := Classify(resp)
	if fail == nil || fail.Kind != SafetyBlocked {
		t.Fatalf("failure = %v, want SafetyBlocked", fail)
	}
}

func TestClassifyTextOnly(t *testing.T) {
	_, fail := Classify(textResponse("I cannot draw that, but here is a description."))
	if fail == nil || fail.Kind != NoImageReturned {
		t.Fatalf("failure = %v, want NoImageReturned", fail)
	}
	if fail.Raw != "I cannot draw that, but here is a description." {
		t.Errorf("raw = %q, want the model text", fail.Raw)
	}
	if fail.UserMessage != msgNoImageReturned {
		t.Errorf("user message = %q, want %q", fail.UserMessage, msgNoImageReturned)
	}
}

func TestClassifyEmptyResponseUsesPlaceholder(t *testing.T) {
	_, fail := Classify(&gemini.Response{})
	if fail == nil || fail.Kind != NoImageReturned {
		t.Fatalf("failure = %v, want NoImageReturned", fail)
	}
	if fail.Raw == "" {
		t.Error("expected a placeholder raw message for an empty response")
	}
}
