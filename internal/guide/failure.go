package guide

import "fmt"

// FailureKind is the typed cause of a generation failure. The orchestrator
// switches on these values, never on message text.
type FailureKind string

const (
	// MalformedImage: a supplied image is not a valid data URI. Caller
	// input error; fails fast before any network call, never retried.
	MalformedImage FailureKind = "malformed_image"
	// TransientTransport: the provider kept failing through the retry
	// budget. Terminal for the request; does not trigger the fallback.
	TransientTransport FailureKind = "transient_transport"
	// SafetyBlocked: content moderation rejected the request. Terminal;
	// never triggers the fallback.
	SafetyBlocked FailureKind = "safety_blocked"
	// NoImageReturned: the provider answered with text only. Triggers
	// exactly one fallback attempt.
	NoImageReturned FailureKind = "no_image_returned"
	// FallbackExhausted: both tiers failed. Terminal.
	FallbackExhausted FailureKind = "fallback_exhausted"
)

// Failure is a typed generation failure. Raw holds the provider-side
// diagnostic for logs and is never shown to the user; UserMessage is the
// caregiver-facing text.
type Failure struct {
	Kind        FailureKind
	Raw         string
	UserMessage string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("guide generation failed (%s): %s", f.Kind, f.Raw)
}

const (
	msgMalformedImage     = "The photo could not be read. Please retake it and try again."
	msgTransientTransport = "The guide service is temporarily unavailable. Please try again shortly."
	msgSafetyBlocked      = "The activity description was flagged as inappropriate."
	msgNoImageReturned    = "The model responded unexpectedly. Try a different activity."
	msgFallbackExhausted  = "A technical error occurred. Check your connection and retry in a few minutes."
)

// NewFailure builds a Failure of the given kind with its canonical
// user-facing message.
func NewFailure(kind FailureKind, raw string) *Failure {
	f := &Failure{Kind: kind, Raw: raw}
	switch kind {
	case MalformedImage:
		f.UserMessage = msgMalformedImage
	case TransientTransport:
		f.UserMessage = msgTransientTransport
	case SafetyBlocked:
		f.UserMessage = msgSafetyBlocked
	case NoImageReturned:
		f.UserMessage = msgNoImageReturned
	case FallbackExhausted:
		f.UserMessage = msgFallbackExhausted
	}
	return f
}
