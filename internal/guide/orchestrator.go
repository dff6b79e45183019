package guide

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mhutton/lodestar/internal/gemini"
)

// Transport executes one generation request (with its own internal retry).
type Transport interface {
	Generate(ctx context.Context, parts []gemini.Part) (*gemini.Response, error)
}

// tierState models the two-tier flow explicitly so "fallback only on
// NoImageReturned" is structurally enforced rather than buried in error
// handlers.
type tierState int

const (
	tier1Attempting tierState = iota
	tier2Attempting
)

// Orchestrator composes prompt construction, transport, and classification
// across the primary/fallback strategy. The transport is injected so tests
// can run against deterministic doubles.
type Orchestrator struct {
	transport Transport
	logger    *slog.Logger
}

func NewOrchestrator(transport Transport, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{transport: transport, logger: logger}
}

// Generate renders a visual guide for the activity from the subject photo.
// subjectImage and environmentImage are data URIs; environmentImage may be
// empty. On failure the returned error is always a *Failure carrying the
// typed cause and a user-facing message.
func (o *Orchestrator) Generate(ctx context.Context, subjectImage, activity, environmentImage string) (*Artifact, error) {
	activity = strings.TrimSpace(activity)
	if activity == "" {
		return nil, fmt.Errorf("activity text is required")
	}

	// Validate caller input before any network traffic.
	subject, fail := ParseDataImage(subjectImage)
	if fail != nil {
		return nil, fail
	}
	var env *gemini.Blob
	if environmentImage != "" {
		if env, fail = ParseDataImage(environmentImage); fail != nil {
			return nil, fail
		}
	}

	state := tier1Attempting
	var tier1Failure *Failure

	for {
		switch state {
		case tier1Attempting:
			parts := []gemini.Part{{InlineData: subject}}
			if env != nil {
				parts = append(parts, gemini.Part{InlineData: env})
			}
			parts = append(parts, gemini.Part{Text: BuildPrimaryPrompt(activity, env != nil)})

			artifact, fail := o.runTier(ctx, parts)
			if fail == nil {
				return artifact, nil
			}
			if fail.Kind != NoImageReturned {
				// Safety blocks and exhausted transport are terminal;
				// the fallback targets moderation-sensitive phrasing only.
				o.logger.Warn("guide generation failed", "tier", 1, "kind", fail.Kind, "raw", fail.Raw)
				return nil, fail
			}
			tier1Failure = fail
			o.logger.Info("no image from primary prompt, trying fallback", "raw", fail.Raw)
			state = tier2Attempting

		case tier2Attempting:
			// Subject image only: the fallback drops the environment
			// reference along with the photorealistic style.
			parts := []gemini.Part{
				{InlineData: subject},
				{Text: BuildFallbackPrompt(activity)},
			}

			artifact, fail := o.runTier(ctx, parts)
			if fail == nil {
				return artifact, nil
			}
			o.logger.Warn("guide generation failed", "tier", 2, "kind", fail.Kind, "raw", fail.Raw)
			return nil, NewFailure(FallbackExhausted, fmt.Sprintf(
				"primary: %s; fallback: %s", tier1Failure.Raw, fail.Raw))
		}
	}
}

// runTier performs one build→send→classify pass and folds transport errors
// into the failure taxonomy. A transport error surfaces here only after the
// client has spent its retry budget (or decided the failure is not
// retryable), so it is terminal for the tier either way.
func (o *Orchestrator) runTier(ctx context.Context, parts []gemini.Part) (*Artifact, *Failure) {
	resp, err := o.transport.Generate(ctx, parts)
	if err != nil {
		return nil, NewFailure(TransientTransport, err.Error())
	}
	return Classify(resp)
}
