package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mhutton/lodestar/internal/guide"
	"github.com/mhutton/lodestar/internal/push"
	"github.com/mhutton/lodestar/internal/websocket"
)

// Generator renders a guide image for an activity. Satisfied by
// *guide.Orchestrator.
type Generator interface {
	Generate(ctx context.Context, subjectImage, activity, environmentImage string) (*guide.Artifact, error)
}

type GuideHandler struct {
	generator Generator
	hub       *websocket.Hub
	push      *push.Service
	logger    *slog.Logger
}

func NewGuideHandler(g Generator, hub *websocket.Hub, pushSvc *push.Service, logger *slog.Logger) *GuideHandler {
	return &GuideHandler{generator: g, hub: hub, push: pushSvc, logger: logger}
}

type guideRequest struct {
	QuestID          string `json:"quest_id"`
	Activity         string `json:"activity"`
	SubjectImage     string `json:"subject_image"`
	EnvironmentImage string `json:"environment_image"`
}

type guideResponse struct {
	MIMEType string `json:"mime_type"`
	Image    string `json:"image"`
}

// Generate handles POST /api/guide.
func (h *GuideHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req guideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Activity = strings.TrimSpace(req.Activity)
	if req.Activity == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "activity is required"})
		return
	}
	if req.SubjectImage == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "subject_image is required"})
		return
	}

	artifact, err := h.generator.Generate(r.Context(), req.SubjectImage, req.Activity, req.EnvironmentImage)
	if err != nil {
		h.writeFailure(w, req, err)
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(websocket.GuideReady(req.QuestID, map[string]any{"activity": req.Activity}))
	}
	if h.push != nil {
		go h.push.Broadcast(push.Payload{
			Title: "Guide ready",
			Body:  "A visual guide for \"" + req.Activity + "\" is ready.",
			Tag:   "guide-ready",
		})
	}

	writeJSON(w, http.StatusOK, guideResponse{
		MIMEType: artifact.MIMEType,
		Image:    base64.StdEncoding.EncodeToString(artifact.Data),
	})
}

func (h *GuideHandler) writeFailure(w http.ResponseWriter, req guideRequest, err error) {
	var fail *guide.Failure
	if !errors.As(err, &fail) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	h.logger.Warn("guide generation failed", "quest_id", req.QuestID, "kind", fail.Kind, "raw", fail.Raw)
	if h.hub != nil {
		h.hub.Broadcast(websocket.GuideFailed(req.QuestID, fail.UserMessage))
	}

	status := http.StatusBadGateway
	switch fail.Kind {
	case guide.MalformedImage:
		status = http.StatusBadRequest
	case guide.SafetyBlocked:
		status = http.StatusUnprocessableEntity
	case guide.TransientTransport:
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]string{
		"error":   string(fail.Kind),
		"message": fail.UserMessage,
	})
}
