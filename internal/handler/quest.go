package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mhutton/lodestar/internal/model"
	"github.com/mhutton/lodestar/internal/quest"
	"github.com/mhutton/lodestar/internal/store"
	"github.com/mhutton/lodestar/internal/websocket"
)

type QuestHandler struct {
	questStore *store.QuestStore
	ledger     *quest.Ledger
	scheduler  *quest.Scheduler
	hub        *websocket.Hub
	logger     *slog.Logger
}

func NewQuestHandler(qs *store.QuestStore, ledger *quest.Ledger, scheduler *quest.Scheduler, hub *websocket.Hub, logger *slog.Logger) *QuestHandler {
	return &QuestHandler{questStore: qs, ledger: ledger, scheduler: scheduler, hub: hub, logger: logger}
}

func (h *QuestHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

// questView is a quest plus its completion state for display.
type questView struct {
	model.Quest
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (h *QuestHandler) view(q model.Quest) questView {
	v := questView{Quest: q}
	if at, ok := h.ledger.LastCompletion(q.ID); ok {
		v.CompletedAt = &at
	}
	return v
}

// List handles GET /api/quests
func (h *QuestHandler) List(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.questStore.Catalog()
	if err != nil {
		h.logger.Error("list quest catalog", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list quests"})
		return
	}

	views := make([]questView, 0, len(catalog))
	for _, q := range catalog {
		views = append(views, h.view(q))
	}
	writeJSON(w, http.StatusOK, views)
}

// Next handles GET /api/quests/next. Responds 204 when nothing is eligible.
func (h *QuestHandler) Next(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.questStore.Catalog()
	if err != nil {
		h.logger.Error("list quest catalog", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list quests"})
		return
	}

	next := h.scheduler.SelectNext(catalog, h.ledger, time.Now())
	if next == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, h.view(*next))
}

// Complete handles POST /api/quests/{id}/complete
func (h *QuestHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	q, err := h.questStore.GetByID(id)
	if err != nil {
		h.logger.Error("get quest", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to look up quest"})
		return
	}
	if q == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "quest not found"})
		return
	}

	h.ledger.Complete(id, time.Now())
	h.broadcast(websocket.QuestCompleted(id))

	writeJSON(w, http.StatusOK, h.view(*q))
}

// Reset handles POST /api/quests/reset. Caregiver-gated.
func (h *QuestHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.ledger.Reset()
	h.broadcast(websocket.QuestsReset())
	w.WriteHeader(http.StatusNoContent)
}

// ListCustom handles GET /api/quests/custom
func (h *QuestHandler) ListCustom(w http.ResponseWriter, r *http.Request) {
	custom, err := h.questStore.ListCustom()
	if err != nil {
		h.logger.Error("list custom quests", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list quests"})
		return
	}

	views := make([]questView, 0, len(custom))
	for _, q := range custom {
		views = append(views, h.view(q))
	}
	writeJSON(w, http.StatusOK, views)
}

type customQuestRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CreateCustom handles POST /api/quests/custom. Caregiver-gated.
func (h *QuestHandler) CreateCustom(w http.ResponseWriter, r *http.Request) {
	var req customQuestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title is required"})
		return
	}

	created, err := h.questStore.CreateCustom(model.NewCustomQuest(req.Title, req.Description, time.Now()))
	if err != nil {
		h.logger.Error("create custom quest", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create quest"})
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
