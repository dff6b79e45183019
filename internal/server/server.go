package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/mhutton/lodestar/internal/gemini"
	"github.com/mhutton/lodestar/internal/guide"
	"github.com/mhutton/lodestar/internal/handler"
	"github.com/mhutton/lodestar/internal/middleware"
	"github.com/mhutton/lodestar/internal/push"
	"github.com/mhutton/lodestar/internal/quest"
	"github.com/mhutton/lodestar/internal/store"
	ws "github.com/mhutton/lodestar/internal/websocket"
)

// Config carries everything the server needs beyond the database handle.
type Config struct {
	Gemini          gemini.Config
	VAPIDPublicKey  string
	VAPIDPrivateKey string
}

type Server struct {
	db            *sql.DB
	hub           *ws.Hub
	questH        *handler.QuestHandler
	guideH        *handler.GuideHandler
	settingsH     *handler.SettingsHandler
	pushH         *handler.PushHandler
	settingsStore *store.SettingsStore
	rateLimiter   *middleware.RateLimiter
	logger        *slog.Logger
}

func New(db *sql.DB, cfg Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	questStore := store.NewQuestStore(db)
	settingsStore := store.NewSettingsStore(db)
	pushStore := store.NewPushStore(db)

	ledger := quest.NewLedger()
	scheduler := quest.NewScheduler()

	var pushSvc *push.Service
	var pushH *handler.PushHandler
	if cfg.VAPIDPublicKey != "" && cfg.VAPIDPrivateKey != "" {
		pushSvc = push.NewService(cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey, pushStore, logger.With("component", "push"))
		pushH = handler.NewPushHandler(pushStore, pushSvc, logger.With("component", "push_handler"))
	}

	client := gemini.NewClient(cfg.Gemini, logger.With("component", "gemini"))
	orchestrator := guide.NewOrchestrator(client, logger.With("component", "guide"))

	return &Server{
		db:            db,
		hub:           hub,
		questH:        handler.NewQuestHandler(questStore, ledger, scheduler, hub, logger.With("component", "quest")),
		guideH:        handler.NewGuideHandler(orchestrator, hub, pushSvc, logger.With("component", "guide_handler")),
		settingsH:     handler.NewSettingsHandler(settingsStore, logger.With("component", "settings")),
		pushH:         pushH,
		settingsStore: settingsStore,
		rateLimiter:   middleware.NewRateLimiter(),
		logger:        logger,
	}
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)

	// Quest routes
	mux.HandleFunc("GET /api/quests", s.questH.List)
	mux.HandleFunc("GET /api/quests/next", s.questH.Next)
	mux.HandleFunc("GET /api/quests/custom", s.questH.ListCustom)
	mux.HandleFunc("POST /api/quests/{id}/complete", s.questH.Complete)

	// Guide generation is the expensive call; rate-limit it per client IP.
	mux.Handle("POST /api/guide", s.rateLimited(s.guideH.Generate, 10, time.Minute))

	// Caregiver-gated routes
	pinGate := middleware.RequireCaregiverPIN(s.settingsStore)
	mux.Handle("POST /api/quests/reset", pinGate(http.HandlerFunc(s.questH.Reset)))
	mux.Handle("POST /api/quests/custom", pinGate(http.HandlerFunc(s.questH.CreateCustom)))
	mux.Handle("PUT /api/settings/pin", pinGate(http.HandlerFunc(s.settingsH.SetPIN)))
	mux.HandleFunc("GET /api/settings/pin", s.settingsH.GetPIN)

	// Push notification routes
	if s.pushH != nil {
		mux.HandleFunc("GET /api/push/vapid-key", s.pushH.VAPIDKey)
		mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
		mux.HandleFunc("GET /api/push/subscriptions", s.pushH.List)
		mux.HandleFunc("DELETE /api/push/subscriptions/{id}", s.pushH.Unsubscribe)
	}

	// WebSocket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimited(h http.HandlerFunc, limit int, window time.Duration) http.Handler {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	return middleware.RateLimit(s.rateLimiter, keyFunc, limit, window)(http.HandlerFunc(h))
}
