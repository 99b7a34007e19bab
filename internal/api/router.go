package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ollieshotz/shotz/internal/api/handler"
	"github.com/ollieshotz/shotz/internal/api/middleware"
	"github.com/ollieshotz/shotz/internal/api/sse"
	"github.com/ollieshotz/shotz/internal/services/auth"
	"github.com/ollieshotz/shotz/internal/services/export"
	"github.com/ollieshotz/shotz/internal/services/game"
	"github.com/ollieshotz/shotz/internal/services/offline"
	"github.com/ollieshotz/shotz/internal/services/profile"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	AuthService    *auth.Service
	ProfileService *profile.Service
	GameService    *game.Service
	ExportService  *export.Service
	Reconciler     *offline.Reconciler
	Monitor        *offline.Monitor
	SSEManager     *sse.Manager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	profileHandler := handler.NewProfileHandler(cfg.ProfileService, cfg.AuthService)
	gameHandler := handler.NewGameHandler(cfg.GameService, cfg.ExportService, cfg.ProfileService)
	eventHandler := handler.NewEventHandler(cfg.GameService, cfg.ProfileService, cfg.Monitor)
	syncHandler := handler.NewSyncHandler(cfg.Reconciler, cfg.Monitor)
	streamHandler := handler.NewStreamHandler(cfg.GameService, cfg.SSEManager, cfg.ProfileService)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// PIN verification does not require an existing identity
	api.HandleFunc("/auth/pin/verify", authHandler.VerifyPin).Methods(http.MethodPost)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Everything else requires a resolved scope
	protected := api.NewRoute().Subrouter()
	protected.Use(authMiddleware)

	// PIN session routes
	protected.HandleFunc("/auth/pin/session", authHandler.GetSession).Methods(http.MethodGet)
	protected.HandleFunc("/auth/pin/revoke", authHandler.RevokeSession).Methods(http.MethodPost)

	// Profile routes
	protected.HandleFunc("/profiles", profileHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/profiles", profileHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/profiles/{id}", profileHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/profiles/{id}", profileHandler.Update).Methods(http.MethodPut)
	protected.HandleFunc("/profiles/{id}", profileHandler.Delete).Methods(http.MethodDelete)
	protected.HandleFunc("/profiles/{id}/pin", profileHandler.SetPin).Methods(http.MethodPut)
	protected.HandleFunc("/profiles/{id}/pin", profileHandler.DisablePin).Methods(http.MethodDelete)

	// Family sharing routes
	protected.HandleFunc("/profiles/{id}/family", profileHandler.InviteFamilyMember).Methods(http.MethodPost)
	protected.HandleFunc("/profiles/{id}/family", profileHandler.ListFamilyMembers).Methods(http.MethodGet)
	protected.HandleFunc("/family/{member_id}/accept", profileHandler.AcceptInvite).Methods(http.MethodPost)
	protected.HandleFunc("/family/{member_id}", profileHandler.RemoveFamilyMember).Methods(http.MethodDelete)

	// Game routes
	protected.HandleFunc("/games", gameHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/games/{id}", gameHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/games/{id}", gameHandler.Delete).Methods(http.MethodDelete)
	protected.HandleFunc("/games/{id}/status", gameHandler.UpdateStatus).Methods(http.MethodPatch)
	protected.HandleFunc("/games/{id}/notes", gameHandler.UpdateNotes).Methods(http.MethodPatch)
	protected.HandleFunc("/games/{id}/periods", gameHandler.AddPeriod).Methods(http.MethodPost)
	protected.HandleFunc("/games/{id}/export", gameHandler.ExportCSV).Methods(http.MethodGet)
	protected.HandleFunc("/profiles/{id}/games", gameHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/profiles/{id}/export", gameHandler.SeasonExport).Methods(http.MethodGet)

	// Live event recording
	protected.HandleFunc("/games/{id}/events", eventHandler.Record).Methods(http.MethodPost)
	protected.HandleFunc("/games/{id}/events/last", eventHandler.Undo).Methods(http.MethodDelete)

	// Live stream
	protected.HandleFunc("/games/{id}/stream", streamHandler.Stream).Methods(http.MethodGet)

	// Offline reconciliation
	protected.HandleFunc("/sync", syncHandler.Sync).Methods(http.MethodPost)
	protected.HandleFunc("/sync/status", syncHandler.Status).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
