package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/triviaduel/internal/api/handler"
	"github.com/mcoot/triviaduel/internal/api/middleware"
	"github.com/mcoot/triviaduel/internal/session"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger        *slog.Logger
	Coordinator   *session.Coordinator
	SocketHandler http.Handler
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	roomHandler := handler.NewRoomHandler(cfg.Coordinator)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	api.HandleFunc("/create-room", roomHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/join-room/{roomId}", roomHandler.CheckJoinable).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{roomId}", roomHandler.Get).Methods(http.MethodGet)

	// Duel socket endpoint; the upgrade hijacks the connection so it
	// sits on the same subrouter only because the logging wrapper
	// passes hijacking through
	api.Handle("/duel", cfg.SocketHandler).Methods(http.MethodGet)

	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
