package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/lexc24/tictactoe/internal/api/handler"
	"github.com/lexc24/tictactoe/internal/middleware"
	"github.com/lexc24/tictactoe/internal/services/queue"
	"github.com/lexc24/tictactoe/internal/ws"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	Logger      *slog.Logger
	Coordinator *queue.Coordinator
	Hub         *ws.Hub
}

// NewRouter creates the HTTP router: JSON API plus the WebSocket endpoint
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	rosterHandler := handler.NewRosterHandler(cfg.Coordinator)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	api.HandleFunc("/roster", rosterHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// The WebSocket endpoint skips the logging middleware: sessions are
	// long-lived and logged by the hub instead.
	r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
		ws.ServeWS(w, req, cfg.Hub, cfg.Coordinator, cfg.Logger)
	})

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
