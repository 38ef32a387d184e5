package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/quizbuzz/quizbuzz/internal/api/middleware"
	"github.com/quizbuzz/quizbuzz/internal/services/session"
	"github.com/quizbuzz/quizbuzz/internal/ws"
)

// RouterConfig holds configuration for the HTTP router
type RouterConfig struct {
	Logger  *slog.Logger
	Gateway *ws.Gateway
	Store   *session.Store
}

// NewRouter creates the HTTP router. The surface is small: the websocket
// endpoint carries all game traffic, plus a health check for orchestration.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	r.Handle("/ws", cfg.Gateway).Methods(http.MethodGet)
	r.HandleFunc("/healthz", healthHandler(cfg.Store)).Methods(http.MethodGet)

	return r
}

type healthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

func healthHandler(store *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(healthResponse{
			Status:   "ok",
			Sessions: store.Count(),
		})
	}
}
