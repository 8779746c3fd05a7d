package server

import (
	"net/http"

	"github.com/askwiki/askwiki/internal/api"
	"github.com/askwiki/askwiki/internal/api/handlers"
	"github.com/askwiki/askwiki/internal/api/middleware"
	"github.com/go-chi/chi/v5"
)

type RouterConfig struct {
	UserHandler    *handlers.UserHandler
	ChatHandler    *handlers.ChatHandler
	AllowedOrigins []string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 1 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/users/", cfg.UserHandler.Create)
	r.Post("/chat/{user_id}", cfg.ChatHandler.Chat)
	r.Get("/history/{user_id}", cfg.ChatHandler.History)

	return r
}
