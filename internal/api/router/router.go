// Package router assembles the HTTP surface: the public conversation
// endpoint, health and metrics, and the JWT-protected admin routes.
package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/autolane/dealer-ai-platform/internal/conversation"
	httpmiddleware "github.com/autolane/dealer-ai-platform/internal/http/middleware"
	"github.com/autolane/dealer-ai-platform/internal/leads"
	"github.com/autolane/dealer-ai-platform/internal/settings"
	"github.com/autolane/dealer-ai-platform/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger              *logging.Logger
	ConversationHandler *conversation.Handler
	SettingsHandler     *settings.Handler
	LeadsHandler        *leads.Handler
	MetricsHandler      http.Handler
	AdminAuthSecret     string
	CORSAllowedOrigins  []string

	// Public endpoint rate limit, requests per second per IP. Zero disables.
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// New creates a chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.ConversationHandler != nil {
			public.Group(func(conv chi.Router) {
				if cfg.RateLimitPerSecond > 0 {
					conv.Use(httpmiddleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
				}
				conv.Post("/conversations/process", cfg.ConversationHandler.ProcessMessage)
			})
		}
	})

	if cfg.AdminAuthSecret != "" {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			if cfg.SettingsHandler != nil {
				admin.Put("/dealers/{dealerID}/settings/{key}", cfg.SettingsHandler.PutSetting)
				admin.Post("/dealers/{dealerID}/settings/invalidate", cfg.SettingsHandler.InvalidateCache)
			}
			if cfg.LeadsHandler != nil {
				admin.Get("/dealers/{dealerID}/leads", cfg.LeadsHandler.ListLeads)
				admin.Get("/dealers/{dealerID}/leads/{leadID}", cfg.LeadsHandler.GetLead)
			}
		})
	}

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
