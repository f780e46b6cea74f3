package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/barberia-pro/platform/internal/booking"
	"github.com/barberia-pro/platform/internal/gamification"
	httpmiddleware "github.com/barberia-pro/platform/internal/http/middleware"
	"github.com/barberia-pro/platform/internal/insights"
	"github.com/barberia-pro/platform/internal/payments"
	"github.com/barberia-pro/platform/internal/whatsapp"
	"github.com/barberia-pro/platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	BookingHandler      *booking.Handler
	PixWebhook          *payments.WebhookHandler
	WhatsAppWebhook     *whatsapp.WebhookHandler
	GamificationHandler *gamification.Handler
	InsightsHandler     *insights.Handler
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string

	// Requests per second per client IP on the public API; zero disables
	// rate limiting.
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// New creates a new Chi router with all routes configured
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

	// Public endpoints: webhooks, health checks, metrics.
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.PixWebhook != nil {
			public.Post("/webhooks/pix", cfg.PixWebhook.Handle)
		}
		if cfg.WhatsAppWebhook != nil {
			public.Get("/webhooks/whatsapp", cfg.WhatsAppWebhook.Verify)
			public.Post("/webhooks/whatsapp", cfg.WhatsAppWebhook.Receive)
		}
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Customer-facing API.
	r.Route("/api", func(api chi.Router) {
		if cfg.RateLimitPerSecond > 0 {
			api.Use(httpmiddleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
		}

		if cfg.BookingHandler != nil {
			api.Post("/appointments", cfg.BookingHandler.CreateAppointment)
			api.Get("/appointments/{appointmentID}", cfg.BookingHandler.GetAppointment)
			api.Route("/barbershops/{barbershopID}", func(shop chi.Router) {
				shop.Get("/barbers", cfg.BookingHandler.ListBarbers)
				shop.Get("/services", cfg.BookingHandler.ListServices)
				shop.Get("/slots", cfg.BookingHandler.GetSlots)
			})
		}

		if cfg.GamificationHandler != nil {
			api.Route("/gamification", func(g chi.Router) {
				g.Get("/points/{userID}", cfg.GamificationHandler.GetPoints)
				g.Get("/leaderboard/{barbershopID}", cfg.GamificationHandler.GetLeaderboard)
				g.Get("/achievements", cfg.GamificationHandler.GetAchievements)
				g.Post("/referrals", cfg.GamificationHandler.CreateReferralCode)
				g.Post("/referrals/redeem", cfg.GamificationHandler.RedeemReferralCode)
			})
		}

		if cfg.InsightsHandler != nil {
			api.Route("/insights", func(i chi.Router) {
				i.Get("/{barbershopID}", cfg.InsightsHandler.GetDailyInsights)
				i.Get("/customers/{customerID}", cfg.InsightsHandler.GetCustomerBehavior)
				i.Get("/customers/{customerID}/recommendations", cfg.InsightsHandler.GetRecommendations)
			})
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
