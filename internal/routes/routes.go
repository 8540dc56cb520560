// internal/routes/routes.go
package routes

import (
	"time"

	"styleforge-backend/internal/config"
	"styleforge-backend/internal/handlers"
	"styleforge-backend/internal/middleware"

	"github.com/go-chi/chi/v5"
)

type Handlers struct {
	Health          *handlers.HealthHandler
	User            *handlers.UserHandler
	Transform       *handlers.TransformHandler
	Jobs            *handlers.JobsHandler
	Webhook         *handlers.WebhookHandler
	Payment         *handlers.PaymentHandler
	Transformations *handlers.TransformationsHandler
	ImageProxy      *handlers.ImageProxyHandler
}

func SetupRoutes(cfg *config.Config, h *Handlers) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger())
	r.Use(middleware.Recoverer())
	r.Use(middleware.RequestID())
	r.Use(middleware.RealIP())
	r.Use(middleware.Timeout(90 * time.Second))
	r.Use(middleware.CORS())

	// Health check routes
	r.Get("/", h.Health.HealthCheck)
	r.Get("/health", h.Health.HealthCheck)

	paymentLimiter := middleware.NewRateLimiter(10)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Public routes. The job status endpoint serves the browser poller
		// and the webhook endpoints authenticate by signature, not JWT.
		r.Group(func(r chi.Router) {
			r.Get("/jobs/{jobId}", h.Jobs.GetJobStatus)
			r.Post("/fal/webhook", h.Webhook.HandleFalWebhook)
			r.Post("/razorpay/webhook", h.Payment.HandleGatewayWebhook)
			r.Get("/image-proxy", h.ImageProxy.ProxyImage)
		})

		// Protected routes (authentication required)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg))

			r.Post("/users/register", h.User.RegisterUser)
			r.Post("/transform", h.Transform.ProcessTransform)
			r.Get("/transformations", h.Transformations.ListTransformations)

			r.Post("/razorpay", h.Payment.CreateOrder)
			r.With(paymentLimiter.Handler).Post("/payment/verify", h.Payment.VerifyPayment)
		})
	})

	return r
}
