package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// RouterOptions configures cross-cutting middleware.
type RouterOptions struct {
	// AuthMiddleware authenticates every non-public route. Requests are rejected when nil.
	AuthMiddleware func(http.Handler) http.Handler
	// CORSOrigins enables CORS for the listed origins; empty disables it.
	CORSOrigins []string
	// RequestLogging turns on chi's request logger.
	RequestLogging bool
}

// NewRouter constructs the API HTTP router.
//
// Route groups:
// - public: /healthz and shared plan links
// - authenticated: /me (profile bootstrap works before a user is provisioned)
// - provisioned: everything else, with the caller's user loaded into the request context
func NewRouter(s *Server, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if opts.RequestLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins:   opts.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Content-Type", "Authorization", "Idempotency-Key", "X-Debug-Subject"},
			ExposedHeaders:   []string{"X-Request-Id"},
			AllowCredentials: true,
		}).Handler)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil)
	})

	// Health endpoint is unauthenticated (used for infra checks).
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/p/{shareCode}", s.GetSharedPlan)

	auth := opts.AuthMiddleware
	if auth == nil {
		auth = rejectAll
	}
	r.Group(func(r chi.Router) {
		r.Use(auth)

		r.Post("/me", s.CreateMe)
		r.Get("/me", s.GetMe)
		r.Patch("/me", s.UpdateMe)
		r.Put("/me/home", s.SetHome)
		r.Delete("/me/home", s.ClearHome)

		r.Group(func(r chi.Router) {
			r.Use(s.RequireUser)

			r.Get("/me/statistics", s.GetStatistics)
			r.Get("/me/suggestions", s.GetSuggestions)

			r.Get("/plans", s.ListMyPlans)
			r.Post("/plans", s.CreatePlan)
			r.Get("/plans/shared-with-me", s.ListSharedWithMe)
			r.Route("/plans/{planId}", func(r chi.Router) {
				r.Get("/", s.GetPlan)
				r.Patch("/", s.UpdatePlan)
				r.Delete("/", s.DeletePlan)
				r.Put("/visibility", s.SetVisibility)
				r.Post("/share-code/rotate", s.RotateShareCode)
				r.Get("/qr.png", s.GetShareQRCode)

				r.Get("/shares", s.ListShares)
				r.Post("/shares", s.InviteToPlan)
				r.Delete("/shares/{shareId}", s.RevokeShare)

				r.Get("/itinerary", s.GetItinerary)
				r.Post("/items", s.AddItem)
				r.Put("/items/{itemId}/schedule", s.UpdateSchedule)
				r.Delete("/items/{itemId}", s.DeleteItem)

				r.Get("/days/{day}/recommendations", s.GetDayRecommendations)
			})

			r.Get("/invitations", s.ListPendingInvitations)
			r.Post("/invitations/{shareId}/respond", s.RespondToInvitation)

			r.Get("/locations/overview", s.GetLocationOverview)
		})
	})
	return r
}

func rejectAll(http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "authentication is not configured", nil)
	})
}
