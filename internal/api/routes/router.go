package routes

import (
	"net/http"

	"github.com/zatekoja/matchsafe/internal/api/handlers"
	"github.com/zatekoja/matchsafe/internal/api/middleware"
	"github.com/zatekoja/matchsafe/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	matchHandler   *handlers.MatchHandler
	profileHandler *handlers.ProfileHandler

	feedbackHandler  *handlers.FeedbackHandler
	analyticsHandler *handlers.AnalyticsHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	matchHandler *handlers.MatchHandler,
	profileHandler *handlers.ProfileHandler,
	feedbackHandler *handlers.FeedbackHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		matchHandler:   matchHandler,
		profileHandler: profileHandler,

		feedbackHandler:  feedbackHandler,
		analyticsHandler: analyticsHandler,

		metrics: metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Matching endpoints
	r.mux.HandleFunc("GET /api/users/{id}/matches", r.matchHandler.GetMatches)

	// Profile endpoints
	r.mux.HandleFunc("GET /api/profiles/{id}", r.profileHandler.GetProfile)
	r.mux.HandleFunc("POST /api/profiles", r.profileHandler.CreateProfile)

	// Feedback endpoints
	r.mux.HandleFunc("POST /api/feedback", r.feedbackHandler.SubmitFeedback)

	// Analytics endpoints
	if r.analyticsHandler != nil {
		r.mux.HandleFunc("GET /api/analytics/empty-result-requests", r.analyticsHandler.GetEmptyResultRequests)
	}

	// Apply middleware in reverse order (last middleware wraps first)
	// CORS must be outermost so error responses also get CORS headers.

	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	handler = middleware.CORSMiddleware(handler)

	return handler
}
