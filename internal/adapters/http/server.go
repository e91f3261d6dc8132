package httpadapter

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	analysisapp "github.com/maumlog/maum-api/internal/app/analysis"
	consultapp "github.com/maumlog/maum-api/internal/app/consult"
	userapp "github.com/maumlog/maum-api/internal/app/user"
	"github.com/maumlog/maum-api/internal/domain"
	"github.com/maumlog/maum-api/internal/observability"
)

// Server wires the application services into a chi router.
type Server struct {
	consults *consultapp.Service
	analyses *analysisapp.Service
	users    *userapp.Service
	auth     domain.AuthSessionStore
}

func NewServer(
	consults *consultapp.Service,
	analyses *analysisapp.Service,
	users *userapp.Service,
	auth domain.AuthSessionStore,
) http.Handler {
	s := &Server{
		consults: consults,
		analyses: analyses,
		users:    users,
		auth:     auth,
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(withObservabilityRequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", s.handleHealthz)

	r.Group(func(r chi.Router) {
		r.Use(s.withAuth)

		r.Post("/consult", s.handleOneShotConsult)
		r.Post("/consult/start", s.handleStartConsult)
		r.Get("/consult/{sessionID}", s.handleGetSession)
		r.Post("/consult/{sessionID}/messages", s.handleSendMessage)
		r.Post("/consult/{sessionID}/messages/stream", s.handleStreamMessage)

		r.Get("/profile", s.handleGetProfile)
		r.Put("/profile", s.handleUpdateProfile)
	})

	return r
}

// withObservabilityRequestID bridges chi's request id into the logging context.
func withObservabilityRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if reqID := middleware.GetReqID(ctx); reqID != "" {
			ctx = observability.WithRequestID(ctx, reqID)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
