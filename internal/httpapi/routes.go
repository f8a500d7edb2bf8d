package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Routes builds the router. wsHandler is mounted unauthenticated, as are
// registration, login and email validation; everything else requires a
// bearer token.
func (a *API) Routes(wsHandler http.HandlerFunc) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(a.requestLogger)

	// Public routes
	r.Get("/healthz", a.healthz)
	r.Get("/ws", wsHandler)
	r.Post("/users", a.registerUser)
	r.Post("/users/login", a.loginUser)
	r.Get("/users/validate/{token}", a.validateEmail)

	// Everything below carries a user identity.
	r.Group(func(r chi.Router) {
		r.Use(a.auth.Middleware)

		r.Get("/users/me", a.currentUser)
		r.Patch("/users", a.updateUser)
		r.Delete("/users", a.deleteUser)

		r.Post("/groups", a.createGroup)
		r.Get("/groups", a.listRootGroups)
		r.Get("/groups/views/leaves", a.leafGroups)
		r.Get("/groups/views/without-participants", a.groupsWithoutParticipants)
		r.Get("/groups/views/with-participants", a.groupsWithParticipants)
		r.Get("/groups/{id}", a.getGroup)
		r.Get("/groups/{id}/subgroups", a.listSubgroups)
		r.Get("/groups/{id}/participants", a.listParticipants)
		r.Get("/groups/{id}/result", a.groupResult)
		r.Patch("/groups/{id}", a.updateGroup)
		r.Delete("/groups/{id}", a.deleteGroup)

		r.Post("/participants", a.createParticipant)
		r.Get("/participants/{id}", a.getParticipant)
		r.Patch("/participants/{id}", a.updateParticipant)
		r.Delete("/participants/{id}", a.deleteParticipant)

		r.Post("/votes", a.createVote)
	})

	return r
}

func (a *API) healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (a *API) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		a.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("took", time.Since(start)),
		)
	})
}
