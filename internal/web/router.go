package web

import (
	"github.com/go-chi/chi/v5"

	"github.com/starford/mannaz/internal/postservice"
	"github.com/starford/mannaz/internal/session"
)

// NewRouter creates a chi router with all board routes mounted. mediaRoot,
// if non-empty, enables serving locally stored images under /media; the
// remote backend serves its own URLs so the route is omitted.
func NewRouter(svc *postservice.Service, guard *session.Guard, mediaRoot string) chi.Router {
	h := NewHandler(svc, guard)

	r := chi.NewRouter()

	// Login and logout are the only routes outside the guard.
	r.Get("/login", h.LoginForm)
	r.Post("/login", h.Login)
	r.Get("/logout", h.Logout)

	// Locally stored images (browser-fetched, no session required).
	if mediaRoot != "" {
		mh := NewMediaHandler(mediaRoot)
		r.Get("/media/{filename}", mh.ServeFile)
	}

	// Board operations require an authenticated session.
	r.Group(func(r chi.Router) {
		r.Use(h.RequireSession)
		r.Get("/", h.List)
		r.Post("/add", h.Add)
		r.Post("/edit/{id}", h.Edit)
		r.Post("/delete", h.Delete)
	})

	return r
}
