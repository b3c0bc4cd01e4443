package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mcrl2-go/symbolic/server/api"
	"github.com/mcrl2-go/symbolic/server/middle"
	"github.com/mcrl2-go/symbolic/server/result"
	"github.com/mcrl2-go/symbolic/server/backend"
)

// newRouter builds the chi router for the introspection API: account
// management, document upload, and the alphabet-reduction/translation
// operations that run the engine against an uploaded document.
func newRouter(backend backend.Service, secret []byte) http.Handler {
	a := api.API{Backend: backend, UnauthDelay: unauthDelay, Secret: secret}
	users := backend.DB.Users()

	r := chi.NewRouter()
	r.Use(middle.DontPanic())
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		result.NotFound().WriteResponse(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		result.MethodNotAllowed(req).WriteResponse(w)
	})

	r.Route(api.PathPrefix, func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middle.OptionalAuth(users, secret, unauthDelay))
			r.Get("/", a.HTTPGetInfo())
			r.Post("/login", a.HTTPCreateLogin())
			r.Post("/register", a.HTTPCreateRegistration())
		})

		r.Group(func(r chi.Router) {
			r.Use(middle.RequireAuth(users, secret, unauthDelay))

			r.Delete("/login/{id}", a.HTTPDeleteLogin())
			r.Post("/tokens", a.HTTPCreateToken())

			r.Get("/users", a.HTTPGetAllUsers())
			r.Post("/users", a.HTTPCreateUser())
			r.Get("/users/{id}", a.HTTPGetUser())
			r.Patch("/users/{id}", a.HTTPUpdateUser())
			r.Put("/users/{id}", a.HTTPReplaceUser())
			r.Delete("/users/{id}", a.HTTPDeleteUser())

			r.Post("/documents", a.HTTPCreateDocument())
			r.Get("/documents", a.HTTPGetDocuments())
			r.Get("/documents/{id}", a.HTTPGetDocument())
			r.Delete("/documents/{id}", a.HTTPDeleteDocument())

			r.Post("/documents/{id}/reduction", a.HTTPCreateReduction())
			r.Get("/documents/{id}/reduction", a.HTTPGetReduction())
			r.Post("/documents/{id}/translations", a.HTTPCreateTranslation())
			r.Get("/documents/{id}/translations", a.HTTPGetTranslation())
		})
	})

	return r
}
