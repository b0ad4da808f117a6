package http

import "net/http"

// Handler is the platform handler signature used across all modules
type Handler = func(http.ResponseWriter, *http.Request)

// Router is the small mounting surface handed to module HTTP registrars
type Router interface {
	Get(path string, h Handler)
	Post(path string, h Handler)
	Put(path string, h Handler)
	Patch(path string, h Handler)
	Delete(path string, h Handler)

	// rarely used verbs, kept so health checks and preflight stay mountable
	Head(path string, h Handler)
	Options(path string, h Handler)

	Handle(path string, h http.Handler)
	Use(mw ...func(http.Handler) http.Handler)
	Group(fn func(Router))
	Route(pattern string, fn func(Router))

	Mux() http.Handler
}
