package httpkit

import "net/http"

// Get registers a no-body handler and wraps it in the envelope adapter
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, Call(h))
}

// Post registers a no-body handler and wraps it in the envelope adapter.
// Handlers that do read a body parse it themselves via bind
func Post(r Router, path string, h func(*http.Request) (any, error)) {
	r.Post(path, Call(h))
}
