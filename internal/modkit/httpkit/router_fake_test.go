package httpkit

import (
	"net/http"

	phttp "devpulse/internal/platform/net/http"
)

// routeRec is one verb registration captured by fakeRouter
type routeRec struct {
	verb string
	path string
	h    phttp.Handler
}

// fakeRouter records prefixes, middleware and verb registrations so
// mounting helpers can be asserted without a real chi mux
type fakeRouter struct {
	prefixes []string
	mwSeen   int
	recs     []routeRec
}

func (f *fakeRouter) Route(prefix string, fn func(Router)) {
	f.prefixes = append(f.prefixes, prefix)
	fn(f)
}

func (f *fakeRouter) Group(fn func(Router)) { fn(f) }

func (f *fakeRouter) Use(mw ...func(http.Handler) http.Handler) { f.mwSeen += len(mw) }

func (f *fakeRouter) Mux() http.Handler { return http.NewServeMux() }

func (f *fakeRouter) Handle(path string, h http.Handler) {}

func (f *fakeRouter) rec(verb, path string, h phttp.Handler) {
	f.recs = append(f.recs, routeRec{verb: verb, path: path, h: h})
}

func (f *fakeRouter) Get(path string, h phttp.Handler)     { f.rec("GET", path, h) }
func (f *fakeRouter) Post(path string, h phttp.Handler)    { f.rec("POST", path, h) }
func (f *fakeRouter) Put(path string, h phttp.Handler)     { f.rec("PUT", path, h) }
func (f *fakeRouter) Patch(path string, h phttp.Handler)   { f.rec("PATCH", path, h) }
func (f *fakeRouter) Delete(path string, h phttp.Handler)  { f.rec("DELETE", path, h) }
func (f *fakeRouter) Options(path string, h phttp.Handler) { f.rec("OPTIONS", path, h) }
func (f *fakeRouter) Head(path string, h phttp.Handler)    { f.rec("HEAD", path, h) }
