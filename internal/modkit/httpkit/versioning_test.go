package httpkit

import (
	"net/http"
	"testing"
)

func TestMountAPI_PrefixesAndAppliesMiddleware(t *testing.T) {
	r := &fakeRouter{}
	mw := func(next http.Handler) http.Handler { return next }

	mounted := 0
	MountAPI(r, "v2", []func(http.Handler) http.Handler{mw, mw}, func(api Router) { mounted++ })

	if len(r.prefixes) != 1 || r.prefixes[0] != "/api/v2" {
		t.Fatalf("prefixes = %v, want [/api/v2]", r.prefixes)
	}
	if r.mwSeen != 2 {
		t.Fatalf("middleware applied = %d, want 2", r.mwSeen)
	}
	if mounted != 1 {
		t.Fatalf("mount closure ran %d times, want 1", mounted)
	}
}

func TestMountAPI_TrimsLeadingSlashOnVersion(t *testing.T) {
	r := &fakeRouter{}
	MountAPI(r, "/v3", nil, func(api Router) {})

	if r.prefixes[0] != "/api/v3" {
		t.Fatalf("prefix = %q, want /api/v3", r.prefixes[0])
	}
	if r.mwSeen != 0 {
		t.Fatalf("middleware applied = %d, want none", r.mwSeen)
	}
}

func TestMountAPIV1_Convenience(t *testing.T) {
	r := &fakeRouter{}
	MountAPIV1(r, nil, func(api Router) {})

	if r.prefixes[0] != "/api/v1" {
		t.Fatalf("prefix = %q, want /api/v1", r.prefixes[0])
	}
}
