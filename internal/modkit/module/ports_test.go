package module

import (
	"testing"

	pstrings "devpulse/internal/platform/strings"

	"devpulse/internal/modkit/httpkit"
)

// triggerPort mimics the shape modules expose for cross-module calls,
// like the sync trigger the users module pulls from the sync module
type triggerPort interface {
	Trigger() int
}

type triggerImpl struct{ v int }

func (f triggerImpl) Trigger() int { return f.v }

// fakeModule is a small module double for tests
type fakeModule struct {
	name  string
	ports any
}

func (m fakeModule) Name() string               { return m.name }
func (m fakeModule) Ports() PortSet             { return m.ports }
func (m fakeModule) MountRoutes(httpkit.Router) {}

func TestPortsOf_NilPorts(t *testing.T) {
	t.Parallel()

	m := fakeModule{name: "nilPorts", ports: nil}
	if _, ok := PortsOf[triggerPort](m); ok {
		t.Fatalf("expected ok=false when Ports() is nil")
	}
}

func TestPortsOf_DirectInterfaceMatch(t *testing.T) {
	t.Parallel()

	want := triggerImpl{v: 42}
	m := fakeModule{name: "direct", ports: triggerPort(want)}

	got, ok := PortsOf[triggerPort](m)
	if !ok {
		t.Fatalf("expected ok=true for direct interface match")
	}
	if got.Trigger() != 42 {
		t.Fatalf("unexpected value, got %d want 42", got.Trigger())
	}
}

func TestPortsOf_StructBundle_ExportedField(t *testing.T) {
	t.Parallel()

	// exported field should be discoverable
	type Ports struct {
		Syncer triggerPort
		Extra  int
	}
	want := triggerImpl{v: 7}
	m := fakeModule{
		name:  "bundle",
		ports: Ports{Syncer: want, Extra: 1},
	}

	got, ok := PortsOf[triggerPort](m)
	if !ok {
		t.Fatalf("expected ok=true when bundle has exported Syncer field")
	}
	if got.Trigger() != 7 {
		t.Fatalf("unexpected value, got %d want 7", got.Trigger())
	}
}

func TestPortsOf_StructBundle_UnexportedField_Ignored(t *testing.T) {
	t.Parallel()

	type ports struct {
		syncer triggerPort // unexported
		extra  int
	}
	m := fakeModule{
		name:  "unexported",
		ports: ports{syncer: triggerImpl{v: 1}, extra: 2},
	}

	if _, ok := PortsOf[triggerPort](m); ok {
		t.Fatalf("expected ok=false when only unexported field implements T")
	}
}

func TestMustPortsOf_PanicsWithModuleName(t *testing.T) {
	t.Parallel()

	m := fakeModule{name: "users", ports: nil}

	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic from MustPortsOf when port missing")
		}
		msg, _ := r.(string)
		if msg == "" || !pstrings.Contains(msg, "users") || !pstrings.Contains(msg, "requested port not found") {
			t.Fatalf("panic message should include module name and hint, got %q", msg)
		}
	}()

	_ = MustPortsOf[triggerPort](m)
}

func TestMustPortsOf_ReturnsValue(t *testing.T) {
	t.Parallel()

	m := fakeModule{
		name:  "ok",
		ports: triggerPort(triggerImpl{v: 99}),
	}

	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("did not expect panic, got %v", r)
		}
	}()

	got := MustPortsOf[triggerPort](m)
	if got.Trigger() != 99 {
		t.Fatalf("unexpected value from MustPortsOf, got %d want 99", got.Trigger())
	}
}
