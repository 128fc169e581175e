package module

import (
	"testing"

	phttp "reviewflow/internal/platform/net/http"
)

type fakeModule struct {
	ports any
}

func (fakeModule) MountRoutes(phttp.Router) {}
func (m fakeModule) Ports() any             { return m.ports }
func (fakeModule) Name() string             { return "fake" }

func TestPortsOf_Direct(t *testing.T) {
	t.Parallel()

	m := fakeModule{ports: greeter{}}
	got, ok := PortsOf[greeterPort](m)
	if !ok {
		t.Fatalf("expected direct port match")
	}
	if got.Greet() != "hi" {
		t.Fatalf("Greet = %q", got.Greet())
	}
}

func TestPortsOf_StructField(t *testing.T) {
	t.Parallel()

	type bundle struct {
		Greeter greeterPort
	}
	m := fakeModule{ports: bundle{Greeter: greeter{}}}
	if _, ok := PortsOf[greeterPort](m); !ok {
		t.Fatalf("expected port found via exported struct field")
	}
}

func TestPortsOf_NilPorts(t *testing.T) {
	t.Parallel()

	if _, ok := PortsOf[greeterPort](fakeModule{}); ok {
		t.Fatalf("expected miss on nil ports")
	}
}

func TestMustPortsOf_Panics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Fatalf("MustPortsOf should panic when port is missing")
		}
	}()
	MustPortsOf[greeterPort](fakeModule{})
}
