package secret

import (
	"errors"
	"reflect"
	"testing"
)

func TestRegistry_RegisterCreate(t *testing.T) {
	r := NewRegistry()
	factory := func(map[string]any) (Provider, error) {
		return &stubProvider{name: "stub"}, nil
	}

	if err := r.Register("stub", factory); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := r.Register("stub", factory); !errors.Is(err, ErrAlreadyRegistered) {
		t.Errorf("duplicate Register() error = %v", err)
	}
	if err := r.Register(" ", factory); !errors.Is(err, ErrInvalidRegistration) {
		t.Errorf("blank Register() error = %v", err)
	}
	if err := r.Register("nil", nil); !errors.Is(err, ErrInvalidRegistration) {
		t.Errorf("nil factory Register() error = %v", err)
	}

	p, err := r.Create("stub", nil)
	if err != nil || p.Name() != "stub" {
		t.Fatalf("Create() = %v, %v", p, err)
	}
	if _, err := r.Create("missing", nil); !errors.Is(err, ErrProviderNotRegistered) {
		t.Errorf("Create() error = %v", err)
	}
}

func TestDefaultRegistry(t *testing.T) {
	if got := DefaultRegistry.List(); !reflect.DeepEqual(got, []string{"dotenv", "env"}) {
		t.Errorf("List() = %v", got)
	}

	p, err := DefaultRegistry.Create("dotenv", map[string]any{"path": "/tmp/custom.env"})
	if err != nil {
		t.Fatal(err)
	}
	if dp, ok := p.(*DotenvProvider); !ok || dp.path != "/tmp/custom.env" {
		t.Errorf("dotenv provider = %#v", p)
	}
}
