package secret

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubProvider struct {
	name    string
	values  map[string]string
	resolve func(ref string) (string, error)
	closed  bool
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Resolve(_ context.Context, ref string) (string, error) {
	if s.resolve != nil {
		return s.resolve(ref)
	}
	if s.values == nil {
		return "", nil
	}
	return s.values[ref], nil
}

func (s *stubProvider) Close() error {
	s.closed = true
	return nil
}

func TestParseSecretRef(t *testing.T) {
	provider, ref, ok := ParseSecretRef("secretref:stub:alpha")
	if !ok {
		t.Fatalf("expected secretref to parse")
	}
	if provider != "stub" || ref != "alpha" {
		t.Fatalf("unexpected values: %q %q", provider, ref)
	}

	_, _, ok = ParseSecretRef("not-a-secretref")
	if ok {
		t.Fatalf("expected non-secretref to fail")
	}
}

func TestResolver_ResolvesFullSecretRef(t *testing.T) {
	r := NewResolver(true, NewStatic(map[string]string{"alpha": "one"}))

	got, err := r.ResolveValue(context.Background(), "secretref:static:alpha")
	if err != nil {
		t.Fatalf("ResolveValue() error = %v", err)
	}
	if got != "one" {
		t.Fatalf("ResolveValue() = %q, want %q", got, "one")
	}
}

func TestResolver_ResolvesInlineSecretRef(t *testing.T) {
	r := NewResolver(true, NewStatic(map[string]string{"beta": "two"}))

	got, err := r.ResolveValue(context.Background(), "Bearer secretref:static:beta")
	if err != nil {
		t.Fatalf("ResolveValue() error = %v", err)
	}
	if got != "Bearer two" {
		t.Fatalf("ResolveValue() = %q, want %q", got, "Bearer two")
	}
}

func TestResolver_PlainValuePassesThrough(t *testing.T) {
	r := NewResolver(true)

	got, err := r.ResolveValue(context.Background(), "just-a-token")
	if err != nil {
		t.Fatalf("ResolveValue() error = %v", err)
	}
	if got != "just-a-token" {
		t.Fatalf("ResolveValue() = %q, want %q", got, "just-a-token")
	}
}

func TestResolver_EnvProvider(t *testing.T) {
	t.Setenv("CONNECTOPS_TEST_TOKEN", "tok-123")

	r := NewResolver(true, NewEnv())

	got, err := r.ResolveValue(context.Background(), "secretref:env:CONNECTOPS_TEST_TOKEN")
	if err != nil {
		t.Fatalf("ResolveValue() error = %v", err)
	}
	if got != "tok-123" {
		t.Fatalf("ResolveValue() = %q, want %q", got, "tok-123")
	}

	_, err = r.ResolveValue(context.Background(), "secretref:env:CONNECTOPS_TEST_ABSENT")
	if err == nil {
		t.Fatalf("expected error for unset variable")
	}
}

func TestResolver_StaticUnknownRefErrors(t *testing.T) {
	r := NewResolver(true, NewStatic(map[string]string{"alpha": "one"}))

	_, err := r.ResolveValue(context.Background(), "secretref:static:missing")
	if err == nil {
		t.Fatalf("expected error for unknown ref")
	}
}

func TestResolver_UnregisteredProviderErrors(t *testing.T) {
	r := NewResolver(true)

	_, err := r.ResolveValue(context.Background(), "secretref:vault:path/to/key")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "vault") {
		t.Fatalf("expected provider name in error, got: %v", err)
	}
}

func TestResolver_StrictEmptyProviderValueErrors(t *testing.T) {
	r := NewResolver(true, &stubProvider{name: "stub", values: map[string]string{"empty": ""}})

	_, err := r.ResolveValue(context.Background(), "secretref:stub:empty")
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestResolver_ResolveMap(t *testing.T) {
	r := NewResolver(true, NewStatic(map[string]string{"alpha": "one"}))

	m, err := r.ResolveMap(context.Background(), map[string]string{
		"Authorization": "Bearer secretref:static:alpha",
		"Accept":        "application/json",
	})
	if err != nil {
		t.Fatalf("ResolveMap() error = %v", err)
	}
	if m["Authorization"] != "Bearer one" {
		t.Fatalf("ResolveMap()[\"Authorization\"] = %q, want %q", m["Authorization"], "Bearer one")
	}
	if m["Accept"] != "application/json" {
		t.Fatalf("ResolveMap()[\"Accept\"] = %q, want %q", m["Accept"], "application/json")
	}
}

func TestResolver_ProviderResolveErrorPropagates(t *testing.T) {
	r := NewResolver(true, &stubProvider{name: "stub", resolve: func(ref string) (string, error) {
		if ref == "boom" {
			return "", errors.New("explode")
		}
		return "ok", nil
	}})

	_, err := r.ResolveValue(context.Background(), "secretref:stub:boom")
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestResolver_CloseClosesProviders(t *testing.T) {
	p := &stubProvider{name: "stub"}
	r := NewResolver(true, p)

	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !p.closed {
		t.Fatalf("expected provider to be closed")
	}
}
