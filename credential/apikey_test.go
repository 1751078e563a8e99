package credential

import (
	"context"
	"errors"
	"testing"

	"github.com/jonwraymond/connectops/fault"
	"github.com/jonwraymond/connectops/secret"
	"github.com/jonwraymond/connectops/transport"
)

func TestNewAPIKey(t *testing.T) {
	key, err := NewAPIKey("sk-test-123", APIKeyConfig{})
	if err != nil {
		t.Fatalf("NewAPIKey() error = %v", err)
	}
	if key.config.Header != "X-API-Key" {
		t.Errorf("Header = %v, want X-API-Key", key.config.Header)
	}
}

func TestNewAPIKey_EmptyKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{name: "empty", key: ""},
		{name: "whitespace only", key: "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAPIKey(tt.key, APIKeyConfig{})
			if !errors.Is(err, ErrEmptyKey) {
				t.Errorf("NewAPIKey() error = %v, want ErrEmptyKey", err)
			}
		})
	}
}

func TestAPIKey_Attach(t *testing.T) {
	key, err := NewAPIKey("sk-test-123", APIKeyConfig{})
	if err != nil {
		t.Fatalf("NewAPIKey() error = %v", err)
	}

	req := &transport.Request{Method: "GET", Path: "/v1/ping"}
	if err := key.Attach(context.Background(), req); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}

	if got := req.Headers["X-API-Key"]; got != "sk-test-123" {
		t.Errorf("header = %v, want sk-test-123", got)
	}
}

func TestAPIKey_AttachCustomHeaderAndPrefix(t *testing.T) {
	key, err := NewAPIKey("dd-app-key", APIKeyConfig{
		Header: "DD-API-KEY",
		Prefix: "Token ",
	})
	if err != nil {
		t.Fatalf("NewAPIKey() error = %v", err)
	}

	req := &transport.Request{Method: "POST", Path: "/api/v2/logs"}
	if err := key.Attach(context.Background(), req); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}

	if got := req.Headers["DD-API-KEY"]; got != "Token dd-app-key" {
		t.Errorf("header = %v, want %q", got, "Token dd-app-key")
	}
}

func TestAPIKey_IsAuthExpired(t *testing.T) {
	key, err := NewAPIKey("sk-test-123", APIKeyConfig{})
	if err != nil {
		t.Fatalf("NewAPIKey() error = %v", err)
	}

	// Static keys have no refresh path, so even an auth-expired
	// classification is terminal.
	if key.IsAuthExpired(fault.AuthExpired(nil)) {
		t.Errorf("IsAuthExpired() = true, want false")
	}
}

func TestAPIKey_Refresh(t *testing.T) {
	key, err := NewAPIKey("sk-test-123", APIKeyConfig{})
	if err != nil {
		t.Fatalf("NewAPIKey() error = %v", err)
	}

	if err := key.Refresh(context.Background()); !errors.Is(err, ErrRefreshNotSupported) {
		t.Errorf("Refresh() error = %v, want ErrRefreshNotSupported", err)
	}
}

func TestNewAPIKeyFromSecret(t *testing.T) {
	resolver := secret.NewResolver(true, secret.NewStatic(map[string]string{
		"jira_token": "atl-token-9",
	}))

	key, err := NewAPIKeyFromSecret(context.Background(), resolver, "secretref:static:jira_token", APIKeyConfig{})
	if err != nil {
		t.Fatalf("NewAPIKeyFromSecret() error = %v", err)
	}

	req := &transport.Request{Method: "GET", Path: "/rest/api/3/myself"}
	if err := key.Attach(context.Background(), req); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	if got := req.Headers["X-API-Key"]; got != "atl-token-9" {
		t.Errorf("header = %v, want atl-token-9", got)
	}
}

func TestNewAPIKeyFromSecret_UnknownRef(t *testing.T) {
	resolver := secret.NewResolver(true, secret.NewStatic(nil))

	_, err := NewAPIKeyFromSecret(context.Background(), resolver, "secretref:static:missing", APIKeyConfig{})
	if err == nil {
		t.Fatalf("expected error for unknown ref")
	}
}
