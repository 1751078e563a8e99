package secret

import (
	"context"
	"fmt"
	"os"
)

// Env resolves secret refs as environment variable names, so
// "secretref:env:JIRA_API_TOKEN" reads $JIRA_API_TOKEN.
type Env struct{}

// NewEnv creates an environment variable provider.
func NewEnv() *Env {
	return &Env{}
}

// Name returns "env".
func (e *Env) Name() string {
	return "env"
}

// Resolve reads the environment variable named by ref.
// Missing variables are an error, empty values are not.
func (e *Env) Resolve(_ context.Context, ref string) (string, error) {
	value, ok := os.LookupEnv(ref)
	if !ok {
		return "", fmt.Errorf("secret: environment variable %q is not set", ref)
	}
	return value, nil
}

// Close is a no-op.
func (e *Env) Close() error {
	return nil
}

// Ensure Env implements Provider
var _ Provider = (*Env)(nil)
