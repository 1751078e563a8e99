package pipeline

import "github.com/jonwraymond/connectops/observe"

// Operation describes one logical call against a remote endpoint.
// Values are immutable; adapters build one per call site.
type Operation struct {
	// Name identifies the logical operation, e.g. "issues.search".
	// It keys replay fingerprints and telemetry, so two calls with the
	// same Name and request are the same operation.
	Name string

	// Connector names the provider family, e.g. "jira" or "salesforce".
	Connector string

	// Target identifies the remote endpoint instance, such as a site
	// hostname or region.
	Target string

	// Idempotent marks the operation as safe to repeat. The flag rides
	// on telemetry; adapters that multiplex one pipeline across mixed
	// operations use it to pick their retry policy.
	Idempotent bool
}

// Validate checks that the descriptor can be executed.
func (o Operation) Validate() error {
	if o.Name == "" {
		return ErrMissingName
	}
	return nil
}

// meta bridges the descriptor to its telemetry form.
func (o Operation) meta() observe.OpMeta {
	return observe.OpMeta{
		Name:       o.Name,
		Connector:  o.Connector,
		Target:     o.Target,
		Idempotent: o.Idempotent,
	}
}
