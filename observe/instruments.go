package observe

// Instruments bundles the telemetry primitives the execution pipeline
// records through. A nil or noop bundle keeps execution observable-free
// without nil checks at every call site.
type Instruments struct {
	Tracer  Tracer
	Metrics Metrics
	Logger  Logger
}

// NewInstruments builds Instruments from an Observer.
func NewInstruments(obs Observer) (*Instruments, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return &Instruments{
		Tracer:  NewTracer(obs.Tracer()),
		Metrics: metrics,
		Logger:  obs.Logger(),
	}, nil
}

// NoopInstruments returns instruments that record nothing.
func NoopInstruments() *Instruments {
	return &Instruments{
		Tracer:  NewNoopTracer(),
		Metrics: &noopMetrics{},
		Logger:  &noopLogger{},
	}
}
