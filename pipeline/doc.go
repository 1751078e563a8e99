// Package pipeline executes logical operations against one remote
// endpoint through the full resilience chain.
//
// One Pipeline owns an endpoint's gates. Per physical attempt it runs,
// in order: replay short-circuit, circuit-breaker admission, rate-limiter
// admission, pool lease, credential attach, transport send under the
// per-attempt timeout, and response classification. The lease settles on
// every exit path, the breaker records exactly one outcome per admitted
// attempt, and the retry policy then decides between another attempt and
// surfacing the classified fault. A trace span wraps the logical
// operation with a child span per attempt.
//
// Collaborators are injected at construction and the pipeline holds no
// global state, so two endpoints never share a breaker or limiter unless
// the caller passes the same instance to both:
//
//	pl, err := pipeline.New(pipeline.Config{
//	    Pool:    connPool,
//	    Limiter: resilience.NewRateLimiter(resilience.RateLimiterConfig{Rate: 50, Burst: 10}),
//	    Breaker: resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{}),
//	    Retry:   resilience.NewRetryPolicy(resilience.RetryPolicyConfig{MaxAttempts: 4}),
//	})
//	if err != nil {
//	    return err
//	}
//
//	resp, err := pl.Execute(ctx, pipeline.Operation{
//	    Name:      "issues.search",
//	    Connector: "jira",
//	    Target:    "acme.atlassian.net",
//	}, &transport.Request{Method: http.MethodGet, Path: "/rest/api/3/search"})
package pipeline
