// Package health reports the operational state of connector
// infrastructure: circuit breakers, connection pools, and rate
// limiters.
//
// A Checker is any component that can report its health status. The
// Status type represents the health state: Healthy, Degraded, or
// Unhealthy. The package ships checkers for the resilience and pool
// primitives plus an active probe that leases a connection to verify
// the remote endpoint is reachable.
//
// # Basic Usage
//
//	check := health.NewBreakerChecker("breaker.jira", breaker)
//
//	result := check.Check(ctx)
//	if result.Status == health.StatusUnhealthy {
//	    log.Printf("jira unavailable: %s", result.Message)
//	}
//
// # Aggregating Health Checks
//
// Use Aggregator to sweep every registered checker and fold the
// results into one status:
//
//	agg := health.NewAggregator(health.AggregatorConfig{})
//	agg.Register("breaker.jira", health.NewBreakerChecker("breaker.jira", breaker))
//	agg.Register("pool.jira", health.NewPoolChecker("pool.jira", pool))
//
//	results := agg.CheckAll(ctx)
//	overall := agg.OverallStatus(results)
//
// # HTTP Endpoints
//
// The package provides HTTP handlers for common probe patterns:
//
//	// Liveness probe
//	http.Handle("/healthz", health.LivenessHandler())
//
//	// Readiness probe over the registered checkers
//	http.Handle("/readyz", health.ReadinessHandler(aggregator))
//
//	// Detailed per-component status
//	http.Handle("/health", health.DetailedHandler(aggregator))
package health
