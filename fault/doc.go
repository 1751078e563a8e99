// Package fault defines the classified error taxonomy shared by the
// connectops execution core.
//
// Every error surfaced to an adapter is a *fault.Error carrying a Kind, the
// remote status code where one exists, and a retry-after hint where the
// remote or an admission gate supplied one. The retry orchestrator, circuit
// breaker, and batch executor all branch on Kind rather than on error
// strings or provider-specific types.
//
// # Kinds
//
// Kinds split into three families:
//
//   - Retryable remote failures, handled locally up to the retry budget:
//     KindAuthExpired, KindRateLimited, KindServerError,
//     KindConnectionFailure, KindTimeout.
//
//   - Terminal caller failures, surfaced immediately and never retried:
//     KindAuthDenied, KindClientValidation.
//
//   - Admission and simulation rejections, surfaced immediately because
//     retrying them inside the same pipeline defeats their purpose:
//     KindCircuitOpen, KindPoolExhausted, KindReplayMiss,
//     KindReplayModeMismatch.
//
// # Usage
//
//	resp, err := pipe.Execute(ctx, op, payload)
//	if err != nil {
//	    switch fault.KindOf(err) {
//	    case fault.KindRateLimited:
//	        // budget exhausted; back off at a higher level
//	    case fault.KindClientValidation:
//	        // fix the request, do not resubmit as-is
//	    }
//	}
package fault
