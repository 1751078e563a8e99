// Package replay records live responses and serves them back
// deterministically, keyed by a canonical fingerprint of the request.
//
// Four modes cover the simulation lifecycle:
//   - ModeDisabled: the layer is inert, traffic flows untouched.
//   - ModeRecord: traffic flows, the final response of every operation
//     is persisted, overwriting earlier recordings of the same
//     fingerprint.
//   - ModeReplay: no network at all; responses come from the store and
//     an unknown fingerprint is a hard replay-miss fault.
//   - ModePassThrough: a recorded request replays from the store; an
//     unseen one executes live and is recorded. The first recording
//     wins, so replays stay stable across repeat calls.
//
// Fingerprints hash the operation name, method, path, and body over a
// canonical JSON form: object keys sorted, numbers normalized to a
// fixed precision. Logically identical requests therefore fingerprint
// identically regardless of key order or float formatting. Headers are
// excluded: credentials attach after the replay decision, so they are
// not part of request identity.
//
// Records live in a Store; MemoryStore backs tests and short-lived
// runs, BadgerStore persists fixtures on disk.
package replay
