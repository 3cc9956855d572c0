// Package engine implements the reconciliation core: snapshot capture,
// reference validation, artwork resolution, positional diffing against a
// persisted baseline, and queued membership updates.
//
// The Reconciler orchestrates these passes against injected collaborators
// (catalog source/sink, local artwork storage, baseline store). Remote passes
// run playlist units concurrently under a shared rate limit and retry
// transient failures with doubling backoff before downgrading the affected
// entry; a single bad entry never aborts a run.
package engine
