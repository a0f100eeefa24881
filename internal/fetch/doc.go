// Package fetch performs outbound requests against code-hosting providers.
//
// Executor wires timeout and cancellation semantics around a pluggable
// transport and converts failed responses into the taxonomy vocabulary via
// ResponseClassifier. Statuses that indicate transient infrastructure trouble
// (500, 502, 503) are absorbed by the classifier into telemetry and warnings
// while the executor still re-raises the original failure to its caller.
package fetch
