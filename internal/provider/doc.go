// Package provider models the code-hosting integrations the request layer talks to.
//
// It defines the Provider record with its concurrency-safe exception-tracking
// counters, the HealthNotifier surface that receives degradation warnings, and
// helpers for resolving provider declarations and authentication tokens from
// configuration and the environment.
package provider
