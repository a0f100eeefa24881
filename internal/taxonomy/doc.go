// Package taxonomy defines the stable error vocabulary the request layer
// surfaces to callers.
//
// Every transport or HTTP failure observed while talking to a code-hosting
// provider is normalized into exactly one taxonomy value; raw causes remain
// reachable through Unwrap but are never exposed as the primary error.
package taxonomy
