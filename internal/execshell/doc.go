// Package execshell provides structured helpers for invoking the git
// executable.
//
// ShellExecutor wraps a CommandRunner with lifecycle events and typed
// failures so repository helpers can run git in a testable manner.
package execshell
