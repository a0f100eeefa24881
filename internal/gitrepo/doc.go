// Package gitrepo contains helpers for interrogating local Git repositories.
//
// RepositoryReader resolves the currently checked-out branch through
// execshell so the CLI can relate local work to a remote provider.
package gitrepo
