// Package source implements the Source capability for packages that live on
// the local filesystem.
//
// PathSource discovers every package reachable from a root directory,
// answers registry queries over the discovered summaries, enumerates the
// files belonging to a package (preferring the enclosing git repository's
// view when one exists, so ignore rules are respected for free), and
// computes a cheap staleness fingerprint for incremental rebuilds.
package source
