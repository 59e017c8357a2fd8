// Package cache persists per-file findings keyed by content hash and the
// latest scan results.
package cache
