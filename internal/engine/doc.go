// Package engine contains the repository scanner for alguard. It walks the
// root, selects AL files by glob, evaluates the configured rules on each and
// returns the findings in walk order. This package is internal; external
// consumers should use the stable facade in pkg/core.
package engine
