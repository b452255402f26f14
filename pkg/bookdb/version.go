// Package bookdb holds module-wide metadata.
package bookdb

// Version is the bookdb release version, stamped at build time via
// -ldflags "-X github.com/dukaforge/bookdb/pkg/bookdb.Version=...".
var Version = "0.3.0-dev"
