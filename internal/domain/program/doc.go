// Package program discovers the demo programs that can be launched.
//
// A Lister scans one directory (never its sub-directories) and keeps the
// regular files that carry an executable permission bit. Symlinks are
// followed, so a link to an executable counts. An optional doublestar
// pattern narrows the result by base name, and each entry is tagged with a
// sniffed MIME type so front-ends can tell binaries from scripts.
//
// A missing or unreadable directory is not fatal: List logs it once and
// returns an empty slice. Scan exposes the same walk with the error
// returned instead, wrapped around ErrDirectoryUnavailable.
//
// Results are sorted by path. The directory is walked concurrently, so the
// raw enumeration order carries no meaning; sorting keeps an index stable
// between the list a user sees and the selection they make.
package program
