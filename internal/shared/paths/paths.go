// Package paths names the directories where the demo images install their
// test programs.
package paths

import "path/filepath"

// Program directories
const (
	// Limare is where the limare demo image installs its programs
	Limare = "/system/bin/limare"

	// Premali is where the older premali image installs its programs
	Premali = "/system/bin/premali/premali"
)

// Known returns the program directories of every known demo image, newest first
func Known() []string {
	return []string{Limare, Premali}
}

// Program returns the path of the named program inside dir
func Program(dir, name string) string {
	return filepath.Join(dir, filepath.Base(name))
}
