// Package screen models the two screens of the demo launcher.
//
// The list screen shows the programs found by the lister; a row is
// produced by a render callback handed to the generic List component.
// Selecting a row yields Extras, a plain string map, which is everything
// the run screen needs to start.
//
// A run screen launches the program named in its extras when created and
// owns the resulting process handle. Its message is the program's base name
// when the launch succeeded and the attempted path when it did not. Stopping
// the screen kills the process and clears the handle; stopping again does
// nothing.
//
// The Manager keeps the open run screens of a host (HTTP service or TTY
// front-end), addresses them by ID and stops them all on shutdown.
package screen
