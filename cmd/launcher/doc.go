// Package main is a terminal front-end for the demo launcher.
//
// It prints the executable programs found in the programs directory as a
// numbered list, reads the chosen number from stdin, and runs that program
// while echoing its output. Pressing Enter, closing stdin, or sending
// SIGINT/SIGTERM stops the program.
//
// Usage:
//
//	./launcher -dir /system/bin/limare
//	./launcher -run /system/bin/limare/spinning_cube -mode pty
package main
