// Package types provides shared data structures for the demo launcher.
//
// This package defines the values that cross package boundaries: the
// program entries produced by the lister, the public view of run screens,
// and the frames written to websocket viewers.
//
// Core Types:
//   - Program: Executable entry found in the programs directory
//   - ScreenInfo: Public representation of a run screen
//   - ScreenState: Run screen lifecycle (running, idle, stopped)
//   - Stats: Screen manager statistics
//   - StreamFrame: WebSocket frame for screen viewers
//
// Example Usage:
//
//	program := types.Program{
//	    Path: "/system/bin/limare/cube_textured",
//	    Name: "cube_textured",
//	    Kind: "application/x-executable",
//	}
package types
