// Package ws streams run screens to websocket viewers.
//
// A viewer attached to /screens/:id/stream receives the screen's state,
// its captured output, and a final exit frame. Disconnecting the viewer
// stops the run screen and kills its program.
//
// Message Types (Client → Server):
//   - ping: Keep-alive ping
//
// Message Types (Server → Client):
//   - screen: Screen info on attach
//   - output: Output captured since the previous frame, in data as valid
//     UTF-8 and in data_base64 as the exact bytes
//   - exit: Final screen info once the program has exited
//   - pong: Ping reply
//   - error: Invalid client message
//
// Example Usage:
//
//	handler := ws.NewHandler(screenManager, logger).WithMetrics(metrics)
//	router.GET("/screens/:id/stream", handler.HandleStream)
package ws
