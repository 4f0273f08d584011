// Package utils holds input validation shared by the HTTP API and the
// terminal front-end.
package utils
