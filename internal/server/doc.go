// Package server wires and runs the application's HTTP server together with
// its background workers.
//
// It owns startup, signal handling and graceful shutdown: on SIGTERM, SIGINT
// or SIGQUIT the HTTP server drains in-flight requests before the workers
// are stopped.
package server
