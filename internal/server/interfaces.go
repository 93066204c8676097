package server

// Server defines the lifecycle contract of the process-level server.
//
// RunServer blocks until a stop signal arrives and everything has been shut
// down. Shutdown may be called directly to stop the server without a signal.
type Server interface {
	// RunServer starts serving requests and blocks until the server stops.
	RunServer()

	// Shutdown gracefully stops the server and frees associated resources.
	Shutdown()
}
