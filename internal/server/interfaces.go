package server

// Server is the lifecycle contract for the REST API server.
//
// Implementations block in [Server.RunServer] until shutdown is requested and
// release their resources in [Server.Shutdown].
type Server interface {
	// RunServer starts serving requests and blocks until the server stops.
	RunServer()

	// Shutdown gracefully stops the server and frees associated resources.
	Shutdown()
}
