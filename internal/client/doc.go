// Package client implements the headless client runtime.
//
// It wires the server adapter, local session persistence, and the client
// services into a single process that establishes a session and keeps it
// alive: recording activity, refreshing tokens through the single-flight
// coordinator, and shutting down when the inactivity window runs out.
package client
