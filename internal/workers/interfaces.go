// Package workers runs the background maintenance loops: the replay-nonce
// sweep and the expired-session sweep. The Workers aggregate starts them
// together from main.
package workers

// Worker is a background maintenance loop. Run starts the loop and returns
// immediately; the work happens on an internal goroutine.
type Worker interface {
	Run()
}
