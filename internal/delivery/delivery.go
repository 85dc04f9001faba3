// Package delivery defines the contract every transport implementation
// (HTTP, workers) fulfills so the entrypoint can start them uniformly.
package delivery

import "context"

// Delivery is a running transport surface of the application.
type Delivery interface {
	// Serve blocks while serving until the context is cancelled or a fatal
	// error occurs.
	Serve(ctx context.Context) error
}
