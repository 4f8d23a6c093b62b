// Package delivery holds the process entry points that serve traffic.
package delivery

import "context"

// Delivery is a long-running server started by the bootstrap.
type Delivery interface {
	Serve(ctx context.Context) error
}
