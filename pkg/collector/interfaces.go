// Package collector provides interfaces for Warmup API interactions.
package collector

import (
	"context"

	"github.com/cmartindale/warmup-prometheus-exporter/pkg/warmup"
)

// WarmupAPI defines the interface for Warmup API interactions.
// This interface allows for dependency injection and testing with mocks.
type WarmupAPI interface {
	// GetStatus retrieves the status of every location, room and thermostat
	// on the account. A nil response with a nil error means the client's
	// session was not ready and the call was skipped.
	GetStatus(ctx context.Context) (*warmup.QueryResponse, error)
}
