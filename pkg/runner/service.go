// Package runner manages the lifecycle of the long-running services that
// make up the processor host.
package runner

import "context"

// Service is a component with explicit startup and shutdown.
type Service interface {
	// Name identifies the service in logs and errors.
	Name() string

	// Start brings the service up. It must respect context cancellation
	// and return once the service is ready.
	Start(ctx context.Context) error

	// Stop shuts the service down gracefully within the context deadline.
	Stop(ctx context.Context) error
}

// HealthChecker is an optional interface services can implement to report
// their health.
type HealthChecker interface {
	Service

	// HealthCheck returns an error if the service is unhealthy.
	HealthCheck(ctx context.Context) error
}
