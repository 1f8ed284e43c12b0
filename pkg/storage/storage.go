// Package storage defines the base abstractions shared by storage backends.
// Each backend (redis, the relational store) implements Client so health
// checking and shutdown look the same regardless of what sits behind it.
package storage

import (
	"context"
	"time"
)

// Client is the base interface that all storage clients implement.
type Client interface {
	// Name returns the storage type name, a lowercase identifier like
	// "redis" or "sqlite". Used for logging and health reporting.
	Name() string

	// Ping checks if the connection to the storage backend is alive. It
	// performs a lightweight operation and honors the context deadline.
	Ping(ctx context.Context) error

	// Close closes the connection gracefully. Idempotent.
	Close() error

	// Health returns a HealthChecker bound to this client for use by
	// readiness endpoints.
	Health() HealthChecker
}

// HealthChecker performs a health check on a storage backend.
type HealthChecker func() error

// HealthStatus is the result of a health check.
type HealthStatus struct {
	// Name matches Client.Name().
	Name string `json:"name"`

	// Healthy reports whether the backend responded.
	Healthy bool `json:"healthy"`

	// Latency is how long the check took.
	Latency time.Duration `json:"latency"`

	// Error holds the failure when Healthy is false.
	Error error `json:"-"`

	// Message is the failure text, carried separately so the status
	// serializes cleanly.
	Message string `json:"error,omitempty"`
}

// Check runs a checker and wraps the result in a HealthStatus.
func Check(name string, checker HealthChecker) HealthStatus {
	start := time.Now()
	err := checker()
	status := HealthStatus{
		Name:    name,
		Healthy: err == nil,
		Latency: time.Since(start),
		Error:   err,
	}
	if err != nil {
		status.Message = err.Error()
	}
	return status
}
