// Package notify delivers best-effort operator notifications. Backends
// are pluggable: SES mails the operator directly, AMQP publishes the
// event for self-hosted deployments, and the nop backend disables
// notifications entirely.
package notify

import (
	"context"
	"time"
)

// Registration describes a completed account registration.
type Registration struct {
	Username string    `json:"username"`
	Email    string    `json:"email"`
	At       time.Time `json:"at"`
}

// Backend delivers notifications over a concrete transport.
type Backend interface {
	SendRegistration(ctx context.Context, reg Registration) error
	Close() error
}

// Notifier wraps a backend with a stable API.
type Notifier struct {
	backend Backend
}

// New constructs a Notifier for the provided backend.
func New(backend Backend) *Notifier {
	return &Notifier{backend: backend}
}

// SendRegistration delivers a registration notification.
func (n *Notifier) SendRegistration(ctx context.Context, reg Registration) error {
	return n.backend.SendRegistration(ctx, reg)
}

// Close closes the underlying backend.
func (n *Notifier) Close() error {
	return n.backend.Close()
}

// NopBackend discards all notifications.
type NopBackend struct{}

func (NopBackend) SendRegistration(context.Context, Registration) error { return nil }
func (NopBackend) Close() error                                         { return nil }
