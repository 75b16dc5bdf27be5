package infrastructure

import (
	"context"

	"sollotto/events"
)

// NoopEventPublisher is an event publisher that does nothing.
// Useful for tests and operator commands where events should not fan out.
type NoopEventPublisher struct{}

// NewNoopEventPublisher creates a new no-op event publisher
func NewNoopEventPublisher() *NoopEventPublisher {
	return &NoopEventPublisher{}
}

// Publish does nothing with the event
func (n *NoopEventPublisher) Publish(event events.Event) error {
	return nil
}

// NoopTransactionalPublisher is a transactional publisher that drops
// everything. Flush and Discard are no-ops.
type NoopTransactionalPublisher struct{}

// NewNoopTransactionalPublisher creates a new no-op transactional publisher
func NewNoopTransactionalPublisher() *NoopTransactionalPublisher {
	return &NoopTransactionalPublisher{}
}

// Publish does nothing with the event
func (n *NoopTransactionalPublisher) Publish(event events.Event) error {
	return nil
}

// Flush does nothing
func (n *NoopTransactionalPublisher) Flush(ctx context.Context) error {
	return nil
}

// Discard does nothing
func (n *NoopTransactionalPublisher) Discard() {}
