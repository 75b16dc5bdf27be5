package infrastructure

import (
	"fmt"

	"sollotto/events"
)

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypeRoundCreated:
		return "lottery.rounds.created"
	case events.EventTypeRoundActivated:
		return "lottery.rounds.activated"
	case events.EventTypeRoundClosed:
		return "lottery.rounds.closed"
	case events.EventTypeTicketPurchased:
		return "lottery.tickets.purchased"
	case events.EventTypeTicketSettled:
		return "lottery.tickets.settled"
	case events.EventTypePotFunded:
		return "lottery.pot.funded"
	default:
		return fmt.Sprintf("lottery.unknown.%s", event.Type())
	}
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		"lottery.rounds.created",
		"lottery.rounds.activated",
		"lottery.rounds.closed",
		"lottery.tickets.purchased",
		"lottery.tickets.settled",
		"lottery.pot.funded",
	}
}
