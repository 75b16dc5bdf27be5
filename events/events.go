package events

import "sollotto/domain/entities"

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeRoundCreated    EventType = "round_created"
	EventTypeRoundActivated  EventType = "round_activated"
	EventTypeRoundClosed     EventType = "round_closed"
	EventTypeTicketPurchased EventType = "ticket_purchased"
	EventTypeTicketSettled   EventType = "ticket_settled"
	EventTypePotFunded       EventType = "pot_funded"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// RoundCreatedEvent represents a new round awaiting its activation reveal
type RoundCreatedEvent struct {
	RoundID string
	Creator entities.Address
}

func (e RoundCreatedEvent) Type() EventType {
	return EventTypeRoundCreated
}

// RoundActivatedEvent represents a round reveal setting the number to beat
type RoundActivatedEvent struct {
	RoundID    string
	MainNumber int64
}

func (e RoundActivatedEvent) Type() EventType {
	return EventTypeRoundActivated
}

// RoundClosedEvent represents an admin safety-valve deactivation
type RoundClosedEvent struct {
	RoundID  string
	ClosedBy entities.Address
}

func (e RoundClosedEvent) Type() EventType {
	return EventTypeRoundClosed
}

// TicketPurchasedEvent represents a paid ticket awaiting its reveal
type TicketPurchasedEvent struct {
	RoundID  string
	TicketID string
	Buyer    entities.Address
	Price    int64
}

func (e TicketPurchasedEvent) Type() EventType {
	return EventTypeTicketPurchased
}

// TicketSettledEvent represents a ticket reveal that has been processed
type TicketSettledEvent struct {
	RoundID   string
	TicketID  string
	Buyer     entities.Address
	Won       bool
	WinNumber int64
	Payout    int64 // zero for losing tickets
}

func (e TicketSettledEvent) Type() EventType {
	return EventTypeTicketSettled
}

// PotFundedEvent represents an admin top-up of the prize pot
type PotFundedEvent struct {
	PotID     string
	FundingID string
	Amount    int64
	FundedBy  entities.Address
}

func (e PotFundedEvent) Type() EventType {
	return EventTypePotFunded
}
