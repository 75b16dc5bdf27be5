package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"sollotto/domain/entities"
	"sollotto/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

const (
	roundRevealSubject  = "vrf.reveals.round"
	ticketRevealSubject = "vrf.reveals.ticket"
)

// roundReveal is the wire format of an oracle reveal for a round
type roundReveal struct {
	RoundID  string `json:"round_id"`
	RevealID string `json:"reveal_id"`
	Value    int64  `json:"value"`
}

// ticketReveal is the wire format of an oracle reveal for a ticket
type ticketReveal struct {
	RoundID  string `json:"round_id"`
	TicketID string `json:"ticket_id"`
	Value    int64  `json:"value"`
}

// RevealConsumer subscribes to oracle reveal subjects and dispatches them
// into the settlement service
type RevealConsumer struct {
	natsClient *NATSClient
	settlement interfaces.SettlementService
}

// NewRevealConsumer creates a new reveal consumer
func NewRevealConsumer(natsClient *NATSClient, settlement interfaces.SettlementService) *RevealConsumer {
	return &RevealConsumer{
		natsClient: natsClient,
		settlement: settlement,
	}
}

// Start subscribes to the round and ticket reveal subjects
func (c *RevealConsumer) Start(ctx context.Context) error {
	if err := c.natsClient.EnsureRevealStream(); err != nil {
		return fmt.Errorf("failed to ensure reveal stream: %w", err)
	}

	if err := c.natsClient.Subscribe(roundRevealSubject, func(data []byte) error {
		return c.handleRoundReveal(ctx, data)
	}); err != nil {
		return err
	}

	if err := c.natsClient.Subscribe(ticketRevealSubject, func(data []byte) error {
		return c.handleTicketReveal(ctx, data)
	}); err != nil {
		return err
	}

	log.Info("Reveal consumer started")
	return nil
}

func (c *RevealConsumer) handleRoundReveal(ctx context.Context, data []byte) error {
	var reveal roundReveal
	if err := json.Unmarshal(data, &reveal); err != nil {
		log.WithError(err).Error("Failed to unmarshal round reveal")
		return nil
	}

	err := c.settlement.OnRoundRevealed(ctx, reveal.RoundID, reveal.RevealID, reveal.Value)
	if err != nil {
		// Malformed or stale reveals are terminal, redelivery cannot fix them
		if isTerminalRevealError(err) {
			log.WithError(err).WithFields(log.Fields{
				"roundID":  reveal.RoundID,
				"revealID": reveal.RevealID,
			}).Warn("Dropping round reveal")
			return nil
		}
		return fmt.Errorf("round reveal for %s: %w", reveal.RoundID, err)
	}

	return nil
}

func (c *RevealConsumer) handleTicketReveal(ctx context.Context, data []byte) error {
	var reveal ticketReveal
	if err := json.Unmarshal(data, &reveal); err != nil {
		log.WithError(err).Error("Failed to unmarshal ticket reveal")
		return nil
	}

	err := c.settlement.OnTicketRevealed(ctx, reveal.RoundID, reveal.TicketID, reveal.Value)
	if err != nil {
		if isTerminalRevealError(err) {
			log.WithError(err).WithFields(log.Fields{
				"roundID":  reveal.RoundID,
				"ticketID": reveal.TicketID,
			}).Warn("Dropping ticket reveal")
			return nil
		}
		return fmt.Errorf("ticket reveal for %s: %w", reveal.TicketID, err)
	}

	return nil
}

func isTerminalRevealError(err error) bool {
	return errors.Is(err, entities.ErrInvalidReveal) ||
		errors.Is(err, entities.ErrNotFound) ||
		errors.Is(err, entities.ErrRoundNotActive) ||
		errors.Is(err, entities.ErrValidation)
}
