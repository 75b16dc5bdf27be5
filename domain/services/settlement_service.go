package services

import (
	"context"
	"fmt"

	"sollotto/domain/entities"
	"sollotto/domain/interfaces"
	"sollotto/events"

	log "github.com/sirupsen/logrus"
)

// settlementService implements round activation and ticket settlement
type settlementService struct {
	uowFactory interfaces.UnitOfWorkFactory
	oracle     interfaces.RandomnessOracle
	potID      string
	admins     map[entities.Address]bool
}

// NewSettlementService creates a new settlement service
func NewSettlementService(
	uowFactory interfaces.UnitOfWorkFactory,
	oracle interfaces.RandomnessOracle,
	potID string,
	adminWallets []entities.Address,
) interfaces.SettlementService {
	admins := make(map[entities.Address]bool, len(adminWallets))
	for _, a := range adminWallets {
		admins[a] = true
	}
	return &settlementService{
		uowFactory: uowFactory,
		oracle:     oracle,
		potID:      potID,
		admins:     admins,
	}
}

func (s *settlementService) potAccount() entities.Address {
	return entities.Address(s.potID)
}

// CreateRound registers a new inactive round and requests its activation
// randomness. The round only becomes active when the reveal arrives.
func (s *settlementService) CreateRound(ctx context.Context, roundID string, creator entities.Address) (*entities.Round, error) {
	if roundID == "" {
		return nil, fmt.Errorf("round id must not be empty: %w", entities.ErrValidation)
	}

	round := &entities.Round{ID: roundID}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.Rounds().Create(ctx, round); err != nil {
		return nil, fmt.Errorf("failed to create round: %w", err)
	}

	if err := uow.Events().Publish(events.RoundCreatedEvent{RoundID: roundID, Creator: creator}); err != nil {
		return nil, fmt.Errorf("failed to publish round created event: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit round creation: %w", err)
	}

	// Request randomness only after the round exists durably; a reveal for
	// an unknown round would be rejected. If the request fails the round
	// stays inactive until a retry or the admin safety valve.
	if err := s.oracle.RequestRandom(ctx, roundID, 0, entities.MaxNumber); err != nil {
		log.WithError(err).WithField("roundID", roundID).Error("randomness request for round failed")
		return nil, entities.NewDependencyError("round randomness request", err)
	}

	return round, nil
}

// OnRoundRevealed activates a round with its revealed main number.
// Duplicate deliveries for an activated round are silent no-ops.
func (s *settlementService) OnRoundRevealed(ctx context.Context, roundID, revealID string, value int64) error {
	if revealID != roundID {
		return fmt.Errorf("reveal id %q does not match round %q: %w", revealID, roundID, entities.ErrInvalidReveal)
	}
	if !entities.InNumberRange(value) {
		return fmt.Errorf("revealed value %d out of range: %w", value, entities.ErrInvalidReveal)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	round, err := uow.Rounds().GetByIDForUpdate(ctx, roundID)
	if err != nil {
		return fmt.Errorf("failed to lock round: %w", err)
	}
	if round == nil {
		return fmt.Errorf("round %s: %w", roundID, entities.ErrNotFound)
	}

	activated, err := uow.Rounds().Activate(ctx, roundID, value)
	if err != nil {
		return fmt.Errorf("failed to activate round: %w", err)
	}
	if !activated {
		// Already activated (duplicate delivery) or admin-closed before
		// activation. Absorb silently.
		log.WithField("roundID", roundID).Debug("round reveal re-delivery absorbed")
		return uow.Commit()
	}

	if err := uow.Events().Publish(events.RoundActivatedEvent{RoundID: roundID, MainNumber: value}); err != nil {
		return fmt.Errorf("failed to publish round activated event: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit round activation: %w", err)
	}

	log.WithFields(log.Fields{
		"roundID":    roundID,
		"mainNumber": value,
	}).Info("round activated")
	return nil
}

// BuyTicket escrows the fixed ticket price into the pot, records the ticket
// and requests its settlement randomness. The debit, the ticket row and the
// counter increment commit as one unit; if the debit fails nothing is kept.
func (s *settlementService) BuyTicket(ctx context.Context, roundID, ticketID string, buyer, caller entities.Address) (*entities.Ticket, error) {
	if caller != buyer {
		return nil, fmt.Errorf("caller %s is not the buyer: %w", caller, entities.ErrUnauthorized)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	round, err := uow.Rounds().GetByID(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get round: %w", err)
	}
	if round == nil {
		return nil, fmt.Errorf("round %s: %w", roundID, entities.ErrNotFound)
	}
	if !round.CanPurchaseTickets() {
		return nil, fmt.Errorf("round %s: %w", roundID, entities.ErrRoundNotActive)
	}

	if err := uow.Ledger().Transfer(ctx, buyer, s.potAccount(), entities.TicketPrice); err != nil {
		return nil, fmt.Errorf("ticket escrow transfer failed: %w", err)
	}

	ticket := &entities.Ticket{
		ID:            ticketID,
		RoundID:       roundID,
		Buyer:         buyer,
		PurchasePrice: entities.TicketPrice,
	}
	if err := uow.Tickets().Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	if err := uow.Rounds().IncrementTotalTickets(ctx, roundID); err != nil {
		return nil, fmt.Errorf("failed to increment ticket count: %w", err)
	}

	if err := uow.Events().Publish(events.TicketPurchasedEvent{
		RoundID:  roundID,
		TicketID: ticketID,
		Buyer:    buyer,
		Price:    entities.TicketPrice,
	}); err != nil {
		return nil, fmt.Errorf("failed to publish ticket purchased event: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit ticket purchase: %w", err)
	}

	if err := s.oracle.RequestRandom(ctx, ticketID, 0, entities.MaxNumber); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"roundID":  roundID,
			"ticketID": ticketID,
		}).Error("randomness request for ticket failed")
		return nil, entities.NewDependencyError("ticket randomness request", err)
	}

	return ticket, nil
}

// OnTicketRevealed settles a ticket against its round's main number.
//
// The ticket row lock plus the won IS NULL guard make re-delivery a no-op
// and serialize duplicate deliveries racing on different workers. There is
// deliberately no round-level lock: sibling tickets of the same round settle
// concurrently, and a winning ticket revealed after the round closed is
// still settled and paid from the remaining pot.
func (s *settlementService) OnTicketRevealed(ctx context.Context, roundID, ticketID string, value int64) error {
	if !entities.InNumberRange(value) {
		return fmt.Errorf("revealed value %d out of range: %w", value, entities.ErrInvalidReveal)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	ticket, err := uow.Tickets().GetByIDForUpdate(ctx, roundID, ticketID)
	if err != nil {
		return fmt.Errorf("failed to lock ticket: %w", err)
	}
	if ticket == nil {
		return fmt.Errorf("ticket %s/%s: %w", roundID, ticketID, entities.ErrNotFound)
	}
	if ticket.IsSettled() {
		log.WithFields(log.Fields{
			"roundID":  roundID,
			"ticketID": ticketID,
		}).Debug("ticket reveal re-delivery absorbed")
		return uow.Rollback()
	}

	// mainNumber is immutable after activation, so this read is stable even
	// while sibling tickets of the round settle concurrently.
	round, err := uow.Rounds().GetByID(ctx, roundID)
	if err != nil {
		return fmt.Errorf("failed to get round: %w", err)
	}
	if round == nil {
		return fmt.Errorf("round %s: %w", roundID, entities.ErrNotFound)
	}
	if !round.IsActivated() {
		return fmt.Errorf("round %s has no main number: %w", roundID, entities.ErrRoundNotActive)
	}

	won := round.Beats(value)
	var payout int64

	if won {
		balance, err := uow.Ledger().Balance(ctx, s.potAccount())
		if err != nil {
			return entities.NewDependencyError("pot balance read", err)
		}
		payout = entities.WinnerPayout(balance)
		if payout > 0 {
			// A failed payout rolls everything back: won stays unset so a
			// later duplicate delivery retries the whole decision.
			if err := uow.Ledger().Transfer(ctx, s.potAccount(), ticket.Buyer, payout); err != nil {
				return entities.NewDependencyError("winner payout transfer", err)
			}
		}
	}

	settled, err := uow.Tickets().Settle(ctx, roundID, ticketID, won, value)
	if err != nil {
		return fmt.Errorf("failed to settle ticket: %w", err)
	}
	if !settled {
		// Lost the guard despite the row lock; treat as re-delivery.
		return uow.Rollback()
	}

	if won {
		if err := uow.Rounds().RecordWin(ctx, roundID, ticket.Buyer, value); err != nil {
			return fmt.Errorf("failed to record win: %w", err)
		}
	}

	if err := uow.Events().Publish(events.TicketSettledEvent{
		RoundID:   roundID,
		TicketID:  ticketID,
		Buyer:     ticket.Buyer,
		Won:       won,
		WinNumber: value,
		Payout:    payout,
	}); err != nil {
		return fmt.Errorf("failed to publish ticket settled event: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit ticket settlement: %w", err)
	}

	log.WithFields(log.Fields{
		"roundID":   roundID,
		"ticketID":  ticketID,
		"won":       won,
		"winNumber": value,
		"payout":    payout,
	}).Info("ticket settled")
	return nil
}

// AdminCloseRound deactivates a round unconditionally. Safety valve for
// rounds whose activation reveal never arrived; it does not refund or
// resolve outstanding tickets.
func (s *settlementService) AdminCloseRound(ctx context.Context, roundID string, caller entities.Address) error {
	if !s.admins[caller] {
		return fmt.Errorf("%s is not an admin: %w", caller, entities.ErrUnauthorized)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	round, err := uow.Rounds().GetByIDForUpdate(ctx, roundID)
	if err != nil {
		return fmt.Errorf("failed to lock round: %w", err)
	}
	if round == nil {
		return fmt.Errorf("round %s: %w", roundID, entities.ErrNotFound)
	}

	if err := uow.Rounds().Close(ctx, roundID); err != nil {
		return fmt.Errorf("failed to close round: %w", err)
	}

	if err := uow.Events().Publish(events.RoundClosedEvent{RoundID: roundID, ClosedBy: caller}); err != nil {
		return fmt.Errorf("failed to publish round closed event: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit round close: %w", err)
	}

	log.WithFields(log.Fields{
		"roundID":  roundID,
		"closedBy": caller,
	}).Warn("round closed by admin")
	return nil
}

// GetRound returns a round by id, or nil when missing
func (s *settlementService) GetRound(ctx context.Context, roundID string) (*entities.Round, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	round, err := uow.Rounds().GetByID(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get round: %w", err)
	}
	return round, uow.Commit()
}

// GetTicket returns a ticket by id, or nil when missing
func (s *settlementService) GetTicket(ctx context.Context, roundID, ticketID string) (*entities.Ticket, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	ticket, err := uow.Tickets().GetByID(ctx, roundID, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	return ticket, uow.Commit()
}

// ListRoundTickets returns all tickets of a round
func (s *settlementService) ListRoundTickets(ctx context.Context, roundID string) ([]*entities.Ticket, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	tickets, err := uow.Tickets().ListByRound(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return tickets, uow.Commit()
}
