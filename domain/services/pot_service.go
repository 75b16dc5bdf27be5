package services

import (
	"context"
	"fmt"

	"sollotto/domain/entities"
	"sollotto/domain/interfaces"
	"sollotto/events"

	log "github.com/sirupsen/logrus"
)

// potService implements prize pot management
type potService struct {
	uowFactory interfaces.UnitOfWorkFactory
	potID      string
	admins     map[entities.Address]bool
}

// NewPotService creates a new pot service
func NewPotService(uowFactory interfaces.UnitOfWorkFactory, potID string, adminWallets []entities.Address) interfaces.PotService {
	admins := make(map[entities.Address]bool, len(adminWallets))
	for _, a := range adminWallets {
		admins[a] = true
	}
	return &potService{
		uowFactory: uowFactory,
		potID:      potID,
		admins:     admins,
	}
}

// CreatePot creates the escrow pot and its ledger account, once
func (s *potService) CreatePot(ctx context.Context, potID string, caller entities.Address) (*entities.Pot, error) {
	if !s.admins[caller] {
		return nil, fmt.Errorf("%s is not an admin: %w", caller, entities.ErrUnauthorized)
	}

	pot := &entities.Pot{ID: potID, Active: true}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.Pots().Create(ctx, pot); err != nil {
		return nil, fmt.Errorf("failed to create pot: %w", err)
	}

	if err := uow.Ledger().CreateAccount(ctx, pot.Account()); err != nil {
		return nil, fmt.Errorf("failed to create pot account: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit pot creation: %w", err)
	}

	log.WithField("potID", potID).Info("pot created")
	return pot, nil
}

// FundPot transfers amount from the calling admin wallet into the pot and
// appends a funding log entry
func (s *potService) FundPot(ctx context.Context, fundingID string, amount int64, caller entities.Address) (*entities.PotFunding, error) {
	if !s.admins[caller] {
		return nil, fmt.Errorf("%s is not an admin: %w", caller, entities.ErrUnauthorized)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("funding amount must be positive: %w", entities.ErrValidation)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	pot, err := s.requirePot(ctx, uow)
	if err != nil {
		return nil, err
	}

	if err := uow.Ledger().Transfer(ctx, caller, pot.Account(), amount); err != nil {
		return nil, fmt.Errorf("pot funding transfer failed: %w", err)
	}

	funding := &entities.PotFunding{
		ID:       fundingID,
		PotID:    pot.ID,
		Amount:   amount,
		FundedBy: caller,
	}
	if err := uow.PotFundings().Record(ctx, funding); err != nil {
		return nil, fmt.Errorf("failed to record funding: %w", err)
	}

	if err := uow.Events().Publish(events.PotFundedEvent{
		PotID:     pot.ID,
		FundingID: fundingID,
		Amount:    amount,
		FundedBy:  caller,
	}); err != nil {
		return nil, fmt.Errorf("failed to publish pot funded event: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit pot funding: %w", err)
	}

	log.WithFields(log.Fields{
		"potID":  pot.ID,
		"amount": amount,
	}).Info("pot funded")
	return funding, nil
}

// Balance returns the pot's ledger balance at query time
func (s *potService) Balance(ctx context.Context, potID string) (int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	pot, err := uow.Pots().GetByID(ctx, potID)
	if err != nil {
		return 0, fmt.Errorf("failed to get pot: %w", err)
	}
	if pot == nil {
		return 0, fmt.Errorf("pot %s: %w", potID, entities.ErrNotFound)
	}

	balance, err := uow.Ledger().Balance(ctx, pot.Account())
	if err != nil {
		return 0, entities.NewDependencyError("pot balance read", err)
	}
	return balance, uow.Commit()
}

// FundingHistory returns the append-only funding log, newest first
func (s *potService) FundingHistory(ctx context.Context, potID string) ([]*entities.PotFunding, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	fundings, err := uow.PotFundings().ListByPot(ctx, potID)
	if err != nil {
		return nil, fmt.Errorf("failed to list fundings: %w", err)
	}
	return fundings, uow.Commit()
}

// requirePot loads the configured pot inside the current unit of work
func (s *potService) requirePot(ctx context.Context, uow interfaces.UnitOfWork) (*entities.Pot, error) {
	pot, err := uow.Pots().GetByID(ctx, s.potID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pot: %w", err)
	}
	if pot == nil {
		return nil, fmt.Errorf("pot %s: %w", s.potID, entities.ErrNotFound)
	}
	return pot, nil
}
