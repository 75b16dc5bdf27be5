package testhelpers

import (
	"context"

	"sollotto/domain/entities"
	"sollotto/events"

	"github.com/stretchr/testify/mock"
)

// MockRoundRepository is a mock implementation of RoundRepository
type MockRoundRepository struct {
	mock.Mock
}

func (m *MockRoundRepository) Create(ctx context.Context, round *entities.Round) error {
	args := m.Called(ctx, round)
	return args.Error(0)
}

func (m *MockRoundRepository) GetByID(ctx context.Context, id string) (*entities.Round, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Round), args.Error(1)
}

func (m *MockRoundRepository) GetByIDForUpdate(ctx context.Context, id string) (*entities.Round, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Round), args.Error(1)
}

func (m *MockRoundRepository) Activate(ctx context.Context, id string, mainNumber int64) (bool, error) {
	args := m.Called(ctx, id, mainNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockRoundRepository) IncrementTotalTickets(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRoundRepository) RecordWin(ctx context.Context, id string, winner entities.Address, winNumber int64) error {
	args := m.Called(ctx, id, winner, winNumber)
	return args.Error(0)
}

func (m *MockRoundRepository) Close(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRoundRepository) ListRecent(ctx context.Context, limit int) ([]*entities.Round, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Round), args.Error(1)
}

// MockTicketRepository is a mock implementation of TicketRepository
type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) Create(ctx context.Context, ticket *entities.Ticket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *MockTicketRepository) GetByID(ctx context.Context, roundID, ticketID string) (*entities.Ticket, error) {
	args := m.Called(ctx, roundID, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Ticket), args.Error(1)
}

func (m *MockTicketRepository) GetByIDForUpdate(ctx context.Context, roundID, ticketID string) (*entities.Ticket, error) {
	args := m.Called(ctx, roundID, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Ticket), args.Error(1)
}

func (m *MockTicketRepository) Settle(ctx context.Context, roundID, ticketID string, won bool, winNumber int64) (bool, error) {
	args := m.Called(ctx, roundID, ticketID, won, winNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockTicketRepository) ListByRound(ctx context.Context, roundID string) ([]*entities.Ticket, error) {
	args := m.Called(ctx, roundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Ticket), args.Error(1)
}

func (m *MockTicketRepository) CountByRound(ctx context.Context, roundID string) (int64, error) {
	args := m.Called(ctx, roundID)
	return args.Get(0).(int64), args.Error(1)
}

// MockPotRepository is a mock implementation of PotRepository
type MockPotRepository struct {
	mock.Mock
}

func (m *MockPotRepository) Create(ctx context.Context, pot *entities.Pot) error {
	args := m.Called(ctx, pot)
	return args.Error(0)
}

func (m *MockPotRepository) GetByID(ctx context.Context, id string) (*entities.Pot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Pot), args.Error(1)
}

// MockPotFundingRepository is a mock implementation of PotFundingRepository
type MockPotFundingRepository struct {
	mock.Mock
}

func (m *MockPotFundingRepository) Record(ctx context.Context, funding *entities.PotFunding) error {
	args := m.Called(ctx, funding)
	return args.Error(0)
}

func (m *MockPotFundingRepository) ListByPot(ctx context.Context, potID string) ([]*entities.PotFunding, error) {
	args := m.Called(ctx, potID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.PotFunding), args.Error(1)
}

// MockLedger is a mock implementation of Ledger
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Transfer(ctx context.Context, from, to entities.Address, amount int64) error {
	args := m.Called(ctx, from, to, amount)
	return args.Error(0)
}

func (m *MockLedger) Balance(ctx context.Context, address entities.Address) (int64, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedger) CreateAccount(ctx context.Context, address entities.Address) error {
	args := m.Called(ctx, address)
	return args.Error(0)
}

// MockRandomnessOracle is a mock implementation of RandomnessOracle
type MockRandomnessOracle struct {
	mock.Mock
}

func (m *MockRandomnessOracle) RequestRandom(ctx context.Context, key string, min, max int64) error {
	args := m.Called(ctx, key, min, max)
	return args.Error(0)
}

func (m *MockRandomnessOracle) VRFAddress(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}
