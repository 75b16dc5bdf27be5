package testhelpers

import (
	"context"

	"sollotto/domain/interfaces"
)

// FakeUnitOfWork wires mock repositories behind the UnitOfWork interface.
// Begin, Commit and Rollback only track call counts so service tests can
// assert transaction outcomes without a database.
type FakeUnitOfWork struct {
	RoundRepo   *MockRoundRepository
	TicketRepo  *MockTicketRepository
	PotRepo     *MockPotRepository
	FundingRepo *MockPotFundingRepository
	LedgerMock  *MockLedger
	Publisher   *MockEventPublisher

	BeginCount    int
	CommitCount   int
	RollbackCount int
}

// NewFakeUnitOfWork creates a fake unit of work with fresh mocks
func NewFakeUnitOfWork() *FakeUnitOfWork {
	return &FakeUnitOfWork{
		RoundRepo:   new(MockRoundRepository),
		TicketRepo:  new(MockTicketRepository),
		PotRepo:     new(MockPotRepository),
		FundingRepo: new(MockPotFundingRepository),
		LedgerMock:  new(MockLedger),
		Publisher:   new(MockEventPublisher),
	}
}

func (u *FakeUnitOfWork) Begin(ctx context.Context) error {
	u.BeginCount++
	return nil
}

func (u *FakeUnitOfWork) Commit() error {
	u.CommitCount++
	return nil
}

func (u *FakeUnitOfWork) Rollback() error {
	u.RollbackCount++
	return nil
}

func (u *FakeUnitOfWork) Rounds() interfaces.RoundRepository             { return u.RoundRepo }
func (u *FakeUnitOfWork) Tickets() interfaces.TicketRepository           { return u.TicketRepo }
func (u *FakeUnitOfWork) Pots() interfaces.PotRepository                 { return u.PotRepo }
func (u *FakeUnitOfWork) PotFundings() interfaces.PotFundingRepository   { return u.FundingRepo }
func (u *FakeUnitOfWork) Ledger() interfaces.Ledger                      { return u.LedgerMock }
func (u *FakeUnitOfWork) Events() interfaces.EventPublisher              { return u.Publisher }

// AssertExpectations asserts expectations on every underlying mock
func (u *FakeUnitOfWork) AssertExpectations(t mockTestingT) {
	u.RoundRepo.AssertExpectations(t)
	u.TicketRepo.AssertExpectations(t)
	u.PotRepo.AssertExpectations(t)
	u.FundingRepo.AssertExpectations(t)
	u.LedgerMock.AssertExpectations(t)
	u.Publisher.AssertExpectations(t)
}

// mockTestingT matches the subset of testing.T that testify needs
type mockTestingT interface {
	Logf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	FailNow()
}

// FakeUnitOfWorkFactory hands out the same fake unit of work on every
// Create call so tests can set expectations up front
type FakeUnitOfWorkFactory struct {
	UnitOfWork *FakeUnitOfWork
}

// NewFakeUnitOfWorkFactory creates a factory around a fresh fake unit of work
func NewFakeUnitOfWorkFactory() *FakeUnitOfWorkFactory {
	return &FakeUnitOfWorkFactory{UnitOfWork: NewFakeUnitOfWork()}
}

func (f *FakeUnitOfWorkFactory) Create() interfaces.UnitOfWork {
	return f.UnitOfWork
}
