package repository

import (
	"sollotto/database"
	"sollotto/domain/interfaces"
	"sollotto/infrastructure"
)

// NewTestUnitOfWorkFactory creates a unit of work factory for tests
// using an in-memory event publisher
func NewTestUnitOfWorkFactory(db *database.DB) *UnitOfWorkFactory {
	return NewUnitOfWorkFactory(db, func() interfaces.TransactionalEventPublisher {
		return infrastructure.NewNoopTransactionalPublisher()
	})
}

// CreateTestUnitOfWork creates a unit of work for testing with the
// provided transactional publisher
func CreateTestUnitOfWork(db *database.DB, publisher interfaces.TransactionalEventPublisher) interfaces.UnitOfWork {
	return NewUnitOfWork(db, publisher)
}
