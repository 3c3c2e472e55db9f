package usecase

import (
	"context"
	"time"

	"github.com/splitpot/splitpot/internal/domain"
)

// GroupRepository defines data access for groups.
type GroupRepository interface {
	Create(ctx context.Context, group *domain.Group) error
	GetByID(ctx context.Context, id string) (*domain.Group, error)
	// GetByIDForUpdate locks the group row for the duration of the
	// transaction. Appends to a group's history take this lock so
	// concurrent writes to the same group are serialized.
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Group, error)
	AddMembers(ctx context.Context, id string, members []string, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Group, error)
}

// ExpenseRepository defines data access for expenses and their shares.
type ExpenseRepository interface {
	// Create persists an expense together with all of its shares inside tx.
	Create(ctx context.Context, tx Transaction, expense *domain.Expense) error
	GetByID(ctx context.Context, id string) (*domain.Expense, error)
	ListByGroup(ctx context.Context, groupID string, limit, offset int) ([]*domain.Expense, error)
	// HistoryByGroup returns the complete expense history of a group,
	// shares included, for balance aggregation.
	HistoryByGroup(ctx context.Context, groupID string) ([]domain.Expense, error)
	// Delete removes an expense and its shares inside tx.
	Delete(ctx context.Context, tx Transaction, id string) error
}

// SettlementRepository defines data access for settlements.
type SettlementRepository interface {
	Create(ctx context.Context, tx Transaction, settlement *domain.Settlement) error
	GetByID(ctx context.Context, id string) (*domain.Settlement, error)
	ListByGroup(ctx context.Context, groupID string, limit, offset int) ([]*domain.Settlement, error)
	HistoryByGroup(ctx context.Context, groupID string) ([]domain.Settlement, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier retries an operation that failed with a transient storage error.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
