package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/splitpot/splitpot/internal/domain"
)

// ExpenseUseCase handles expense recording and the correction flow.
type ExpenseUseCase struct {
	txManager   TransactionManager
	retrier     Retrier
	groupRepo   GroupRepository
	expenseRepo ExpenseRepository
	idGen       IDGenerator
	cache       Cache
}

// NewExpenseUseCase creates a new ExpenseUseCase.
func NewExpenseUseCase(
	txManager TransactionManager,
	retrier Retrier,
	groupRepo GroupRepository,
	expenseRepo ExpenseRepository,
	idGen IDGenerator,
	cache Cache,
) *ExpenseUseCase {
	return &ExpenseUseCase{
		txManager:   txManager,
		retrier:     retrier,
		groupRepo:   groupRepo,
		expenseRepo: expenseRepo,
		idGen:       idGen,
		cache:       cache,
	}
}

// RecordExpenseInput represents input for recording an expense.
type RecordExpenseInput struct {
	GroupID      string
	Description  string
	Category     string
	Total        domain.Money
	PayerID      string
	CreatedBy    string
	Participants []string
	Split        domain.SplitSpec
	Date         *time.Time
}

// RecordExpense computes shares for the expense and persists both in one
// transaction. Nothing is persisted when validation fails; the group row is
// locked so concurrent appends to the same group are serialized.
func (uc *ExpenseUseCase) RecordExpense(ctx context.Context, input RecordExpenseInput) (*domain.Expense, error) {
	group, err := uc.groupRepo.GetByID(ctx, input.GroupID)
	if err != nil {
		return nil, err
	}

	if input.Total.Currency != group.Currency {
		return nil, fmt.Errorf("%w: expense is %s, group is %s",
			domain.ErrCurrencyMismatch, input.Total.Currency, group.Currency)
	}

	if !group.HasMembers(input.Participants) {
		return nil, fmt.Errorf("%w: group %s", domain.ErrNotGroupMember, group.ID)
	}

	now := time.Now().UTC()

	date := now
	if input.Date != nil {
		date = input.Date.UTC()
	}

	expense := &domain.Expense{
		ID:           uc.idGen.Generate(),
		GroupID:      input.GroupID,
		Description:  strings.TrimSpace(input.Description),
		Category:     input.Category,
		Total:        input.Total,
		PayerID:      input.PayerID,
		CreatedBy:    input.CreatedBy,
		Participants: input.Participants,
		Split:        input.Split,
		Date:         date,
		CreatedAt:    now,
	}

	if err := expense.Validate(); err != nil {
		return nil, err
	}

	shares, err := domain.ComputeShares(expense.Total, expense.Participants, expense.Split)
	if err != nil {
		return nil, err
	}

	for i := range shares {
		shares[i].ExpenseID = expense.ID
	}
	expense.Shares = shares

	err = uc.retrier.Retry(ctx, func() error {
		return uc.appendExpense(ctx, expense)
	})
	if err != nil {
		return nil, err
	}

	uc.cache.Delete(ctx, balanceCacheKey(expense.GroupID))
	expensesRecorded.WithLabelValues(string(expense.Split.Type)).Inc()

	return expense, nil
}

func (uc *ExpenseUseCase) appendExpense(ctx context.Context, expense *domain.Expense) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := uc.groupRepo.GetByIDForUpdate(ctx, tx, expense.GroupID); err != nil {
		return err
	}

	if err := uc.expenseRepo.Create(ctx, tx, expense); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetExpense retrieves an expense with its shares.
func (uc *ExpenseUseCase) GetExpense(ctx context.Context, id string) (*domain.Expense, error) {
	return uc.expenseRepo.GetByID(ctx, id)
}

// ListExpensesInput represents input for listing a group's expenses.
type ListExpensesInput struct {
	GroupID string
	Limit   int
	Offset  int
}

// ListExpenses lists a group's expenses, newest first.
func (uc *ExpenseUseCase) ListExpenses(ctx context.Context, input ListExpensesInput) ([]*domain.Expense, error) {
	if _, err := uc.groupRepo.GetByID(ctx, input.GroupID); err != nil {
		return nil, err
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.expenseRepo.ListByGroup(ctx, input.GroupID, limit, offset)
}

// DeleteExpense removes an expense and its shares. Corrections are
// delete-and-recreate; there is no update.
func (uc *ExpenseUseCase) DeleteExpense(ctx context.Context, id string) error {
	expense, err := uc.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if _, err := uc.groupRepo.GetByIDForUpdate(ctx, tx, expense.GroupID); err != nil {
			return err
		}

		if err := uc.expenseRepo.Delete(ctx, tx, id); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return err
	}

	uc.cache.Delete(ctx, balanceCacheKey(expense.GroupID))
	expensesDeleted.Inc()

	return nil
}
