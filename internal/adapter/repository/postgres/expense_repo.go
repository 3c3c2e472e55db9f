package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/splitpot/splitpot/internal/domain"
	"github.com/splitpot/splitpot/internal/usecase"
)

// ExpenseRepository implements usecase.ExpenseRepository.
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository.
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

// Create persists an expense and all of its shares inside tx. Share rows
// keep their position so participant order survives a round trip.
func (r *ExpenseRepository) Create(ctx context.Context, tx usecase.Transaction, expense *domain.Expense) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO expenses (
			id, group_id, description, category, amount_minor, currency,
			payer_id, created_by, participants, split_type, split_params,
			date, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		expense.ID, expense.GroupID, expense.Description, expense.Category,
		expense.Total.Amount, expense.Total.Currency,
		expense.PayerID, expense.CreatedBy, expense.Participants,
		string(expense.Split.Type), expense.Split,
		expense.Date, expense.CreatedAt,
	)
	if err != nil {
		return err
	}

	for i, share := range expense.Shares {
		_, err := pgxTx.Exec(ctx, `
			INSERT INTO expense_shares (expense_id, position, user_id, owed_minor, currency, settled)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			expense.ID, i, share.UserID, share.Owed.Amount, share.Owed.Currency, share.Settled,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// GetByID retrieves an expense with its shares.
func (r *ExpenseRepository) GetByID(ctx context.Context, id string) (*domain.Expense, error) {
	expense, err := scanExpense(r.pool.QueryRow(ctx, selectExpense+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}

		return nil, err
	}

	shares, err := loadShares(ctx, r.pool, id)
	if err != nil {
		return nil, err
	}
	expense.Shares = shares

	return expense, nil
}

// ListByGroup lists a group's expenses, newest first.
func (r *ExpenseRepository) ListByGroup(ctx context.Context, groupID string, limit, offset int) ([]*domain.Expense, error) {
	rows, err := r.pool.Query(ctx,
		selectExpense+` WHERE group_id = $1 ORDER BY date DESC, id DESC LIMIT $2 OFFSET $3`,
		groupID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []*domain.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, expense := range expenses {
		shares, err := loadShares(ctx, r.pool, expense.ID)
		if err != nil {
			return nil, err
		}
		expense.Shares = shares
	}

	return expenses, nil
}

// HistoryByGroup returns the full expense history of a group in insertion
// order, shares included.
func (r *ExpenseRepository) HistoryByGroup(ctx context.Context, groupID string) ([]domain.Expense, error) {
	rows, err := r.pool.Query(ctx,
		selectExpense+` WHERE group_id = $1 ORDER BY created_at, id`,
		groupID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []domain.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, *expense)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range expenses {
		shares, err := loadShares(ctx, r.pool, expenses[i].ID)
		if err != nil {
			return nil, err
		}
		expenses[i].Shares = shares
	}

	return expenses, nil
}

// Delete removes an expense and its shares inside tx.
func (r *ExpenseRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	pgxTx := tx.(*Tx).PgxTx()

	if _, err := pgxTx.Exec(ctx, `DELETE FROM expense_shares WHERE expense_id = $1`, id); err != nil {
		return err
	}

	tag, err := pgxTx.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}

	return nil
}

const selectExpense = `
	SELECT id, group_id, description, category, amount_minor, currency,
	       payer_id, created_by, participants, split_type, split_params,
	       date, created_at
	FROM expenses`

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	expense := &domain.Expense{}

	var amountMinor int64
	var currency, splitType string

	err := row.Scan(
		&expense.ID, &expense.GroupID, &expense.Description, &expense.Category,
		&amountMinor, &currency,
		&expense.PayerID, &expense.CreatedBy, &expense.Participants,
		&splitType, &expense.Split,
		&expense.Date, &expense.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	expense.Total = domain.NewMoney(amountMinor, currency)
	expense.Split.Type = domain.SplitType(splitType)

	return expense, nil
}

func loadShares(ctx context.Context, db dbtx, expenseID string) ([]domain.Share, error) {
	rows, err := db.Query(ctx, `
		SELECT expense_id, user_id, owed_minor, currency, settled
		FROM expense_shares
		WHERE expense_id = $1
		ORDER BY position`,
		expenseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shares []domain.Share
	for rows.Next() {
		var share domain.Share
		var owedMinor int64
		var currency string

		if err := rows.Scan(&share.ExpenseID, &share.UserID, &owedMinor, &currency, &share.Settled); err != nil {
			return nil, err
		}
		share.Owed = domain.NewMoney(owedMinor, currency)
		shares = append(shares, share)
	}

	return shares, rows.Err()
}
