package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/splitpot/splitpot/internal/domain"
	"github.com/splitpot/splitpot/internal/usecase"
)

// SettlementRepository implements usecase.SettlementRepository.
type SettlementRepository struct {
	pool *pgxpool.Pool
}

// NewSettlementRepository creates a new SettlementRepository.
func NewSettlementRepository(pool *pgxpool.Pool) *SettlementRepository {
	return &SettlementRepository{pool: pool}
}

// Create persists a settlement inside tx.
func (r *SettlementRepository) Create(ctx context.Context, tx usecase.Transaction, settlement *domain.Settlement) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO settlements (id, group_id, from_user_id, to_user_id, amount_minor, currency, note, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		settlement.ID, settlement.GroupID, settlement.FromUserID, settlement.ToUserID,
		settlement.Amount.Amount, settlement.Amount.Currency, settlement.Note, settlement.RecordedAt,
	)

	return err
}

// GetByID retrieves a settlement by ID.
func (r *SettlementRepository) GetByID(ctx context.Context, id string) (*domain.Settlement, error) {
	settlement, err := scanSettlement(r.pool.QueryRow(ctx, selectSettlement+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSettlementNotFound
		}

		return nil, err
	}

	return settlement, nil
}

// ListByGroup lists a group's settlements, newest first.
func (r *SettlementRepository) ListByGroup(ctx context.Context, groupID string, limit, offset int) ([]*domain.Settlement, error) {
	rows, err := r.pool.Query(ctx,
		selectSettlement+` WHERE group_id = $1 ORDER BY recorded_at DESC, id DESC LIMIT $2 OFFSET $3`,
		groupID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settlements []*domain.Settlement
	for rows.Next() {
		settlement, err := scanSettlement(rows)
		if err != nil {
			return nil, err
		}
		settlements = append(settlements, settlement)
	}

	return settlements, rows.Err()
}

// HistoryByGroup returns the full settlement history of a group in
// insertion order.
func (r *SettlementRepository) HistoryByGroup(ctx context.Context, groupID string) ([]domain.Settlement, error) {
	rows, err := r.pool.Query(ctx,
		selectSettlement+` WHERE group_id = $1 ORDER BY recorded_at, id`,
		groupID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settlements []domain.Settlement
	for rows.Next() {
		settlement, err := scanSettlement(rows)
		if err != nil {
			return nil, err
		}
		settlements = append(settlements, *settlement)
	}

	return settlements, rows.Err()
}

const selectSettlement = `
	SELECT id, group_id, from_user_id, to_user_id, amount_minor, currency, note, recorded_at
	FROM settlements`

func scanSettlement(row pgx.Row) (*domain.Settlement, error) {
	settlement := &domain.Settlement{}

	var amountMinor int64
	var currency string

	err := row.Scan(
		&settlement.ID, &settlement.GroupID, &settlement.FromUserID, &settlement.ToUserID,
		&amountMinor, &currency, &settlement.Note, &settlement.RecordedAt,
	)
	if err != nil {
		return nil, err
	}

	settlement.Amount = domain.NewMoney(amountMinor, currency)

	return settlement, nil
}
