package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/splitpot/splitpot/internal/domain"
	"github.com/splitpot/splitpot/internal/usecase"
)

// GroupRepository implements usecase.GroupRepository.
type GroupRepository struct {
	pool *pgxpool.Pool
}

// NewGroupRepository creates a new GroupRepository.
func NewGroupRepository(pool *pgxpool.Pool) *GroupRepository {
	return &GroupRepository{pool: pool}
}

// Create creates a group together with its member rows.
func (r *GroupRepository) Create(ctx context.Context, group *domain.Group) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO groups (id, name, currency, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		group.ID, group.Name, group.Currency, group.CreatedBy, group.CreatedAt, group.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if err := insertMembers(ctx, tx, group.ID, group.Members, group.CreatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetByID retrieves a group with its members.
func (r *GroupRepository) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	return getGroup(ctx, r.pool, id, "")
}

// GetByIDForUpdate retrieves a group by ID with a FOR UPDATE lock. The lock
// serializes history appends for the group until the transaction ends.
func (r *GroupRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Group, error) {
	return getGroup(ctx, tx.(*Tx).PgxTx(), id, " FOR UPDATE")
}

func getGroup(ctx context.Context, db dbtx, id, locking string) (*domain.Group, error) {
	group := &domain.Group{}
	err := db.QueryRow(ctx, `
		SELECT id, name, currency, created_by, created_at, updated_at
		FROM groups
		WHERE id = $1`+locking,
		id,
	).Scan(&group.ID, &group.Name, &group.Currency, &group.CreatedBy, &group.CreatedAt, &group.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGroupNotFound
		}

		return nil, err
	}

	members, err := loadMembers(ctx, db, id)
	if err != nil {
		return nil, err
	}
	group.Members = members

	return group, nil
}

// AddMembers appends member rows and bumps the group's updated_at.
func (r *GroupRepository) AddMembers(ctx context.Context, id string, members []string, updatedAt time.Time) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `UPDATE groups SET updated_at = $2 WHERE id = $1`, id, updatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGroupNotFound
	}

	if err := insertMembers(ctx, tx, id, members, updatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// List lists groups with pagination, members included.
func (r *GroupRepository) List(ctx context.Context, limit, offset int) ([]*domain.Group, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, currency, created_by, created_at, updated_at
		FROM groups
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []*domain.Group
	for rows.Next() {
		group := &domain.Group{}
		if err := rows.Scan(&group.ID, &group.Name, &group.Currency, &group.CreatedBy, &group.CreatedAt, &group.UpdatedAt); err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, group := range groups {
		members, err := loadMembers(ctx, r.pool, group.ID)
		if err != nil {
			return nil, err
		}
		group.Members = members
	}

	return groups, nil
}

func insertMembers(ctx context.Context, db dbtx, groupID string, members []string, addedAt time.Time) error {
	for _, userID := range members {
		_, err := db.Exec(ctx, `
			INSERT INTO group_members (group_id, user_id, added_at)
			VALUES ($1, $2, $3)`,
			groupID, userID, addedAt,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func loadMembers(ctx context.Context, db dbtx, groupID string) ([]string, error) {
	rows, err := db.Query(ctx, `
		SELECT user_id
		FROM group_members
		WHERE group_id = $1
		ORDER BY added_at, user_id`,
		groupID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, err
		}
		members = append(members, userID)
	}

	return members, rows.Err()
}
