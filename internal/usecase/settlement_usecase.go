package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/splitpot/splitpot/internal/domain"
)

// SettlementUseCase records real-world payments between group members.
type SettlementUseCase struct {
	txManager      TransactionManager
	retrier        Retrier
	groupRepo      GroupRepository
	settlementRepo SettlementRepository
	idGen          IDGenerator
	cache          Cache
}

// NewSettlementUseCase creates a new SettlementUseCase.
func NewSettlementUseCase(
	txManager TransactionManager,
	retrier Retrier,
	groupRepo GroupRepository,
	settlementRepo SettlementRepository,
	idGen IDGenerator,
	cache Cache,
) *SettlementUseCase {
	return &SettlementUseCase{
		txManager:      txManager,
		retrier:        retrier,
		groupRepo:      groupRepo,
		settlementRepo: settlementRepo,
		idGen:          idGen,
		cache:          cache,
	}
}

// RecordSettlementInput represents input for recording a settlement.
type RecordSettlementInput struct {
	GroupID    string
	FromUserID string
	ToUserID   string
	Amount     domain.Money
	Note       string
}

// RecordSettlement appends a settlement to the group's ledger. Share
// settled-flags are left to collaborators; the settlement ledger alone
// feeds net balances.
func (uc *SettlementUseCase) RecordSettlement(ctx context.Context, input RecordSettlementInput) (*domain.Settlement, error) {
	group, err := uc.groupRepo.GetByID(ctx, input.GroupID)
	if err != nil {
		return nil, err
	}

	if input.Amount.Currency != group.Currency {
		return nil, fmt.Errorf("%w: settlement is %s, group is %s",
			domain.ErrCurrencyMismatch, input.Amount.Currency, group.Currency)
	}

	if !group.HasMembers([]string{input.FromUserID, input.ToUserID}) {
		return nil, fmt.Errorf("%w: group %s", domain.ErrNotGroupMember, group.ID)
	}

	settlement := &domain.Settlement{
		ID:         uc.idGen.Generate(),
		GroupID:    input.GroupID,
		FromUserID: input.FromUserID,
		ToUserID:   input.ToUserID,
		Amount:     input.Amount,
		Note:       strings.TrimSpace(input.Note),
		RecordedAt: time.Now().UTC(),
	}

	if err := settlement.Validate(); err != nil {
		return nil, err
	}

	err = uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if _, err := uc.groupRepo.GetByIDForUpdate(ctx, tx, settlement.GroupID); err != nil {
			return err
		}

		if err := uc.settlementRepo.Create(ctx, tx, settlement); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	uc.cache.Delete(ctx, balanceCacheKey(settlement.GroupID))
	settlementsRecorded.Inc()

	return settlement, nil
}

// GetSettlement retrieves a settlement by ID.
func (uc *SettlementUseCase) GetSettlement(ctx context.Context, id string) (*domain.Settlement, error) {
	return uc.settlementRepo.GetByID(ctx, id)
}

// ListSettlementsInput represents input for listing a group's settlements.
type ListSettlementsInput struct {
	GroupID string
	Limit   int
	Offset  int
}

// ListSettlements lists a group's settlements, newest first.
func (uc *SettlementUseCase) ListSettlements(ctx context.Context, input ListSettlementsInput) ([]*domain.Settlement, error) {
	if _, err := uc.groupRepo.GetByID(ctx, input.GroupID); err != nil {
		return nil, err
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.settlementRepo.ListByGroup(ctx, input.GroupID, limit, offset)
}
