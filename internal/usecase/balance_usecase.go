package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/splitpot/splitpot/internal/domain"
)

// BalanceUseCase derives balance sheets and settlement suggestions from a
// group's history. It is read-only; the cache is the only side channel.
type BalanceUseCase struct {
	groupRepo      GroupRepository
	expenseRepo    ExpenseRepository
	settlementRepo SettlementRepository
	cache          Cache
}

// NewBalanceUseCase creates a new BalanceUseCase.
func NewBalanceUseCase(
	groupRepo GroupRepository,
	expenseRepo ExpenseRepository,
	settlementRepo SettlementRepository,
	cache Cache,
) *BalanceUseCase {
	return &BalanceUseCase{
		groupRepo:      groupRepo,
		expenseRepo:    expenseRepo,
		settlementRepo: settlementRepo,
		cache:          cache,
	}
}

// cachedSheet is the cache representation of a balance sheet.
type cachedSheet struct {
	GroupID   string           `json:"group_id"`
	Currency  string           `json:"currency"`
	NetByUser map[string]int64 `json:"net_by_user"`
}

// GetBalances folds the group's full history into a balance sheet. Results
// are cached per group; cache errors degrade to a recompute.
func (uc *BalanceUseCase) GetBalances(ctx context.Context, groupID string) (*domain.BalanceSheet, error) {
	group, err := uc.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if sheet := uc.fromCache(ctx, groupID); sheet != nil {
		balanceCacheHits.WithLabelValues("hit").Inc()
		return sheet, nil
	}
	balanceCacheHits.WithLabelValues("miss").Inc()

	start := time.Now()

	history, err := uc.loadHistory(ctx, groupID)
	if err != nil {
		return nil, err
	}

	sheet, err := domain.AggregateBalances(groupID, group.Currency, history)
	if err != nil {
		return nil, err
	}

	balanceComputeDuration.Observe(time.Since(start).Seconds())

	uc.toCache(ctx, sheet)

	return sheet, nil
}

// SuggestSettlements plans the minimal transfer list that settles the group.
func (uc *BalanceUseCase) SuggestSettlements(ctx context.Context, groupID string) ([]domain.Transfer, error) {
	sheet, err := uc.GetBalances(ctx, groupID)
	if err != nil {
		return nil, err
	}

	transfers, err := domain.PlanSettlements(sheet)
	if err != nil {
		return nil, err
	}

	plannedTransfers.Observe(float64(len(transfers)))

	return transfers, nil
}

// VerifyReport is the result of a group consistency check.
type VerifyReport struct {
	GroupID         string
	Balanced        bool
	Sum             int64
	ExpenseCount    int
	SettlementCount int
	// BrokenExpenses lists expense IDs whose stored shares do not sum
	// to the expense total.
	BrokenExpenses []string
}

// VerifyGroup recomputes the group's balances from scratch and reports
// whether the stored history satisfies the engine invariants. Unlike
// GetBalances it never consults the cache and does not fail fast: all
// violations are collected into the report.
func (uc *BalanceUseCase) VerifyGroup(ctx context.Context, groupID string) (*VerifyReport, error) {
	if _, err := uc.groupRepo.GetByID(ctx, groupID); err != nil {
		return nil, err
	}

	history, err := uc.loadHistory(ctx, groupID)
	if err != nil {
		return nil, err
	}

	report := &VerifyReport{
		GroupID:         groupID,
		ExpenseCount:    len(history.Expenses),
		SettlementCount: len(history.Settlements),
	}

	var sum int64
	for i := range history.Expenses {
		expense := &history.Expenses[i]
		if err := expense.CheckShareSum(); err != nil {
			report.BrokenExpenses = append(report.BrokenExpenses, expense.ID)
		}
		sum += expense.Total.Amount
		for _, share := range expense.Shares {
			sum -= share.Owed.Amount
		}
	}

	report.Sum = sum
	report.Balanced = sum == 0 && len(report.BrokenExpenses) == 0

	return report, nil
}

func (uc *BalanceUseCase) loadHistory(ctx context.Context, groupID string) (domain.GroupHistory, error) {
	expenses, err := uc.expenseRepo.HistoryByGroup(ctx, groupID)
	if err != nil {
		return domain.GroupHistory{}, err
	}

	settlements, err := uc.settlementRepo.HistoryByGroup(ctx, groupID)
	if err != nil {
		return domain.GroupHistory{}, err
	}

	return domain.GroupHistory{Expenses: expenses, Settlements: settlements}, nil
}

func (uc *BalanceUseCase) fromCache(ctx context.Context, groupID string) *domain.BalanceSheet {
	raw, err := uc.cache.Get(ctx, balanceCacheKey(groupID))
	if err != nil || raw == nil {
		return nil
	}

	var cached cachedSheet
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil
	}

	sheet := &domain.BalanceSheet{
		GroupID:   cached.GroupID,
		Currency:  cached.Currency,
		NetByUser: make(map[string]domain.Money, len(cached.NetByUser)),
	}
	for userID, amount := range cached.NetByUser {
		sheet.NetByUser[userID] = domain.NewMoney(amount, cached.Currency)
	}

	return sheet
}

func (uc *BalanceUseCase) toCache(ctx context.Context, sheet *domain.BalanceSheet) {
	cached := cachedSheet{
		GroupID:   sheet.GroupID,
		Currency:  sheet.Currency,
		NetByUser: make(map[string]int64, len(sheet.NetByUser)),
	}
	for userID, net := range sheet.NetByUser {
		cached.NetByUser[userID] = net.Amount
	}

	raw, err := json.Marshal(cached)
	if err != nil {
		return
	}

	// Best effort: a failed write just means the next read recomputes.
	uc.cache.Set(ctx, balanceCacheKey(sheet.GroupID), raw, BalanceCacheTTL)
}
