package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/splitpot/splitpot/internal/domain"
	"github.com/splitpot/splitpot/internal/usecase"
	"github.com/splitpot/splitpot/internal/usecase/mocks"
)

func TestSettlementUseCase_RecordSettlement(t *testing.T) {
	tests := []struct {
		name        string
		input       usecase.RecordSettlementInput
		expectError bool
		errorType   error
	}{
		{
			name: "successful settlement",
			input: usecase.RecordSettlementInput{
				GroupID:    "grp-1",
				FromUserID: "bob",
				ToUserID:   "alice",
				Amount:     domain.NewMoney(300, "USD"),
				Note:       "venmo",
			},
		},
		{
			name: "reject same user",
			input: usecase.RecordSettlementInput{
				GroupID:    "grp-1",
				FromUserID: "bob",
				ToUserID:   "bob",
				Amount:     domain.NewMoney(300, "USD"),
			},
			expectError: true,
			errorType:   domain.ErrSameUser,
		},
		{
			name: "reject zero amount",
			input: usecase.RecordSettlementInput{
				GroupID:    "grp-1",
				FromUserID: "bob",
				ToUserID:   "alice",
				Amount:     domain.NewMoney(0, "USD"),
			},
			expectError: true,
			errorType:   domain.ErrInvalidAmount,
		},
		{
			name: "reject negative amount",
			input: usecase.RecordSettlementInput{
				GroupID:    "grp-1",
				FromUserID: "bob",
				ToUserID:   "alice",
				Amount:     domain.NewMoney(-100, "USD"),
			},
			expectError: true,
			errorType:   domain.ErrInvalidAmount,
		},
		{
			name: "reject currency mismatch with group",
			input: usecase.RecordSettlementInput{
				GroupID:    "grp-1",
				FromUserID: "bob",
				ToUserID:   "alice",
				Amount:     domain.NewMoney(300, "EUR"),
			},
			expectError: true,
			errorType:   domain.ErrCurrencyMismatch,
		},
		{
			name: "reject non-member",
			input: usecase.RecordSettlementInput{
				GroupID:    "grp-1",
				FromUserID: "mallory",
				ToUserID:   "alice",
				Amount:     domain.NewMoney(300, "USD"),
			},
			expectError: true,
			errorType:   domain.ErrNotGroupMember,
		},
		{
			name: "reject unknown group",
			input: usecase.RecordSettlementInput{
				GroupID:    "grp-404",
				FromUserID: "bob",
				ToUserID:   "alice",
				Amount:     domain.NewMoney(300, "USD"),
			},
			expectError: true,
			errorType:   domain.ErrGroupNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groupRepo := mocks.NewMockGroupRepository()
			settlementRepo := mocks.NewMockSettlementRepository()
			txMgr := mocks.NewMockTransactionManager()
			retrier := mocks.NewMockRetrier()
			idGen := mocks.NewMockIDGenerator()
			cache := mocks.NewMockCache()

			groupRepo.Create(context.Background(), testGroup())

			uc := usecase.NewSettlementUseCase(txMgr, retrier, groupRepo, settlementRepo, idGen, cache)
			settlement, err := uc.RecordSettlement(context.Background(), tt.input)

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.errorType != nil && !errors.Is(err, tt.errorType) {
					t.Errorf("expected error %v, got %v", tt.errorType, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if settlement == nil {
				t.Fatal("expected settlement, got nil")
			}
			if settlement.ID == "" {
				t.Error("expected generated ID")
			}
			if settlement.RecordedAt.IsZero() {
				t.Error("expected RecordedAt to be set")
			}
		})
	}
}

func TestSettlementUseCase_RecordSettlement_InvalidatesBalanceCache(t *testing.T) {
	groupRepo := mocks.NewMockGroupRepository()
	settlementRepo := mocks.NewMockSettlementRepository()
	txMgr := mocks.NewMockTransactionManager()
	retrier := mocks.NewMockRetrier()
	idGen := mocks.NewMockIDGenerator()
	cache := mocks.NewMockCache()

	groupRepo.Create(context.Background(), testGroup())

	var deletedKeys []string
	cache.DeleteFunc = func(ctx context.Context, key string) error {
		deletedKeys = append(deletedKeys, key)
		return nil
	}

	uc := usecase.NewSettlementUseCase(txMgr, retrier, groupRepo, settlementRepo, idGen, cache)
	_, err := uc.RecordSettlement(context.Background(), usecase.RecordSettlementInput{
		GroupID:    "grp-1",
		FromUserID: "carol",
		ToUserID:   "alice",
		Amount:     domain.NewMoney(400, "USD"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(deletedKeys) != 1 || deletedKeys[0] != "balances:grp-1" {
		t.Errorf("expected one invalidation of balances:grp-1, got %v", deletedKeys)
	}
}

func TestSettlementUseCase_GetSettlement(t *testing.T) {
	settlementRepo := mocks.NewMockSettlementRepository()
	settlementRepo.Create(context.Background(), nil, &domain.Settlement{
		ID:         "stl-1",
		GroupID:    "grp-1",
		FromUserID: "bob",
		ToUserID:   "alice",
		Amount:     domain.NewMoney(300, "USD"),
	})

	uc := usecase.NewSettlementUseCase(nil, nil, nil, settlementRepo, nil, nil)

	t.Run("existing", func(t *testing.T) {
		settlement, err := uc.GetSettlement(context.Background(), "stl-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if settlement.ID != "stl-1" {
			t.Errorf("expected ID stl-1, got %s", settlement.ID)
		}
	})

	t.Run("non-existent", func(t *testing.T) {
		_, err := uc.GetSettlement(context.Background(), "stl-404")
		if !errors.Is(err, domain.ErrSettlementNotFound) {
			t.Errorf("expected ErrSettlementNotFound, got %v", err)
		}
	})
}

func TestSettlementUseCase_ListSettlements(t *testing.T) {
	groupRepo := mocks.NewMockGroupRepository()
	settlementRepo := mocks.NewMockSettlementRepository()
	txMgr := mocks.NewMockTransactionManager()
	retrier := mocks.NewMockRetrier()
	idGen := mocks.NewMockIDGenerator()
	cache := mocks.NewMockCache()

	groupRepo.Create(context.Background(), testGroup())

	uc := usecase.NewSettlementUseCase(txMgr, retrier, groupRepo, settlementRepo, idGen, cache)
	for _, from := range []string{"bob", "carol"} {
		_, err := uc.RecordSettlement(context.Background(), usecase.RecordSettlementInput{
			GroupID:    "grp-1",
			FromUserID: from,
			ToUserID:   "alice",
			Amount:     domain.NewMoney(250, "USD"),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	settlements, err := uc.ListSettlements(context.Background(), usecase.ListSettlementsInput{GroupID: "grp-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(settlements) != 2 {
		t.Errorf("expected 2 settlements, got %d", len(settlements))
	}

	_, err = uc.ListSettlements(context.Background(), usecase.ListSettlementsInput{GroupID: "grp-404"})
	if !errors.Is(err, domain.ErrGroupNotFound) {
		t.Errorf("expected ErrGroupNotFound, got %v", err)
	}
}
