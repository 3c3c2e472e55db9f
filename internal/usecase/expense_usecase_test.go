package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/splitpot/splitpot/internal/domain"
	"github.com/splitpot/splitpot/internal/usecase"
	"github.com/splitpot/splitpot/internal/usecase/mocks"
)

func testGroup() *domain.Group {
	now := time.Now().UTC()
	return &domain.Group{
		ID:        "grp-1",
		Name:      "Flat 12b",
		Currency:  "USD",
		CreatedBy: "alice",
		Members:   []string{"alice", "bob", "carol"},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestExpenseUseCase_RecordExpense(t *testing.T) {
	tests := []struct {
		name        string
		input       usecase.RecordExpenseInput
		expectError bool
		errorType   error
	}{
		{
			name: "equal split across members",
			input: usecase.RecordExpenseInput{
				GroupID:      "grp-1",
				Description:  "groceries",
				Total:        domain.NewMoney(900, "USD"),
				PayerID:      "alice",
				CreatedBy:    "alice",
				Participants: []string{"alice", "bob", "carol"},
				Split:        domain.SplitSpec{Type: domain.SplitEqual},
			},
		},
		{
			name: "exact split",
			input: usecase.RecordExpenseInput{
				GroupID:      "grp-1",
				Description:  "dinner",
				Total:        domain.NewMoney(1000, "USD"),
				PayerID:      "bob",
				CreatedBy:    "bob",
				Participants: []string{"alice", "bob"},
				Split: domain.SplitSpec{
					Type: domain.SplitExact,
					Exact: map[string]domain.Money{
						"alice": domain.NewMoney(400, "USD"),
						"bob":   domain.NewMoney(600, "USD"),
					},
				},
			},
		},
		{
			name: "reject currency mismatch with group",
			input: usecase.RecordExpenseInput{
				GroupID:      "grp-1",
				Description:  "tapas",
				Total:        domain.NewMoney(500, "EUR"),
				PayerID:      "alice",
				CreatedBy:    "alice",
				Participants: []string{"alice", "bob"},
				Split:        domain.SplitSpec{Type: domain.SplitEqual},
			},
			expectError: true,
			errorType:   domain.ErrCurrencyMismatch,
		},
		{
			name: "reject participant outside group",
			input: usecase.RecordExpenseInput{
				GroupID:      "grp-1",
				Description:  "taxi",
				Total:        domain.NewMoney(500, "USD"),
				PayerID:      "alice",
				CreatedBy:    "alice",
				Participants: []string{"alice", "mallory"},
				Split:        domain.SplitSpec{Type: domain.SplitEqual},
			},
			expectError: true,
			errorType:   domain.ErrNotGroupMember,
		},
		{
			name: "reject payer not participating",
			input: usecase.RecordExpenseInput{
				GroupID:      "grp-1",
				Description:  "coffee",
				Total:        domain.NewMoney(300, "USD"),
				PayerID:      "carol",
				CreatedBy:    "carol",
				Participants: []string{"alice", "bob"},
				Split:        domain.SplitSpec{Type: domain.SplitEqual},
			},
			expectError: true,
			errorType:   domain.ErrPayerNotParticipant,
		},
		{
			name: "reject exact shares off by one",
			input: usecase.RecordExpenseInput{
				GroupID:      "grp-1",
				Description:  "dinner",
				Total:        domain.NewMoney(1000, "USD"),
				PayerID:      "alice",
				CreatedBy:    "alice",
				Participants: []string{"alice", "bob"},
				Split: domain.SplitSpec{
					Type: domain.SplitExact,
					Exact: map[string]domain.Money{
						"alice": domain.NewMoney(400, "USD"),
						"bob":   domain.NewMoney(601, "USD"),
					},
				},
			},
			expectError: true,
			errorType:   domain.ErrShareMismatch,
		},
		{
			name: "reject unknown group",
			input: usecase.RecordExpenseInput{
				GroupID:      "grp-404",
				Description:  "rent",
				Total:        domain.NewMoney(1000, "USD"),
				PayerID:      "alice",
				CreatedBy:    "alice",
				Participants: []string{"alice"},
				Split:        domain.SplitSpec{Type: domain.SplitEqual},
			},
			expectError: true,
			errorType:   domain.ErrGroupNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groupRepo := mocks.NewMockGroupRepository()
			expenseRepo := mocks.NewMockExpenseRepository()
			txMgr := mocks.NewMockTransactionManager()
			retrier := mocks.NewMockRetrier()
			idGen := mocks.NewMockIDGenerator()
			cache := mocks.NewMockCache()

			groupRepo.Create(context.Background(), testGroup())

			uc := usecase.NewExpenseUseCase(txMgr, retrier, groupRepo, expenseRepo, idGen, cache)
			expense, err := uc.RecordExpense(context.Background(), tt.input)

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.errorType != nil && !errors.Is(err, tt.errorType) {
					t.Errorf("expected error %v, got %v", tt.errorType, err)
				}
				// Nothing may be persisted when validation fails.
				if got, _ := expenseRepo.ListByGroup(context.Background(), tt.input.GroupID, 50, 0); len(got) != 0 {
					t.Errorf("expected no persisted expenses, got %d", len(got))
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if expense == nil {
				t.Fatal("expected expense, got nil")
			}
			if len(expense.Shares) != len(tt.input.Participants) {
				t.Errorf("expected %d shares, got %d", len(tt.input.Participants), len(expense.Shares))
			}
			if err := expense.CheckShareSum(); err != nil {
				t.Errorf("persisted shares do not sum to total: %v", err)
			}
			for _, share := range expense.Shares {
				if share.ExpenseID != expense.ID {
					t.Errorf("share not linked to expense: %q", share.ExpenseID)
				}
			}
		})
	}
}

func TestExpenseUseCase_RecordExpense_InvalidatesBalanceCache(t *testing.T) {
	groupRepo := mocks.NewMockGroupRepository()
	expenseRepo := mocks.NewMockExpenseRepository()
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

	uc := usecase.NewExpenseUseCase(txMgr, retrier, groupRepo, expenseRepo, idGen, cache)
	_, err := uc.RecordExpense(context.Background(), usecase.RecordExpenseInput{
		GroupID:      "grp-1",
		Description:  "utilities",
		Total:        domain.NewMoney(4200, "USD"),
		PayerID:      "bob",
		CreatedBy:    "bob",
		Participants: []string{"alice", "bob", "carol"},
		Split: domain.SplitSpec{
			Type: domain.SplitPercentage,
			Percentages: map[string]decimal.Decimal{
				"alice": decimal.NewFromInt(50),
				"bob":   decimal.NewFromInt(25),
				"carol": decimal.NewFromInt(25),
			},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(deletedKeys) != 1 {
		t.Fatalf("expected one cache invalidation, got %d", len(deletedKeys))
	}
	if deletedKeys[0] != "balances:grp-1" {
		t.Errorf("unexpected cache key %q", deletedKeys[0])
	}
}

func TestExpenseUseCase_RecordExpense_StorageFailureReturnsError(t *testing.T) {
	groupRepo := mocks.NewMockGroupRepository()
	expenseRepo := mocks.NewMockExpenseRepository()
	txMgr := mocks.NewMockTransactionManager()
	retrier := mocks.NewMockRetrier()
	idGen := mocks.NewMockIDGenerator()
	cache := mocks.NewMockCache()

	groupRepo.Create(context.Background(), testGroup())

	storageErr := errors.New("connection reset")
	expenseRepo.CreateFunc = func(ctx context.Context, tx usecase.Transaction, expense *domain.Expense) error {
		return storageErr
	}

	rolledBack := false
	txMgr.BeginFunc = func(ctx context.Context) (usecase.Transaction, error) {
		return &mocks.MockTransaction{
			RollbackFunc: func(ctx context.Context) error {
				rolledBack = true
				return nil
			},
		}, nil
	}

	uc := usecase.NewExpenseUseCase(txMgr, retrier, groupRepo, expenseRepo, idGen, cache)
	_, err := uc.RecordExpense(context.Background(), usecase.RecordExpenseInput{
		GroupID:      "grp-1",
		Description:  "rent",
		Total:        domain.NewMoney(90000, "USD"),
		PayerID:      "alice",
		CreatedBy:    "alice",
		Participants: []string{"alice", "bob", "carol"},
		Split:        domain.SplitSpec{Type: domain.SplitEqual},
	})

	if !errors.Is(err, storageErr) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if !rolledBack {
		t.Error("expected transaction rollback")
	}
}

func TestExpenseUseCase_DeleteExpense(t *testing.T) {
	groupRepo := mocks.NewMockGroupRepository()
	expenseRepo := mocks.NewMockExpenseRepository()
	txMgr := mocks.NewMockTransactionManager()
	retrier := mocks.NewMockRetrier()
	idGen := mocks.NewMockIDGenerator()
	cache := mocks.NewMockCache()

	groupRepo.Create(context.Background(), testGroup())

	uc := usecase.NewExpenseUseCase(txMgr, retrier, groupRepo, expenseRepo, idGen, cache)
	expense, err := uc.RecordExpense(context.Background(), usecase.RecordExpenseInput{
		GroupID:      "grp-1",
		Description:  "cleaning supplies",
		Total:        domain.NewMoney(1500, "USD"),
		PayerID:      "carol",
		CreatedBy:    "carol",
		Participants: []string{"alice", "bob", "carol"},
		Split:        domain.SplitSpec{Type: domain.SplitEqual},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("delete existing", func(t *testing.T) {
		if err := uc.DeleteExpense(context.Background(), expense.ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := uc.GetExpense(context.Background(), expense.ID); !errors.Is(err, domain.ErrExpenseNotFound) {
			t.Errorf("expected ErrExpenseNotFound, got %v", err)
		}
	})

	t.Run("delete non-existent", func(t *testing.T) {
		err := uc.DeleteExpense(context.Background(), "exp-404")
		if !errors.Is(err, domain.ErrExpenseNotFound) {
			t.Errorf("expected ErrExpenseNotFound, got %v", err)
		}
	})
}

func TestExpenseUseCase_ListExpenses(t *testing.T) {
	groupRepo := mocks.NewMockGroupRepository()
	expenseRepo := mocks.NewMockExpenseRepository()
	txMgr := mocks.NewMockTransactionManager()
	retrier := mocks.NewMockRetrier()
	idGen := mocks.NewMockIDGenerator()
	cache := mocks.NewMockCache()

	groupRepo.Create(context.Background(), testGroup())

	uc := usecase.NewExpenseUseCase(txMgr, retrier, groupRepo, expenseRepo, idGen, cache)
	for i := 0; i < 3; i++ {
		_, err := uc.RecordExpense(context.Background(), usecase.RecordExpenseInput{
			GroupID:      "grp-1",
			Description:  "snacks",
			Total:        domain.NewMoney(300, "USD"),
			PayerID:      "alice",
			CreatedBy:    "alice",
			Participants: []string{"alice", "bob", "carol"},
			Split:        domain.SplitSpec{Type: domain.SplitEqual},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	expenses, err := uc.ListExpenses(context.Background(), usecase.ListExpensesInput{GroupID: "grp-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(expenses) != 3 {
		t.Errorf("expected 3 expenses, got %d", len(expenses))
	}

	_, err = uc.ListExpenses(context.Background(), usecase.ListExpensesInput{GroupID: "grp-404"})
	if !errors.Is(err, domain.ErrGroupNotFound) {
		t.Errorf("expected ErrGroupNotFound, got %v", err)
	}
}
