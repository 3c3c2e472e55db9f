package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpAdapter "github.com/splitpot/splitpot/internal/adapter/http"
	"github.com/splitpot/splitpot/internal/adapter/http/dto"
	"github.com/splitpot/splitpot/internal/adapter/http/handler"
	"github.com/splitpot/splitpot/internal/usecase"
	"github.com/splitpot/splitpot/internal/usecase/mocks"
)

// newTestRouter wires the full HTTP stack over in-memory repositories.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	groupRepo := mocks.NewMockGroupRepository()
	expenseRepo := mocks.NewMockExpenseRepository()
	settlementRepo := mocks.NewMockSettlementRepository()
	txMgr := mocks.NewMockTransactionManager()
	retrier := mocks.NewMockRetrier()
	idGen := mocks.NewMockIDGenerator()
	cache := mocks.NewMockCache()

	counter := 0
	idGen.GenerateFunc = func() string {
		counter++
		return "id-" + string(rune('a'+counter))
	}

	groupUC := usecase.NewGroupUseCase(groupRepo, idGen)
	expenseUC := usecase.NewExpenseUseCase(txMgr, retrier, groupRepo, expenseRepo, idGen, cache)
	settlementUC := usecase.NewSettlementUseCase(txMgr, retrier, groupRepo, settlementRepo, idGen, cache)
	balanceUC := usecase.NewBalanceUseCase(groupRepo, expenseRepo, settlementRepo, cache)

	return httpAdapter.NewRouter(httpAdapter.RouterConfig{
		GroupHandler:      handler.NewGroupHandler(groupUC),
		ExpenseHandler:    handler.NewExpenseHandler(expenseUC),
		SettlementHandler: handler.NewSettlementHandler(settlementUC),
		BalanceHandler:    handler.NewBalanceHandler(balanceUC),
		HealthHandler:     handler.NewHealthHandler(nil, nil),
		IdempotencyStore:  mocks.NewMockIdempotencyStore(),
	})
}

func doJSON(t *testing.T, router http.Handler, method, path string, payload any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func createGroup(t *testing.T, router http.Handler) dto.GroupResponse {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/groups", map[string]any{
		"name":       "Flat 12b",
		"currency":   "USD",
		"created_by": "alice",
		"members":    []string{"bob", "carol"},
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var group dto.GroupResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &group))

	return group
}

func TestRouter_GroupLifecycle(t *testing.T) {
	router := newTestRouter(t)

	group := createGroup(t, router)
	assert.Equal(t, []string{"alice", "bob", "carol"}, group.Members)
	assert.Equal(t, "USD", group.Currency)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/groups/"+group.ID, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/groups/"+group.ID+"/members", map[string]any{
		"user_ids": []string{"dave"},
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated dto.GroupResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Len(t, updated.Members, 4)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/groups/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_ExpenseToSettlementFlow(t *testing.T) {
	router := newTestRouter(t)
	group := createGroup(t, router)

	// Alice fronts 90.00 split equally three ways.
	rec := doJSON(t, router, http.MethodPost, "/api/v1/groups/"+group.ID+"/expenses", map[string]any{
		"description":  "groceries",
		"amount":       "90.00",
		"currency":     "USD",
		"payer_id":     "alice",
		"created_by":   "alice",
		"participants": []string{"alice", "bob", "carol"},
		"split_type":   "equal",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var expense dto.ExpenseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &expense))
	require.Len(t, expense.Shares, 3)
	assert.Equal(t, "30", expense.Shares[0].Owed.String())

	// Balances: alice +60, bob -30, carol -30.
	rec = doJSON(t, router, http.MethodGet, "/api/v1/groups/"+group.ID+"/balances", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var sheet dto.BalanceSheetResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sheet))
	require.Len(t, sheet.Balances, 3)
	assert.Equal(t, "alice", sheet.Balances[0].UserID)
	assert.Equal(t, "60", sheet.Balances[0].Net.String())

	// Plan: bob and carol each pay alice 30.
	rec = doJSON(t, router, http.MethodGet, "/api/v1/groups/"+group.ID+"/settle-plan", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var plan []dto.TransferResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	require.Len(t, plan, 2)
	for _, transfer := range plan {
		assert.Equal(t, "alice", transfer.ToUserID)
		assert.Equal(t, "30", transfer.Amount.String())
	}

	// Execute the plan, then the group is settled.
	for _, transfer := range plan {
		rec = doJSON(t, router, http.MethodPost, "/api/v1/groups/"+group.ID+"/settlements", map[string]any{
			"from_user_id": transfer.FromUserID,
			"to_user_id":   transfer.ToUserID,
			"amount":       transfer.Amount.String(),
			"currency":     "USD",
		}, nil)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/groups/"+group.ID+"/settle-plan", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	assert.Empty(t, plan)

	// Verify reports a balanced ledger.
	rec = doJSON(t, router, http.MethodGet, "/api/v1/groups/"+group.ID+"/verify", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var report dto.VerifyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.True(t, report.Balanced)
	assert.Equal(t, 1, report.ExpenseCount)
	assert.Equal(t, 2, report.SettlementCount)
}

func TestRouter_ExpenseValidation(t *testing.T) {
	router := newTestRouter(t)
	group := createGroup(t, router)

	tests := []struct {
		name    string
		payload map[string]any
		status  int
	}{
		{
			name: "sub-cent amount rejected",
			payload: map[string]any{
				"description":  "weird",
				"amount":       "10.505",
				"currency":     "USD",
				"payer_id":     "alice",
				"created_by":   "alice",
				"participants": []string{"alice", "bob"},
				"split_type":   "equal",
			},
			status: http.StatusBadRequest,
		},
		{
			name: "currency mismatch rejected",
			payload: map[string]any{
				"description":  "tapas",
				"amount":       "10.00",
				"currency":     "EUR",
				"payer_id":     "alice",
				"created_by":   "alice",
				"participants": []string{"alice", "bob"},
				"split_type":   "equal",
			},
			status: http.StatusBadRequest,
		},
		{
			name: "unknown split type rejected",
			payload: map[string]any{
				"description":  "dinner",
				"amount":       "10.00",
				"currency":     "USD",
				"payer_id":     "alice",
				"created_by":   "alice",
				"participants": []string{"alice", "bob"},
				"split_type":   "vibes",
			},
			status: http.StatusBadRequest,
		},
		{
			name: "exact shares must sum to total",
			payload: map[string]any{
				"description":  "dinner",
				"amount":       "10.00",
				"currency":     "USD",
				"payer_id":     "alice",
				"created_by":   "alice",
				"participants": []string{"alice", "bob"},
				"split_type":   "exact",
				"exact":        map[string]string{"alice": "4.00", "bob": "6.01"},
			},
			status: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/api/v1/groups/"+group.ID+"/expenses", tt.payload, nil)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestRouter_IdempotentExpensePost(t *testing.T) {
	router := newTestRouter(t)
	group := createGroup(t, router)

	payload := map[string]any{
		"description":  "rent",
		"amount":       "900.00",
		"currency":     "USD",
		"payer_id":     "alice",
		"created_by":   "alice",
		"participants": []string{"alice", "bob", "carol"},
		"split_type":   "equal",
	}
	headers := map[string]string{"Idempotency-Key": "rent-september"}

	first := doJSON(t, router, http.MethodPost, "/api/v1/groups/"+group.ID+"/expenses", payload, headers)
	require.Equal(t, http.StatusCreated, first.Code)

	second := doJSON(t, router, http.MethodPost, "/api/v1/groups/"+group.ID+"/expenses", payload, headers)
	assert.Equal(t, "true", second.Header().Get("X-Idempotency-Replay"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	// Only one expense was recorded.
	rec := doJSON(t, router, http.MethodGet, "/api/v1/groups/"+group.ID+"/expenses", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var expenses []dto.ExpenseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &expenses))
	assert.Len(t, expenses, 1)
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
