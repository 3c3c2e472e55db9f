package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/splitpot/splitpot/internal/domain"
	"github.com/splitpot/splitpot/internal/usecase"
)

// GroupResponse represents a group in API responses.
type GroupResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Currency  string    `json:"currency"`
	CreatedBy string    `json:"created_by"`
	Members   []string  `json:"members"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GroupFromDomain converts domain group to response.
func GroupFromDomain(g *domain.Group) *GroupResponse {
	return &GroupResponse{
		ID:        g.ID,
		Name:      g.Name,
		Currency:  g.Currency,
		CreatedBy: g.CreatedBy,
		Members:   g.Members,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

// GroupsFromDomain converts domain groups to responses.
func GroupsFromDomain(groups []*domain.Group) []*GroupResponse {
	result := make([]*GroupResponse, len(groups))
	for i, g := range groups {
		result[i] = GroupFromDomain(g)
	}
	return result
}

// ShareResponse represents an expense share in API responses.
type ShareResponse struct {
	UserID string          `json:"user_id"`
	Owed   decimal.Decimal `json:"owed"`
}

// ExpenseResponse represents an expense in API responses.
// Amounts are major units.
type ExpenseResponse struct {
	ID           string          `json:"id"`
	GroupID      string          `json:"group_id"`
	Description  string          `json:"description"`
	Category     string          `json:"category,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	PayerID      string          `json:"payer_id"`
	CreatedBy    string          `json:"created_by"`
	Participants []string        `json:"participants"`
	SplitType    string          `json:"split_type"`
	Shares       []ShareResponse `json:"shares"`
	Date         time.Time       `json:"date"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ExpenseFromDomain converts domain expense to response.
func ExpenseFromDomain(e *domain.Expense) *ExpenseResponse {
	shares := make([]ShareResponse, len(e.Shares))
	for i, s := range e.Shares {
		shares[i] = ShareResponse{
			UserID: s.UserID,
			Owed:   s.Owed.Decimal(),
		}
	}

	return &ExpenseResponse{
		ID:           e.ID,
		GroupID:      e.GroupID,
		Description:  e.Description,
		Category:     e.Category,
		Amount:       e.Total.Decimal(),
		Currency:     e.Total.Currency,
		PayerID:      e.PayerID,
		CreatedBy:    e.CreatedBy,
		Participants: e.Participants,
		SplitType:    string(e.Split.Type),
		Shares:       shares,
		Date:         e.Date,
		CreatedAt:    e.CreatedAt,
	}
}

// ExpensesFromDomain converts domain expenses to responses.
func ExpensesFromDomain(expenses []*domain.Expense) []*ExpenseResponse {
	result := make([]*ExpenseResponse, len(expenses))
	for i, e := range expenses {
		result[i] = ExpenseFromDomain(e)
	}
	return result
}

// SettlementResponse represents a settlement in API responses.
type SettlementResponse struct {
	ID         string          `json:"id"`
	GroupID    string          `json:"group_id"`
	FromUserID string          `json:"from_user_id"`
	ToUserID   string          `json:"to_user_id"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Note       string          `json:"note,omitempty"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// SettlementFromDomain converts domain settlement to response.
func SettlementFromDomain(s *domain.Settlement) *SettlementResponse {
	return &SettlementResponse{
		ID:         s.ID,
		GroupID:    s.GroupID,
		FromUserID: s.FromUserID,
		ToUserID:   s.ToUserID,
		Amount:     s.Amount.Decimal(),
		Currency:   s.Amount.Currency,
		Note:       s.Note,
		RecordedAt: s.RecordedAt,
	}
}

// SettlementsFromDomain converts domain settlements to responses.
func SettlementsFromDomain(settlements []*domain.Settlement) []*SettlementResponse {
	result := make([]*SettlementResponse, len(settlements))
	for i, s := range settlements {
		result[i] = SettlementFromDomain(s)
	}
	return result
}

// UserBalance is one user's net position in a balance sheet.
type UserBalance struct {
	UserID string          `json:"user_id"`
	Net    decimal.Decimal `json:"net"`
}

// BalanceSheetResponse represents a group's balances in API responses.
type BalanceSheetResponse struct {
	GroupID  string        `json:"group_id"`
	Currency string        `json:"currency"`
	Balances []UserBalance `json:"balances"`
}

// BalanceSheetFromDomain converts a domain balance sheet to a response.
// Users are listed in ascending ID order.
func BalanceSheetFromDomain(sheet *domain.BalanceSheet) *BalanceSheetResponse {
	userIDs := sheet.UserIDs()
	balances := make([]UserBalance, len(userIDs))
	for i, userID := range userIDs {
		balances[i] = UserBalance{
			UserID: userID,
			Net:    sheet.Net(userID).Decimal(),
		}
	}

	return &BalanceSheetResponse{
		GroupID:  sheet.GroupID,
		Currency: sheet.Currency,
		Balances: balances,
	}
}

// TransferResponse represents a suggested settlement transfer.
type TransferResponse struct {
	FromUserID string          `json:"from_user_id"`
	ToUserID   string          `json:"to_user_id"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
}

// TransfersFromDomain converts suggested transfers to responses.
func TransfersFromDomain(transfers []domain.Transfer) []TransferResponse {
	result := make([]TransferResponse, len(transfers))
	for i, t := range transfers {
		result[i] = TransferResponse{
			FromUserID: t.FromUserID,
			ToUserID:   t.ToUserID,
			Amount:     t.Amount.Decimal(),
			Currency:   t.Amount.Currency,
		}
	}
	return result
}

// VerifyResponse represents a group consistency report.
type VerifyResponse struct {
	GroupID         string   `json:"group_id"`
	Balanced        bool     `json:"balanced"`
	Sum             int64    `json:"sum_minor_units"`
	ExpenseCount    int      `json:"expense_count"`
	SettlementCount int      `json:"settlement_count"`
	BrokenExpenses  []string `json:"broken_expenses,omitempty"`
}

// VerifyFromReport converts a verify report to a response.
func VerifyFromReport(r *usecase.VerifyReport) *VerifyResponse {
	return &VerifyResponse{
		GroupID:         r.GroupID,
		Balanced:        r.Balanced,
		Sum:             r.Sum,
		ExpenseCount:    r.ExpenseCount,
		SettlementCount: r.SettlementCount,
		BrokenExpenses:  r.BrokenExpenses,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
