package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/splitpot/splitpot/internal/domain"
	"github.com/splitpot/splitpot/internal/usecase"
)

// CreateGroupRequest represents a request to create a group.
type CreateGroupRequest struct {
	Name      string   `json:"name"`
	Currency  string   `json:"currency"`
	CreatedBy string   `json:"created_by"`
	Members   []string `json:"members,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateGroupRequest) ToUseCaseInput() usecase.CreateGroupInput {
	return usecase.CreateGroupInput{
		Name:      r.Name,
		Currency:  r.Currency,
		CreatedBy: r.CreatedBy,
		Members:   r.Members,
	}
}

// AddMembersRequest represents a request to add members to a group.
type AddMembersRequest struct {
	UserIDs []string `json:"user_ids"`
}

// RecordExpenseRequest represents a request to record an expense.
// Amounts are major units with up to two decimal places.
type RecordExpenseRequest struct {
	Description  string                     `json:"description"`
	Category     string                     `json:"category,omitempty"`
	Amount       decimal.Decimal            `json:"amount"`
	Currency     string                     `json:"currency"`
	PayerID      string                     `json:"payer_id"`
	CreatedBy    string                     `json:"created_by"`
	Participants []string                   `json:"participants"`
	SplitType    string                     `json:"split_type"`
	Exact        map[string]decimal.Decimal `json:"exact,omitempty"`
	Percentages  map[string]decimal.Decimal `json:"percentages,omitempty"`
	Weights      map[string]int64           `json:"weights,omitempty"`
	Date         *time.Time                 `json:"date,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordExpenseRequest) ToUseCaseInput(groupID string) (usecase.RecordExpenseInput, error) {
	total, err := domain.MoneyFromDecimal(r.Amount, r.Currency)
	if err != nil {
		return usecase.RecordExpenseInput{}, err
	}

	split := domain.SplitSpec{
		Type:        domain.SplitType(r.SplitType),
		Percentages: r.Percentages,
		Weights:     r.Weights,
	}

	if r.Exact != nil {
		split.Exact = make(map[string]domain.Money, len(r.Exact))
		for userID, amount := range r.Exact {
			m, err := domain.MoneyFromDecimal(amount, r.Currency)
			if err != nil {
				return usecase.RecordExpenseInput{}, err
			}
			split.Exact[userID] = m
		}
	}

	return usecase.RecordExpenseInput{
		GroupID:      groupID,
		Description:  r.Description,
		Category:     r.Category,
		Total:        total,
		PayerID:      r.PayerID,
		CreatedBy:    r.CreatedBy,
		Participants: r.Participants,
		Split:        split,
		Date:         r.Date,
	}, nil
}

// RecordSettlementRequest represents a request to record a settlement.
type RecordSettlementRequest struct {
	FromUserID string          `json:"from_user_id"`
	ToUserID   string          `json:"to_user_id"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Note       string          `json:"note,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordSettlementRequest) ToUseCaseInput(groupID string) (usecase.RecordSettlementInput, error) {
	amount, err := domain.MoneyFromDecimal(r.Amount, r.Currency)
	if err != nil {
		return usecase.RecordSettlementInput{}, err
	}

	return usecase.RecordSettlementInput{
		GroupID:    groupID,
		FromUserID: r.FromUserID,
		ToUserID:   r.ToUserID,
		Amount:     amount,
		Note:       r.Note,
	}, nil
}
