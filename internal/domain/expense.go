package domain

import (
	"fmt"
	"time"
)

// Expense is a single shared cost fronted by one payer and split among a
// fixed participant list. It is immutable once recorded; corrections are
// delete-and-recreate.
type Expense struct {
	ID           string
	GroupID      string
	Description  string
	Category     string
	Total        Money
	PayerID      string
	CreatedBy    string
	Participants []string
	Split        SplitSpec
	Shares       []Share
	Date         time.Time
	CreatedAt    time.Time
}

// Share is one participant's owed portion of an expense. The Settled flag is
// display bookkeeping only; net balances are derived from the settlement
// ledger, never from this flag.
type Share struct {
	ExpenseID string
	UserID    string
	Owed      Money
	Settled   bool
}

// Validate validates expense fields prior to share computation.
func (e *Expense) Validate() error {
	if err := ValidateDescription(e.Description); err != nil {
		return err
	}

	if e.Total.Amount < 0 {
		return fmt.Errorf("%w: expense total is %d", ErrInvalidAmount, e.Total.Amount)
	}

	if len(e.Participants) == 0 {
		return ErrNoParticipants
	}

	if err := distinct(e.Participants); err != nil {
		return err
	}

	if !containsUser(e.Participants, e.PayerID) {
		return fmt.Errorf("%w: payer %s", ErrPayerNotParticipant, e.PayerID)
	}

	return nil
}

// ShareSum returns the sum of all stored shares.
func (e *Expense) ShareSum() Money {
	sum := Money{Currency: e.Total.Currency}
	for _, s := range e.Shares {
		sum = sum.Add(s.Owed)
	}
	return sum
}

// CheckShareSum verifies the stored shares sum exactly to the total. A
// mismatch means the stored history is corrupted.
func (e *Expense) CheckShareSum() error {
	for _, s := range e.Shares {
		if !s.Owed.SameCurrency(e.Total) {
			return fmt.Errorf("%w: share for %s is %s, expense is %s",
				ErrCurrencyMismatch, s.UserID, s.Owed.Currency, e.Total.Currency)
		}
	}

	if sum := e.ShareSum(); sum.Amount != e.Total.Amount {
		return fmt.Errorf("%w: expense %s shares sum to %d, total is %d",
			ErrShareSumOff, e.ID, sum.Amount, e.Total.Amount)
	}

	return nil
}

func containsUser(users []string, userID string) bool {
	for _, u := range users {
		if u == userID {
			return true
		}
	}
	return false
}
