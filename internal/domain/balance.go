package domain

import (
	"fmt"
	"sort"
)

// BalanceSheet is the derived net position of every user in a group.
// Positive means the group owes the user money; negative means the user
// owes the group. It is recomputed from history, never persisted.
type BalanceSheet struct {
	GroupID   string
	Currency  string
	NetByUser map[string]Money
}

// Net returns the user's net balance, zero if the user never appears.
func (bs *BalanceSheet) Net(userID string) Money {
	if net, ok := bs.NetByUser[userID]; ok {
		return net
	}
	return Money{Currency: bs.Currency}
}

// Sum returns the sum of all net balances in minor units. Zero for any
// consistent group.
func (bs *BalanceSheet) Sum() int64 {
	var sum int64
	for _, net := range bs.NetByUser {
		sum += net.Amount
	}
	return sum
}

// CheckZeroSum verifies the closed-system invariant.
func (bs *BalanceSheet) CheckZeroSum() error {
	if sum := bs.Sum(); sum != 0 {
		return fmt.Errorf("%w: group %s sums to %d", ErrNonZeroSum, bs.GroupID, sum)
	}
	return nil
}

// UserIDs returns all users on the sheet in ascending order.
func (bs *BalanceSheet) UserIDs() []string {
	ids := make([]string, 0, len(bs.NetByUser))
	for id := range bs.NetByUser {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// GroupHistory is a group's full expense and settlement history, passed in
// as plain data so the fold stays a pure function.
type GroupHistory struct {
	Expenses    []Expense
	Settlements []Settlement
}

// AggregateBalances folds a group's history into a balance sheet. The fold
// is order-independent and replaying the same history always yields the
// same sheet. Per-share Settled flags never feed the sum; the settlement
// ledger is the source of truth.
func AggregateBalances(groupID, currency string, history GroupHistory) (*BalanceSheet, error) {
	net := make(map[string]int64)

	for i := range history.Expenses {
		expense := &history.Expenses[i]

		if expense.Total.Currency != currency {
			return nil, fmt.Errorf("%w: expense %s is %s, group is %s",
				ErrCurrencyMismatch, expense.ID, expense.Total.Currency, currency)
		}

		if err := expense.CheckShareSum(); err != nil {
			return nil, err
		}

		// The payer fronted the full amount; their own share, if any,
		// nets out against it below.
		net[expense.PayerID] += expense.Total.Amount

		for _, share := range expense.Shares {
			net[share.UserID] -= share.Owed.Amount
		}
	}

	for i := range history.Settlements {
		settlement := &history.Settlements[i]

		if settlement.Amount.Currency != currency {
			return nil, fmt.Errorf("%w: settlement %s is %s, group is %s",
				ErrCurrencyMismatch, settlement.ID, settlement.Amount.Currency, currency)
		}

		net[settlement.FromUserID] += settlement.Amount.Amount
		net[settlement.ToUserID] -= settlement.Amount.Amount
	}

	sheet := &BalanceSheet{
		GroupID:   groupID,
		Currency:  currency,
		NetByUser: make(map[string]Money, len(net)),
	}
	for userID, amount := range net {
		sheet.NetByUser[userID] = NewMoney(amount, currency)
	}

	if err := sheet.CheckZeroSum(); err != nil {
		return nil, err
	}

	return sheet, nil
}
