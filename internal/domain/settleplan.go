package domain

// party is one side of the settlement matching, tracked by magnitude.
type party struct {
	userID string
	amount int64
}

// PlanSettlements reduces a balance sheet to a minimal ordered list of
// transfers that zero every balance when executed in order. Greedy
// largest-debtor/largest-creditor matching: for N parties with nonzero
// balance it emits at most N-1 transfers. Ties are broken by ascending
// user ID so the plan is deterministic.
//
// A sheet that does not sum to zero indicates corrupted upstream data and
// fails fast rather than producing a wrong plan.
func PlanSettlements(sheet *BalanceSheet) ([]Transfer, error) {
	if err := sheet.CheckZeroSum(); err != nil {
		return nil, err
	}

	var creditors, debtors []party
	for _, userID := range sheet.UserIDs() {
		net := sheet.NetByUser[userID]
		switch {
		case net.IsPositive():
			creditors = append(creditors, party{userID: userID, amount: net.Amount})
		case net.IsNegative():
			debtors = append(debtors, party{userID: userID, amount: -net.Amount})
		}
	}

	var transfers []Transfer
	for len(creditors) > 0 && len(debtors) > 0 {
		ci := largest(creditors)
		di := largest(debtors)

		amount := creditors[ci].amount
		if debtors[di].amount < amount {
			amount = debtors[di].amount
		}

		transfers = append(transfers, Transfer{
			FromUserID: debtors[di].userID,
			ToUserID:   creditors[ci].userID,
			Amount:     NewMoney(amount, sheet.Currency),
		})

		creditors[ci].amount -= amount
		debtors[di].amount -= amount

		if creditors[ci].amount == 0 {
			creditors = append(creditors[:ci], creditors[ci+1:]...)
		}
		if debtors[di].amount == 0 {
			debtors = append(debtors[:di], debtors[di+1:]...)
		}
	}

	return transfers, nil
}

// largest returns the index of the party with the biggest remaining amount.
// Parties are kept in ascending user-ID order, so the first maximum wins
// ties deterministically.
func largest(parties []party) int {
	best := 0
	for i := 1; i < len(parties); i++ {
		if parties[i].amount > parties[best].amount {
			best = i
		}
	}
	return best
}
