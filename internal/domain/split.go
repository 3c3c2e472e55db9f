package domain

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// SplitType selects a split strategy.
type SplitType string

// The strategy set is closed; ComputeShares matches it exhaustively.
const (
	SplitEqual      SplitType = "equal"
	SplitExact      SplitType = "exact"
	SplitPercentage SplitType = "percentage"
	SplitShares     SplitType = "shares"
)

// SplitSpec is a tagged variant: Type selects the strategy and the matching
// parameter field; the other fields stay nil.
type SplitSpec struct {
	Type SplitType

	// Exact amounts per participant, used by SplitExact.
	Exact map[string]Money

	// Percentages per participant, used by SplitPercentage. Must sum to
	// 100 within a tolerance of 0.01.
	Percentages map[string]decimal.Decimal

	// Integer weights per participant, used by SplitShares.
	Weights map[string]int64
}

// percentTolerance is the allowed deviation of a percentage sum from 100.
var (
	hundred          = decimal.NewFromInt(100)
	percentTolerance = decimal.NewFromFloat(0.01)
)

// ComputeShares turns an expense total into one owed share per participant.
// It is a pure function: shares always sum exactly to the total in minor
// units, and the same inputs always produce the same allocation.
func ComputeShares(total Money, participants []string, spec SplitSpec) ([]Share, error) {
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}

	if total.Amount < 0 {
		return nil, fmt.Errorf("%w: total is %d", ErrInvalidAmount, total.Amount)
	}

	if err := distinct(participants); err != nil {
		return nil, err
	}

	switch spec.Type {
	case SplitEqual:
		return splitEqual(total, participants), nil
	case SplitExact:
		return splitExact(total, participants, spec.Exact)
	case SplitPercentage:
		return splitPercentage(total, participants, spec.Percentages)
	case SplitShares:
		return splitByWeights(total, participants, spec.Weights)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSplitType, spec.Type)
	}
}

// splitEqual divides the total evenly, truncating toward zero. The remainder
// (0 <= r < n) goes one minor unit at a time to the first r participants in
// caller order.
func splitEqual(total Money, participants []string) []Share {
	n := int64(len(participants))
	quotient := total.Amount / n
	remainder := total.Amount - quotient*n

	shares := make([]Share, len(participants))
	for i, userID := range participants {
		owed := quotient
		if int64(i) < remainder {
			owed++
		}
		shares[i] = Share{UserID: userID, Owed: NewMoney(owed, total.Currency)}
	}

	return shares
}

// splitExact uses caller-supplied amounts verbatim. Amounts must be
// non-negative, share the total's currency, and sum exactly to the total.
func splitExact(total Money, participants []string, amounts map[string]Money) ([]Share, error) {
	shares := make([]Share, len(participants))

	var sum int64
	for i, userID := range participants {
		amount, ok := amounts[userID]
		if !ok {
			return nil, fmt.Errorf("%w: no exact amount for %s", ErrMissingSplitParam, userID)
		}

		if amount.Currency != total.Currency {
			return nil, fmt.Errorf("%w: amount for %s is %s, total is %s",
				ErrCurrencyMismatch, userID, amount.Currency, total.Currency)
		}

		if amount.Amount < 0 {
			return nil, fmt.Errorf("%w: amount for %s is %d", ErrInvalidAmount, userID, amount.Amount)
		}

		sum += amount.Amount
		shares[i] = Share{UserID: userID, Owed: amount}
	}

	if sum != total.Amount {
		return nil, fmt.Errorf("%w: amounts sum to %d, total is %d", ErrShareMismatch, sum, total.Amount)
	}

	return shares, nil
}

// splitPercentage computes truncate(total * pct / 100) per participant and
// distributes the leftover minor units by the largest-remainder method:
// descending fractional remainder, ties broken by participant order.
func splitPercentage(total Money, participants []string, percentages map[string]decimal.Decimal) ([]Share, error) {
	sum := decimal.Zero
	for _, userID := range participants {
		pct, ok := percentages[userID]
		if !ok {
			return nil, fmt.Errorf("%w: no percentage for %s", ErrMissingSplitParam, userID)
		}

		if pct.IsNegative() {
			return nil, fmt.Errorf("%w: percentage for %s is %s", ErrInvalidPercent, userID, pct)
		}

		sum = sum.Add(pct)
	}

	if sum.Sub(hundred).Abs().GreaterThan(percentTolerance) {
		return nil, fmt.Errorf("%w: percentages sum to %s", ErrPercentSum, sum)
	}

	totalDec := decimal.NewFromInt(total.Amount)
	shares := make([]Share, len(participants))
	fractions := make([]decimal.Decimal, len(participants))

	var assigned int64
	for i, userID := range participants {
		raw := totalDec.Mul(percentages[userID]).Div(hundred)
		floor := raw.Floor()
		fractions[i] = raw.Sub(floor)
		assigned += floor.IntPart()
		shares[i] = Share{UserID: userID, Owed: NewMoney(floor.IntPart(), total.Currency)}
	}

	order := remainderOrder(len(shares), func(i, j int) bool {
		return fractions[i].GreaterThan(fractions[j])
	})
	distributeLeftover(shares, total.Amount-assigned, order)

	return shares, nil
}

// splitByWeights allocates floor(total * weight / sum(weights)) per
// participant, then distributes the leftover by largest integer remainder
// (total*weight mod sum), ties broken by participant order.
func splitByWeights(total Money, participants []string, weights map[string]int64) ([]Share, error) {
	var weightSum int64
	for _, userID := range participants {
		weight, ok := weights[userID]
		if !ok {
			return nil, fmt.Errorf("%w: no weight for %s", ErrMissingSplitParam, userID)
		}

		if weight <= 0 {
			return nil, fmt.Errorf("%w: weight for %s is %d", ErrInvalidWeight, userID, weight)
		}

		weightSum += weight
	}

	shares := make([]Share, len(participants))
	remainders := make([]int64, len(participants))

	var assigned int64
	for i, userID := range participants {
		scaled := total.Amount * weights[userID]
		quotient := scaled / weightSum
		remainders[i] = scaled % weightSum
		assigned += quotient
		shares[i] = Share{UserID: userID, Owed: NewMoney(quotient, total.Currency)}
	}

	order := remainderOrder(len(shares), func(i, j int) bool {
		return remainders[i] > remainders[j]
	})
	distributeLeftover(shares, total.Amount-assigned, order)

	return shares, nil
}

// remainderOrder returns share indexes sorted by the given strict ordering.
// The sort is stable so equal remainders keep participant order.
func remainderOrder(n int, greater func(i, j int) bool) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return greater(order[a], order[b])
	})
	return order
}

// distributeLeftover spreads leftover minor units across shares one unit at
// a time following order. A percentage sum inside the tolerance window can
// leave a deficit instead of a surplus; units are then taken back starting
// from the smallest remainder.
func distributeLeftover(shares []Share, leftover int64, order []int) {
	if leftover == 0 || len(order) == 0 {
		return
	}

	unit := int64(1)
	if leftover < 0 {
		unit = -1
		leftover = -leftover

		reversed := make([]int, len(order))
		for i, idx := range order {
			reversed[len(order)-1-i] = idx
		}
		order = reversed
	}

	n := int64(len(order))
	for i := int64(0); i < leftover; i++ {
		shares[order[i%n]].Owed.Amount += unit
	}
}
