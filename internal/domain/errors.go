package domain

import "errors"

// Error classes. Validation errors are recoverable: the caller fixes its
// input and retries. Invariant errors mean data that should have been
// validated upstream is corrupted; they are surfaced as fatal and nothing
// is retried.
var (
	ErrValidation = errors.New("validation failed")
	ErrInvariant  = errors.New("invariant violated")
)

// Validation errors.
var (
	ErrNoParticipants      = errors.New("expense has no participants")
	ErrInvalidAmount       = errors.New("amount must not be negative")
	ErrShareMismatch       = errors.New("exact amounts do not sum to expense total")
	ErrPercentSum          = errors.New("percentages do not sum to 100")
	ErrInvalidPercent      = errors.New("percentage must not be negative")
	ErrInvalidWeight       = errors.New("share weight must be a positive integer")
	ErrMissingSplitParam   = errors.New("split parameter missing for participant")
	ErrUnknownSplitType    = errors.New("unknown split type")
	ErrCurrencyMismatch    = errors.New("currency mismatch")
	ErrDuplicateUser       = errors.New("duplicate participant")
	ErrPayerNotParticipant = errors.New("payer must be one of the participants")
	ErrSameUser            = errors.New("settlement requires two distinct users")
	ErrNotGroupMember      = errors.New("user is not a member of the group")
)

// Invariant errors.
var (
	ErrNonZeroSum  = errors.New("balance sheet does not sum to zero")
	ErrShareSumOff = errors.New("stored shares do not sum to expense total")
)

// Not-found errors.
var (
	ErrGroupNotFound      = errors.New("group not found")
	ErrExpenseNotFound    = errors.New("expense not found")
	ErrSettlementNotFound = errors.New("settlement not found")
)

var validationErrors = []error{
	ErrNoParticipants,
	ErrInvalidAmount,
	ErrShareMismatch,
	ErrPercentSum,
	ErrInvalidPercent,
	ErrInvalidWeight,
	ErrMissingSplitParam,
	ErrUnknownSplitType,
	ErrCurrencyMismatch,
	ErrDuplicateUser,
	ErrPayerNotParticipant,
	ErrSameUser,
	ErrNotGroupMember,
	ErrInvalidGroupName,
	ErrInvalidDescription,
	ErrInvalidCurrency,
}

var invariantErrors = []error{
	ErrNonZeroSum,
	ErrShareSumOff,
}

// IsValidation reports whether err belongs to the validation class.
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidation) {
		return true
	}
	for _, e := range validationErrors {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// IsInvariant reports whether err belongs to the invariant class.
func IsInvariant(err error) bool {
	if errors.Is(err, ErrInvariant) {
		return true
	}
	for _, e := range invariantErrors {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
