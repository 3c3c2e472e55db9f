package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMoney_Arithmetic(t *testing.T) {
	a := NewMoney(150, "USD")
	b := NewMoney(50, "USD")

	if got := a.Add(b); got.Amount != 200 || got.Currency != "USD" {
		t.Errorf("Add: expected 200 USD, got %v", got)
	}

	if got := a.Sub(b); got.Amount != 100 {
		t.Errorf("Sub: expected 100, got %d", got.Amount)
	}

	if got := b.Sub(a); got.Amount != -100 {
		t.Errorf("Sub: expected -100, got %d", got.Amount)
	}

	if got := a.Neg(); got.Amount != -150 {
		t.Errorf("Neg: expected -150, got %d", got.Amount)
	}

	if got := NewMoney(-25, "USD").Abs(); got.Amount != 25 {
		t.Errorf("Abs: expected 25, got %d", got.Amount)
	}
}

func TestMoney_Predicates(t *testing.T) {
	if !NewMoney(0, "USD").IsZero() {
		t.Error("expected zero")
	}
	if !NewMoney(1, "USD").IsPositive() {
		t.Error("expected positive")
	}
	if !NewMoney(-1, "USD").IsNegative() {
		t.Error("expected negative")
	}
	if NewMoney(1, "USD").SameCurrency(NewMoney(1, "EUR")) {
		t.Error("expected different currencies")
	}
}

func TestMoney_AddPanicsOnCurrencyMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on mixed-currency Add")
		}
	}()

	NewMoney(100, "USD").Add(NewMoney(100, "EUR"))
}

func TestMoneyFromDecimal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int64
		wantErr  bool
	}{
		{name: "whole units", input: "12", expected: 1200},
		{name: "two decimal places", input: "12.50", expected: 1250},
		{name: "one decimal place", input: "0.3", expected: 30},
		{name: "zero", input: "0", expected: 0},
		{name: "negative", input: "-5.25", expected: -525},
		{name: "sub-cent precision rejected", input: "10.505", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := decimal.NewFromString(tt.input)
			if err != nil {
				t.Fatalf("bad input %q: %v", tt.input, err)
			}

			m, err := MoneyFromDecimal(d, "USD")

			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Errorf("expected ErrInvalidAmount, got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if m.Amount != tt.expected {
				t.Errorf("expected %d minor units, got %d", tt.expected, m.Amount)
			}
		})
	}
}

func TestMoney_DecimalRoundTrip(t *testing.T) {
	m := NewMoney(1250, "USD")
	if got := m.Decimal().String(); got != "12.5" {
		t.Errorf("expected 12.5, got %s", got)
	}
	if got := m.String(); got != "12.50 USD" {
		t.Errorf("expected %q, got %q", "12.50 USD", got)
	}
}
