package finance

import (
	"testing"
	"time"

	"oficinadoaluno_go/models"
)

func ledger() []models.Transaction {
	return []models.Transaction{
		{Type: "credit", Amount: 500, Date: "2024-01-10"},
		{Type: "monthly", Amount: 800, Date: "2024-01-15"},
		{Type: "payment", Amount: 300, Date: "2024-01-20"},
		{Type: "credit", Amount: 250, Date: "2024-01-31"},
		{Type: "payment", Amount: 100, Date: "2024-02-01"},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(ledger(), 2024, 1)

	if s.TotalIncome != 1550 {
		t.Fatalf("expected income 1550, got %v", s.TotalIncome)
	}
	if s.TotalExpenses != 300 {
		t.Fatalf("expected expenses 300, got %v", s.TotalExpenses)
	}
	if s.Balance != 1250 {
		t.Fatalf("expected balance 1250, got %v", s.Balance)
	}
}

func TestSummarizeIdempotent(t *testing.T) {
	txs := ledger()
	first := Summarize(txs, 2024, 1)
	second := Summarize(txs, 2024, 1)
	if first != second {
		t.Fatalf("summary not idempotent: %+v vs %+v", first, second)
	}
}

func TestSummarizeSignInvariant(t *testing.T) {
	for _, month := range []int{1, 2, 3} {
		s := Summarize(ledger(), 2024, time.Month(month))
		if s.Balance != s.TotalIncome-s.TotalExpenses {
			t.Fatalf("month %d: balance != income - expenses: %+v", month, s)
		}
		if s.TotalIncome < 0 || s.TotalExpenses < 0 {
			t.Fatalf("month %d: negative totals: %+v", month, s)
		}
	}
}

func TestMonthBoundary(t *testing.T) {
	// A 2024-01-31 transaction belongs to January regardless of the server
	// timezone; comparison is by UTC calendar date.
	jan := Summarize(ledger(), 2024, 1)
	feb := Summarize(ledger(), 2024, 2)

	if jan.TotalIncome != 1550 {
		t.Fatalf("2024-01-31 credit missing from January: %+v", jan)
	}
	if feb.TotalIncome != 0 || feb.TotalExpenses != 100 {
		t.Fatalf("February must hold only the 2024-02-01 payment: %+v", feb)
	}
}

func TestInMonth(t *testing.T) {
	tests := []struct {
		date     string
		year     int
		month    time.Month
		expected bool
	}{
		{"2024-01-31", 2024, 1, true},
		{"2024-01-31", 2024, 2, false},
		{"2024-02-29", 2024, 2, true},
		{"2023-12-31", 2024, 1, false},
		{"not-a-date", 2024, 1, false},
		{"", 2024, 1, false},
	}

	for _, tc := range tests {
		if got := InMonth(tc.date, tc.year, tc.month); got != tc.expected {
			t.Errorf("InMonth(%q, %d, %d) = %v; expected %v", tc.date, tc.year, tc.month, got, tc.expected)
		}
	}
}
