package finance

import (
	"time"

	"oficinadoaluno_go/models"
)

// PeriodSummary aggregates the ledger for one calendar month.
type PeriodSummary struct {
	TotalIncome   float64 `json:"total_income"`
	TotalExpenses float64 `json:"total_expenses"`
	Balance       float64 `json:"balance"`
}

// InMonth reports whether a YYYY-MM-DD date falls in the given month, compared in
// UTC calendar terms. Parsing through local time would shift dates like
// "2024-01-31" across the month boundary for negative-offset viewers.
func InMonth(date string, year int, month time.Month) bool {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return false
	}
	return t.Year() == year && t.Month() == month
}

// Summarize filters the ledger to one month and totals income, expenses and
// balance. Pure over its inputs: identical calls yield identical totals.
func Summarize(transactions []models.Transaction, year int, month time.Month) PeriodSummary {
	var s PeriodSummary
	for _, tx := range transactions {
		if !InMonth(tx.Date, year, month) {
			continue
		}
		switch tx.Type {
		case "credit", "monthly":
			s.TotalIncome += tx.Amount
		case "payment":
			s.TotalExpenses += tx.Amount
		}
	}
	s.Balance = s.TotalIncome - s.TotalExpenses
	return s
}
