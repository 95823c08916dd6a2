package controllers

import (
	"testing"

	"oficinadoaluno_go/models"
	"oficinadoaluno_go/services/agenda"
)

func TestCreditsPerHourFrom(t *testing.T) {
	tests := []struct {
		name     string
		settings models.FinancialSettings
		want     float64
	}{
		{"unset defaults to one", models.FinancialSettings{}, 1},
		{"configured value wins", models.FinancialSettings{CreditsPerClassHour: 1.5}, 1.5},
		{"negative falls back", models.FinancialSettings{CreditsPerClassHour: -2}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := creditsPerHourFrom(tt.settings); got != tt.want {
				t.Errorf("creditsPerHourFrom = %v, want %v", got, tt.want)
			}
		})
	}
}

// A credit is a prepaid class-hour. The professional's monetary rate must never
// leak into the credit cost: a student with 10 credits books a one-hour class
// with an R$80/h professional for exactly 1 credit and no warning.
func TestBookingCreditCostIgnoresHourlyRate(t *testing.T) {
	student := models.Student{Credits: 10}
	professional := models.Professional{HourlyRateIndividual: 80}

	advice := agenda.Advise(student, professional, "2026-09-07", "14:00", 60,
		creditsPerHourFrom(models.FinancialSettings{}))

	if advice.CreditsNeeded != 1 {
		t.Errorf("CreditsNeeded = %v, want 1", advice.CreditsNeeded)
	}
	if advice.CreditWarning {
		t.Error("CreditWarning raised for a student holding 10 class-hours")
	}

	advice = agenda.Advise(student, professional, "2026-09-07", "14:00", 90,
		creditsPerHourFrom(models.FinancialSettings{CreditsPerClassHour: 1.5}))
	if advice.CreditsNeeded != 2.25 {
		t.Errorf("CreditsNeeded = %v, want 2.25", advice.CreditsNeeded)
	}
}
