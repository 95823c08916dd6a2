package agenda

import (
	"oficinadoaluno_go/models"
)

// Advice is the warning set computed while an admin fills the scheduling form.
// Warnings are advisory: submission always succeeds regardless.
type Advice struct {
	CreditsNeeded       float64 `json:"credits_needed"`
	CreditWarning       bool    `json:"credit_warning"`
	AvailabilityWarning bool    `json:"availability_warning"`
}

// CreditsNeeded converts a class duration into credits at the given rate.
func CreditsNeeded(durationMinutes int, creditsPerHour float64) float64 {
	return float64(durationMinutes) / 60.0 * creditsPerHour
}

// CreditWarning is raised only when the balance is strictly below the needed
// amount. An exact balance is enough.
func CreditWarning(studentCredits, creditsNeeded float64) bool {
	return studentCredits < creditsNeeded
}

// AvailabilityWarning is raised when the professional has configured availability
// and the requested weekday+time is not among the listed slots. No configured
// availability means no warning: absence of data is not unavailability.
func AvailabilityWarning(availability models.WeekdaySlots, date, timeStr string) bool {
	if len(availability) == 0 {
		return false
	}
	day, err := ParseDate(date)
	if err != nil {
		return false
	}
	if len(timeStr) > 5 {
		timeStr = timeStr[:5]
	}
	for _, slot := range availability[WeekdayKeyFor(day)] {
		if slot == timeStr {
			return false
		}
	}
	return true
}

// Advise computes the full warning set for one prospective individual class.
func Advise(student models.Student, professional models.Professional, date, timeStr string, durationMinutes int, creditsPerHour float64) Advice {
	needed := CreditsNeeded(durationMinutes, creditsPerHour)
	return Advice{
		CreditsNeeded:       needed,
		CreditWarning:       CreditWarning(student.Credits, needed),
		AvailabilityWarning: AvailabilityWarning(professional.Availability, date, timeStr),
	}
}
