package finance

import (
	"time"

	"oficinadoaluno_go/models"
	"oficinadoaluno_go/services/agenda"
)

// Remuneration is a forward-looking projection of a professional's pay for one
// month, recomputed from the schedule on every view. Group occurrences carry no
// completion record, so the projection counts the recurrence rule as-is.
type Remuneration struct {
	ProfessionalID     uint    `json:"professional_id"`
	ProfessionalName   string  `json:"professional_name,omitempty"`
	IndividualHours    float64 `json:"individual_hours"`
	IndividualEarnings float64 `json:"individual_earnings"`
	GroupHours         float64 `json:"group_hours"`
	GroupEarnings      float64 `json:"group_earnings"`
	Total              float64 `json:"total"`
}

// WeekdayCountInMonth counts how many times a weekday occurs in a month.
func WeekdayCountInMonth(year int, month time.Month, weekday time.Weekday) int {
	count := 0
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		if d.Weekday() == weekday {
			count++
		}
	}
	return count
}

// Project computes the remuneration projection for one professional and month.
// Individual hours come from that professional's non-canceled scheduled classes
// in the month; group hours from the weekly recurrence rules of their active
// groups. Single-date groups contribute their one occurrence when it falls in
// the month.
func Project(professional models.Professional, classes []models.ScheduledClass, groups []models.ClassGroup, year int, month time.Month) Remuneration {
	r := Remuneration{ProfessionalID: professional.ID, ProfessionalName: professional.Name}

	for _, class := range classes {
		if class.ProfessionalID != professional.ID || class.Status == "cancelada" {
			continue
		}
		if !InMonth(class.Date, year, month) {
			continue
		}
		r.IndividualHours += float64(class.DurationMinutes) / 60.0
	}
	r.IndividualEarnings = r.IndividualHours * professional.HourlyRateIndividual

	for _, group := range groups {
		if group.ProfessionalID != professional.ID || group.Status != "active" {
			continue
		}
		switch group.ScheduleType {
		case "recurring":
			for day := range group.ScheduleDays {
				idx := agenda.WeekdayIndex(day)
				if idx < 0 {
					continue
				}
				occurrences := WeekdayCountInMonth(year, month, time.Weekday(idx))
				r.GroupHours += float64(occurrences) * group.CreditsToDeduct
			}
		case "single":
			if InMonth(group.ScheduleDate, year, month) {
				r.GroupHours += group.CreditsToDeduct
			}
		}
	}
	r.GroupEarnings = r.GroupHours * professional.HourlyRateGroup

	r.Total = r.IndividualEarnings + r.GroupEarnings
	return r
}

// CollaboratorPay computes one collaborator's monthly pay from their contract.
// Hourly contracts bill the worked class-hours, fixed contracts are a flat
// salary, percentage contracts take a cut of the month's gross income. Rates
// for percentage contracts are expressed as 0-100.
func CollaboratorPay(remunerationType string, rate, hours, income float64) float64 {
	switch remunerationType {
	case "hourly":
		return rate * hours
	case "fixed":
		return rate
	case "percentage":
		return income * rate / 100
	}
	return 0
}
