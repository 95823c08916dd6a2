package finance

import (
	"testing"
	"time"

	"oficinadoaluno_go/models"
)

func TestWeekdayCountInMonth(t *testing.T) {
	// May 2024 starts on a Wednesday and has 31 days.
	if n := WeekdayCountInMonth(2024, 5, time.Wednesday); n != 5 {
		t.Fatalf("expected 5 Wednesdays in May 2024, got %d", n)
	}
	if n := WeekdayCountInMonth(2024, 5, time.Monday); n != 4 {
		t.Fatalf("expected 4 Mondays in May 2024, got %d", n)
	}
	if n := WeekdayCountInMonth(2024, 2, time.Thursday); n != 5 {
		t.Fatalf("expected 5 Thursdays in leap February 2024, got %d", n)
	}
}

func TestProjectIndividualOnly(t *testing.T) {
	professional := models.Professional{
		BaseModel:            models.BaseModel{ID: 1},
		HourlyRateIndividual: 80,
		HourlyRateGroup:      60,
	}
	classes := []models.ScheduledClass{
		{ProfessionalID: 1, Date: "2024-03-05", DurationMinutes: 90, Status: "agendada"},
		{ProfessionalID: 1, Date: "2024-03-19", DurationMinutes: 90, Status: "concluida"},
	}

	r := Project(professional, classes, nil, 2024, 3)

	if r.IndividualHours != 3.0 {
		t.Fatalf("expected 3.0 individual hours, got %v", r.IndividualHours)
	}
	if r.IndividualEarnings != 240.00 {
		t.Fatalf("expected individual earnings 240.00, got %v", r.IndividualEarnings)
	}
	if r.GroupHours != 0 || r.GroupEarnings != 0 {
		t.Fatalf("expected no group hours, got %v / %v", r.GroupHours, r.GroupEarnings)
	}
	if r.Total != 240.00 {
		t.Fatalf("expected total 240.00, got %v", r.Total)
	}
}

func TestProjectGroupOccurrenceCount(t *testing.T) {
	professional := models.Professional{
		BaseModel:       models.BaseModel{ID: 2},
		HourlyRateGroup: 60,
	}
	groups := []models.ClassGroup{
		{
			ProfessionalID:  2,
			ScheduleType:    "recurring",
			ScheduleDays:    models.WeekdayTimes{"segunda": "14:00", "quarta": "14:00"},
			Status:          "active",
			CreditsToDeduct: 1.5,
		},
	}

	// May 2024: 4 Mondays and 5 Wednesdays.
	r := Project(professional, nil, groups, 2024, 5)

	if r.GroupHours != 13.5 {
		t.Fatalf("expected group hours (4+5)*1.5 = 13.5, got %v", r.GroupHours)
	}
	if r.GroupEarnings != 13.5*60 {
		t.Fatalf("expected group earnings 810, got %v", r.GroupEarnings)
	}
}

func TestProjectFilters(t *testing.T) {
	professional := models.Professional{
		BaseModel:            models.BaseModel{ID: 3},
		HourlyRateIndividual: 100,
		HourlyRateGroup:      50,
	}
	classes := []models.ScheduledClass{
		{ProfessionalID: 3, Date: "2024-03-05", DurationMinutes: 60, Status: "cancelada"}, // canceled
		{ProfessionalID: 3, Date: "2024-04-05", DurationMinutes: 60, Status: "agendada"},  // wrong month
		{ProfessionalID: 9, Date: "2024-03-05", DurationMinutes: 60, Status: "agendada"},  // other professional
	}
	groups := []models.ClassGroup{
		{ProfessionalID: 3, ScheduleType: "recurring", ScheduleDays: models.WeekdayTimes{"segunda": "10:00"}, Status: "archived", CreditsToDeduct: 1},
		{ProfessionalID: 3, ScheduleType: "single", ScheduleDate: "2024-03-15", Status: "active", CreditsToDeduct: 2},
	}

	r := Project(professional, classes, groups, 2024, 3)

	if r.IndividualHours != 0 {
		t.Fatalf("expected 0 individual hours, got %v", r.IndividualHours)
	}
	// Archived group ignored; single-date group contributes its one occurrence.
	if r.GroupHours != 2 {
		t.Fatalf("expected 2 group hours from the single-date group, got %v", r.GroupHours)
	}
	if r.Total != 100 {
		t.Fatalf("expected total 100, got %v", r.Total)
	}
}

func TestProjectStable(t *testing.T) {
	professional := models.Professional{BaseModel: models.BaseModel{ID: 4}, HourlyRateIndividual: 75}
	classes := []models.ScheduledClass{
		{ProfessionalID: 4, Date: "2024-03-05", DurationMinutes: 120, Status: "agendada"},
	}

	first := Project(professional, classes, nil, 2024, 3)
	second := Project(professional, classes, nil, 2024, 3)
	if first != second {
		t.Fatalf("projection not stable: %+v vs %+v", first, second)
	}
}

func TestCollaboratorPay(t *testing.T) {
	tests := []struct {
		name   string
		typ    string
		rate   float64
		hours  float64
		income float64
		want   float64
	}{
		{"hourly bills worked hours", "hourly", 50, 12, 0, 600},
		{"hourly with no hours", "hourly", 50, 0, 0, 0},
		{"fixed ignores hours and income", "fixed", 3000, 12, 20000, 3000},
		{"percentage takes cut of income", "percentage", 10, 0, 20000, 2000},
		{"unknown contract pays nothing", "", 50, 12, 20000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CollaboratorPay(tt.typ, tt.rate, tt.hours, tt.income); got != tt.want {
				t.Errorf("CollaboratorPay(%q) = %v, want %v", tt.typ, got, tt.want)
			}
		})
	}
}
