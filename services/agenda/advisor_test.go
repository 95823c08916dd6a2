package agenda

import (
	"testing"

	"oficinadoaluno_go/models"
)

func TestCreditsNeeded(t *testing.T) {
	tests := []struct {
		name            string
		durationMinutes int
		creditsPerHour  float64
		expected        float64
	}{
		{"one hour", 60, 1, 1},
		{"ninety minutes", 90, 1, 1.5},
		{"two credit hours", 60, 2, 2},
		{"forty-five minutes", 45, 1, 0.75},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := CreditsNeeded(tc.durationMinutes, tc.creditsPerHour); got != tc.expected {
				t.Fatalf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestCreditWarningBoundary(t *testing.T) {
	needed := CreditsNeeded(90, 1) // 1.5

	if CreditWarning(needed, needed) {
		t.Fatal("exact balance must not raise a warning")
	}
	if !CreditWarning(needed-0.01, needed) {
		t.Fatal("balance one cent short must raise a warning")
	}
}

func TestAvailabilityWarningNoData(t *testing.T) {
	// No configured availability means no warning, whatever the requested time.
	for _, timeStr := range []string{"08:00", "14:00", "23:00"} {
		if AvailabilityWarning(models.WeekdaySlots{}, "2024-03-04", timeStr) {
			t.Fatalf("empty availability raised a warning for %s", timeStr)
		}
		if AvailabilityWarning(nil, "2024-03-04", timeStr) {
			t.Fatalf("nil availability raised a warning for %s", timeStr)
		}
	}
}

func TestAvailabilityWarning(t *testing.T) {
	availability := models.WeekdaySlots{
		"segunda": {"14:00", "15:00"},
		"quarta":  {"10:00"},
	}

	tests := []struct {
		name     string
		date     string // 2024-03-04 is a Monday
		time     string
		expected bool
	}{
		{"listed slot", "2024-03-04", "14:00", false},
		{"listed slot with seconds", "2024-03-04", "15:00:00", false},
		{"unlisted slot same day", "2024-03-04", "16:00", true},
		{"weekday absent from map", "2024-03-05", "14:00", true},
		{"other listed weekday", "2024-03-06", "10:00", false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := AvailabilityWarning(availability, tc.date, tc.time); got != tc.expected {
				t.Fatalf("expected warning=%v, got %v", tc.expected, got)
			}
		})
	}
}

func TestAdvise(t *testing.T) {
	student := models.Student{Credits: 1}
	professional := models.Professional{Availability: models.WeekdaySlots{"segunda": {"14:00"}}}

	advice := Advise(student, professional, "2024-03-04", "14:00", 90, 1)
	if advice.CreditsNeeded != 1.5 {
		t.Fatalf("expected credits_needed 1.5, got %v", advice.CreditsNeeded)
	}
	if !advice.CreditWarning {
		t.Fatal("expected credit warning for insufficient balance")
	}
	if advice.AvailabilityWarning {
		t.Fatal("did not expect availability warning for a listed slot")
	}
}
