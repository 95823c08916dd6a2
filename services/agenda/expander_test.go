package agenda

import (
	"testing"

	"oficinadoaluno_go/models"
)

func recurringGroup(days models.WeekdayTimes) models.ClassGroup {
	return models.ClassGroup{
		BaseModel:      models.BaseModel{ID: 7},
		ProfessionalID: 3,
		ScheduleType:   "recurring",
		ScheduleDays:   days,
		Status:         "active",
	}
}

func TestExpandRecurringWeekly(t *testing.T) {
	group := recurringGroup(models.WeekdayTimes{"segunda": "14:00"})

	// 2024-03-04 through 2024-03-25 contains exactly 4 Mondays.
	occurrences := Expand(group, "2024-03-04", "2024-03-25")
	if len(occurrences) != 4 {
		t.Fatalf("expected 4 occurrences, got %d", len(occurrences))
	}

	expected := []string{"2024-03-04", "2024-03-11", "2024-03-18", "2024-03-25"}
	for i, occ := range occurrences {
		if occ.Date != expected[i] {
			t.Errorf("occurrence %d: expected date %s, got %s", i, expected[i], occ.Date)
		}
		if occ.Time != "14:00" {
			t.Errorf("occurrence %d: expected time 14:00, got %s", i, occ.Time)
		}
		if occ.GroupID != 7 || occ.ProfessionalID != 3 {
			t.Errorf("occurrence %d: ids not carried over: %+v", i, occ)
		}
	}
}

func TestExpandArchivedGroup(t *testing.T) {
	group := recurringGroup(models.WeekdayTimes{"segunda": "14:00", "quarta": "10:00"})
	group.Status = "archived"

	if occ := Expand(group, "2024-03-01", "2024-03-31"); len(occ) != 0 {
		t.Fatalf("archived group must yield zero occurrences, got %d", len(occ))
	}
}

func TestExpandEmptyDays(t *testing.T) {
	group := recurringGroup(models.WeekdayTimes{})
	if occ := Expand(group, "2024-03-01", "2024-03-31"); len(occ) != 0 {
		t.Fatalf("empty days map must yield zero occurrences, got %d", len(occ))
	}
}

func TestExpandSingleBounds(t *testing.T) {
	tests := []struct {
		name     string
		date     string
		from, to string
		expected int
	}{
		{"inside window", "2024-05-10", "2024-05-01", "2024-05-31", 1},
		{"at lower bound", "2024-05-01", "2024-05-01", "2024-05-31", 1},
		{"at upper bound", "2024-05-31", "2024-05-01", "2024-05-31", 1},
		{"before window", "2024-04-30", "2024-05-01", "2024-05-31", 0},
		{"after window", "2024-06-01", "2024-05-01", "2024-05-31", 0},
		{"no window", "2024-05-10", "", "", 1},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			group := models.ClassGroup{
				BaseModel:      models.BaseModel{ID: 2},
				ProfessionalID: 1,
				ScheduleType:   "single",
				ScheduleDate:   tc.date,
				ScheduleTime:   "09:30",
				Status:         "active",
			}
			occurrences := Expand(group, tc.from, tc.to)
			if len(occurrences) != tc.expected {
				t.Fatalf("expected %d occurrences, got %d", tc.expected, len(occurrences))
			}
			if tc.expected == 1 && occurrences[0].Time != "09:30" {
				t.Fatalf("expected time 09:30, got %s", occurrences[0].Time)
			}
		})
	}
}

func TestExpandMalformedSingle(t *testing.T) {
	group := models.ClassGroup{
		BaseModel:    models.BaseModel{ID: 4},
		ScheduleType: "single",
		Status:       "active",
	}
	if occ := Expand(group, "", ""); len(occ) != 0 {
		t.Fatalf("single schedule without a date must yield zero occurrences")
	}
}

func TestExpandSortedAcrossMonths(t *testing.T) {
	group := recurringGroup(models.WeekdayTimes{"terca": "16:00", "quinta": "08:00"})

	occurrences := Expand(group, "2024-01-15", "2024-03-15")
	if len(occurrences) == 0 {
		t.Fatal("expected occurrences in a two-month window")
	}
	for i := 1; i < len(occurrences); i++ {
		prev, cur := occurrences[i-1], occurrences[i]
		if cur.Date < prev.Date || (cur.Date == prev.Date && cur.Time < prev.Time) {
			t.Fatalf("occurrences out of order at %d: %v before %v", i, prev, cur)
		}
	}
}

func TestWeekdayKeys(t *testing.T) {
	// 2024-03-03 is a Sunday.
	day, err := ParseDate("2024-03-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key := WeekdayKeyFor(day); key != "domingo" {
		t.Fatalf("expected domingo, got %s", key)
	}
	if idx := WeekdayIndex("quarta"); idx != 3 {
		t.Fatalf("expected quarta at index 3, got %d", idx)
	}
	if idx := WeekdayIndex("wednesday"); idx != -1 {
		t.Fatalf("unknown key must map to -1, got %d", idx)
	}
}

func TestInstanceKey(t *testing.T) {
	if key := InstanceKey(12, "2024-05-01"); key != "group-12-2024-05-01" {
		t.Fatalf("unexpected instance key: %s", key)
	}
}

func TestMonthWindow(t *testing.T) {
	from, to := MonthWindow(2024, 2)
	if from != "2024-02-01" || to != "2024-02-29" {
		t.Fatalf("unexpected leap-February window: %s..%s", from, to)
	}
}
