package agenda

import (
	"testing"

	"oficinadoaluno_go/models"
)

func testData() ([]models.ScheduledClass, []models.ClassGroup) {
	classes := []models.ScheduledClass{
		{BaseModel: models.BaseModel{ID: 1}, Date: "2024-03-04", Time: "10:00", StudentID: 1, ProfessionalID: 1, DurationMinutes: 60},
		{BaseModel: models.BaseModel{ID: 2}, Date: "2024-03-04", Time: "15:00", StudentID: 2, ProfessionalID: 2, DurationMinutes: 60, ReportRegistered: true},
		{BaseModel: models.BaseModel{ID: 3}, Date: "2024-03-05", Time: "09:00", StudentID: 1, ProfessionalID: 1, DurationMinutes: 90},
	}
	groups := []models.ClassGroup{
		{
			BaseModel:      models.BaseModel{ID: 10},
			StudentIDs:     models.UintList{1, 2},
			ProfessionalID: 1,
			ScheduleType:   "recurring",
			ScheduleDays:   models.WeekdayTimes{"segunda": "10:00"}, // collides with class 1
			Status:         "active",
		},
	}
	return classes, groups
}

func TestForDay(t *testing.T) {
	classes, groups := testData()

	// 2024-03-04 is a Monday: two individual classes plus one group occurrence.
	instances := ForDay(classes, groups, NewReportIndex(nil), "2024-03-04")
	if len(instances) != 3 {
		t.Fatalf("expected 3 instances, got %d", len(instances))
	}

	kinds := map[string]int{}
	for _, inst := range instances {
		kinds[inst.Kind]++
		if inst.Date != "2024-03-04" {
			t.Fatalf("instance outside target day: %+v", inst)
		}
	}
	if kinds["individual"] != 2 || kinds["group"] != 1 {
		t.Fatalf("unexpected kind partition: %v", kinds)
	}
}

func TestForDayTolerantOfMissingData(t *testing.T) {
	if instances := ForDay(nil, nil, NewReportIndex(nil), "2024-03-04"); len(instances) != 0 {
		t.Fatalf("expected empty day, got %d instances", len(instances))
	}
}

func TestForMonthSortedAndFiltered(t *testing.T) {
	classes, groups := testData()
	classes = append(classes, models.ScheduledClass{
		BaseModel: models.BaseModel{ID: 4}, Date: "2024-04-01", Time: "10:00", StudentID: 1, ProfessionalID: 1,
	})

	instances := ForMonth(classes, groups, NewReportIndex(nil), 2024, 3)
	for i, inst := range instances {
		if inst.Date < "2024-03-01" || inst.Date > "2024-03-31" {
			t.Fatalf("instance %d outside March: %s", i, inst.Date)
		}
		if i > 0 {
			prev := instances[i-1]
			if inst.Date < prev.Date || (inst.Date == prev.Date && inst.Time < prev.Time) {
				t.Fatalf("month view out of order at %d", i)
			}
		}
	}

	// March 2024 has 4 Mondays: 4 group occurrences + 3 March classes.
	if len(instances) != 7 {
		t.Fatalf("expected 7 instances, got %d", len(instances))
	}
}

func TestReportIndex(t *testing.T) {
	idx := NewReportIndex([]models.GroupClassReport{
		{GroupID: 10, StudentID: 1, Date: "2024-03-04"},
	})

	if !idx.HasAny(10, "2024-03-04") {
		t.Fatal("expected any-report lookup to hit")
	}
	if !idx.HasFor(10, 1, "2024-03-04") {
		t.Fatal("expected per-student lookup to hit")
	}
	if idx.HasFor(10, 2, "2024-03-04") {
		t.Fatal("student 2 has no report for this date")
	}
	if idx.HasAny(10, "2024-03-11") {
		t.Fatal("no report exists for the following week")
	}
}

func TestForMonthGroupReportStatus(t *testing.T) {
	classes, groups := testData()
	idx := NewReportIndex([]models.GroupClassReport{
		{GroupID: 10, StudentID: 1, Date: "2024-03-04"},
	})

	instances := ForMonth(classes, groups, idx, 2024, 3)
	var first, second *ClassInstance
	for i := range instances {
		if instances[i].Kind != "group" {
			continue
		}
		switch instances[i].Date {
		case "2024-03-04":
			first = &instances[i]
		case "2024-03-11":
			second = &instances[i]
		}
	}
	if first == nil || second == nil {
		t.Fatal("expected group occurrences on 03-04 and 03-11")
	}
	if !first.ReportRegistered {
		t.Fatal("occurrence with a report must show as registered")
	}
	if second.ReportRegistered {
		t.Fatal("occurrence without any report must show as pending")
	}
}

func TestDayGridAndConflicts(t *testing.T) {
	classes, groups := testData()
	instances := ForDay(classes, groups, NewReportIndex(nil), "2024-03-04")

	rows := DayGrid(instances)
	if len(rows) != 2 {
		t.Fatalf("expected one row per professional with classes, got %d", len(rows))
	}

	// Professional 1 has an individual class and a group occurrence at 10:00.
	conflicts := Conflicts(instances)
	if len(conflicts) != 1 {
		t.Fatalf("expected exactly one conflict, got %d", len(conflicts))
	}
	c := conflicts[0]
	if c.ProfessionalID != 1 || c.Slot != "10:00" || len(c.Keys) != 2 {
		t.Fatalf("unexpected conflict: %+v", c)
	}
}

func TestSlotFor(t *testing.T) {
	tests := []struct {
		input    string
		slot     string
		inGrid   bool
	}{
		{"08:00", "08:00", true},
		{"08:30", "08:00", true},
		{"20:00", "20:00", true},
		{"07:59", "", false},
		{"21:00", "", false},
		{"bad", "", false},
	}

	for _, tc := range tests {
		slot, ok := SlotFor(tc.input)
		if ok != tc.inGrid || slot != tc.slot {
			t.Errorf("SlotFor(%q) = %q,%v; expected %q,%v", tc.input, slot, ok, tc.slot, tc.inGrid)
		}
	}

	if slots := GridSlots(); len(slots) != 13 || slots[0] != "08:00" || slots[12] != "20:00" {
		t.Fatalf("unexpected grid slots: %v", slots)
	}
}
