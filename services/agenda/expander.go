package agenda

import (
	"fmt"
	"sort"
	"time"

	"oficinadoaluno_go/models"
)

// Canonical weekday keys used by group schedules and professional availability.
// Index matches time.Weekday (Sunday = 0).
var WeekdayKeys = [7]string{"domingo", "segunda", "terca", "quarta", "quinta", "sexta", "sabado"}

// WeekdayIndex returns the time.Weekday for a canonical key, or -1 for unknown keys.
func WeekdayIndex(key string) int {
	for i, k := range WeekdayKeys {
		if k == key {
			return i
		}
	}
	return -1
}

// WeekdayKeyFor returns the canonical key for a calendar date.
func WeekdayKeyFor(t time.Time) string {
	return WeekdayKeys[int(t.Weekday())]
}

// ParseDate parses a YYYY-MM-DD date in UTC. Dates are always compared in UTC
// calendar terms so month boundaries do not shift with the server timezone.
func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// Occurrence is one concrete date+time realization of a ClassGroup schedule.
type Occurrence struct {
	GroupID        uint   `json:"group_id"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	ProfessionalID uint   `json:"professional_id"`
}

// InstanceKey builds the display key for a group occurrence. Never persisted.
func InstanceKey(groupID uint, date string) string {
	return fmt.Sprintf("group-%d-%s", groupID, date)
}

// Expand produces every concrete occurrence of a group falling inside [from, to]
// (inclusive bounds, YYYY-MM-DD). Archived groups yield no occurrences. For single
// schedules an empty bound means unbounded on that side. Malformed schedules yield
// no occurrences rather than erroring.
func Expand(group models.ClassGroup, from, to string) []Occurrence {
	if group.Status != "active" {
		return nil
	}

	switch group.ScheduleType {
	case "single":
		if group.ScheduleDate == "" {
			return nil
		}
		if from != "" && group.ScheduleDate < from {
			return nil
		}
		if to != "" && group.ScheduleDate > to {
			return nil
		}
		return []Occurrence{{
			GroupID:        group.ID,
			Date:           group.ScheduleDate,
			Time:           group.ScheduleTime,
			ProfessionalID: group.ProfessionalID,
		}}

	case "recurring":
		if len(group.ScheduleDays) == 0 || from == "" || to == "" {
			return nil
		}
		start, err := ParseDate(from)
		if err != nil {
			return nil
		}
		end, err := ParseDate(to)
		if err != nil {
			return nil
		}

		var occurrences []Occurrence
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			timeStr, ok := group.ScheduleDays[WeekdayKeyFor(d)]
			if !ok || timeStr == "" {
				continue
			}
			occurrences = append(occurrences, Occurrence{
				GroupID:        group.ID,
				Date:           d.Format("2006-01-02"),
				Time:           timeStr,
				ProfessionalID: group.ProfessionalID,
			})
		}
		sortOccurrences(occurrences)
		return occurrences
	}

	return nil
}

// ExpandAll expands a set of groups into one window, sorted by date then time.
func ExpandAll(groups []models.ClassGroup, from, to string) []Occurrence {
	var all []Occurrence
	for _, g := range groups {
		all = append(all, Expand(g, from, to)...)
	}
	sortOccurrences(all)
	return all
}

func sortOccurrences(occurrences []Occurrence) {
	sort.Slice(occurrences, func(i, j int) bool {
		if occurrences[i].Date != occurrences[j].Date {
			return occurrences[i].Date < occurrences[j].Date
		}
		if occurrences[i].Time != occurrences[j].Time {
			return occurrences[i].Time < occurrences[j].Time
		}
		return occurrences[i].GroupID < occurrences[j].GroupID
	})
}

// MonthWindow returns the inclusive first and last day of a month as YYYY-MM-DD.
func MonthWindow(year int, month time.Month) (string, string) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first.Format("2006-01-02"), last.Format("2006-01-02")
}
