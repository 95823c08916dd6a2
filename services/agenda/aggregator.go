package agenda

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"oficinadoaluno_go/models"
)

// Hourly display slots of the day grid.
const (
	GridFirstHour = 8
	GridLastHour  = 20
)

// ClassInstance is one display-ready agenda element: either an individually
// scheduled class or one derived occurrence of a group.
type ClassInstance struct {
	Kind             string                 `json:"kind"` // individual, group
	Key              string                 `json:"key"`
	Date             string                 `json:"date"`
	Time             string                 `json:"time"`
	ProfessionalID   uint                   `json:"professional_id"`
	ReportRegistered bool                   `json:"report_registered"`
	Class            *models.ScheduledClass `json:"class,omitempty"`
	Group            *models.ClassGroup     `json:"group,omitempty"`
}

// Conflict marks two or more instances occupying the same professional/time-slot
// cell. Conflicts are surfaced, never rejected; the human scheduler decides.
type Conflict struct {
	ProfessionalID uint     `json:"professional_id"`
	Slot           string   `json:"slot"`
	Keys           []string `json:"keys"`
}

// ReportIndex answers "does a report exist for this group occurrence" lookups.
type ReportIndex struct {
	byOccurrence map[string]bool
	byStudent    map[string]bool
}

// NewReportIndex builds the lookup from a list of group class reports.
func NewReportIndex(reports []models.GroupClassReport) ReportIndex {
	idx := ReportIndex{
		byOccurrence: make(map[string]bool, len(reports)),
		byStudent:    make(map[string]bool, len(reports)),
	}
	for _, r := range reports {
		idx.byOccurrence[fmt.Sprintf("%d|%s", r.GroupID, r.Date)] = true
		idx.byStudent[fmt.Sprintf("%d|%d|%s", r.GroupID, r.StudentID, r.Date)] = true
	}
	return idx
}

// HasAny reports whether any student of the group has a report for the date.
func (idx ReportIndex) HasAny(groupID uint, date string) bool {
	return idx.byOccurrence[fmt.Sprintf("%d|%s", groupID, date)]
}

// HasFor reports whether one specific student has a report for the date.
func (idx ReportIndex) HasFor(groupID, studentID uint, date string) bool {
	return idx.byStudent[fmt.Sprintf("%d|%d|%s", groupID, studentID, date)]
}

// ForDay merges individual classes and group occurrences for a single date,
// sorted by time.
func ForDay(classes []models.ScheduledClass, groups []models.ClassGroup, reports ReportIndex, date string) []ClassInstance {
	var instances []ClassInstance
	for i := range classes {
		if classes[i].Date != date {
			continue
		}
		instances = append(instances, fromClass(&classes[i]))
	}
	for i := range groups {
		for _, occ := range Expand(groups[i], date, date) {
			instances = append(instances, fromOccurrence(&groups[i], occ, reports.HasAny(occ.GroupID, occ.Date)))
		}
	}
	sortInstances(instances)
	return instances
}

// ForMonth merges individual classes and group occurrences across a month,
// ascending by date then time. Group report status is the any-report-exists
// reading used by professional pending views; per-student status goes through
// ReportIndex.HasFor at the call site.
func ForMonth(classes []models.ScheduledClass, groups []models.ClassGroup, reports ReportIndex, year int, month time.Month) []ClassInstance {
	from, to := MonthWindow(year, month)

	var instances []ClassInstance
	for i := range classes {
		if classes[i].Date < from || classes[i].Date > to {
			continue
		}
		instances = append(instances, fromClass(&classes[i]))
	}
	for i := range groups {
		for _, occ := range Expand(groups[i], from, to) {
			instances = append(instances, fromOccurrence(&groups[i], occ, reports.HasAny(occ.GroupID, occ.Date)))
		}
	}
	sortInstances(instances)
	return instances
}

// DayGrid partitions a day's instances into professional rows with one cell per
// hourly slot (08:00-20:00). Instances outside the grid hours are kept in the
// row but not assigned a slot column.
type DayGridRow struct {
	ProfessionalID uint                       `json:"professional_id"`
	Slots          map[string][]ClassInstance `json:"slots"`
	Unslotted      []ClassInstance            `json:"unslotted,omitempty"`
}

func DayGrid(instances []ClassInstance) []DayGridRow {
	rows := make(map[uint]*DayGridRow)
	var order []uint
	for _, inst := range instances {
		row, ok := rows[inst.ProfessionalID]
		if !ok {
			row = &DayGridRow{ProfessionalID: inst.ProfessionalID, Slots: make(map[string][]ClassInstance)}
			rows[inst.ProfessionalID] = row
			order = append(order, inst.ProfessionalID)
		}
		slot, ok := SlotFor(inst.Time)
		if !ok {
			row.Unslotted = append(row.Unslotted, inst)
			continue
		}
		row.Slots[slot] = append(row.Slots[slot], inst)
	}

	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	out := make([]DayGridRow, 0, len(order))
	for _, id := range order {
		out = append(out, *rows[id])
	}
	return out
}

// Conflicts lists every (professional, slot) cell holding more than one instance.
func Conflicts(instances []ClassInstance) []Conflict {
	cells := make(map[string][]string)
	for _, inst := range instances {
		slot, ok := SlotFor(inst.Time)
		if !ok {
			continue
		}
		cell := fmt.Sprintf("%d|%s", inst.ProfessionalID, slot)
		cells[cell] = append(cells[cell], inst.Key)
	}

	var conflicts []Conflict
	for cell, keys := range cells {
		if len(keys) < 2 {
			continue
		}
		parts := strings.SplitN(cell, "|", 2)
		profID, _ := strconv.ParseUint(parts[0], 10, 32)
		sort.Strings(keys)
		conflicts = append(conflicts, Conflict{ProfessionalID: uint(profID), Slot: parts[1], Keys: keys})
	}
	sort.Slice(conflicts, func(i, j int) bool {
		if conflicts[i].ProfessionalID != conflicts[j].ProfessionalID {
			return conflicts[i].ProfessionalID < conflicts[j].ProfessionalID
		}
		return conflicts[i].Slot < conflicts[j].Slot
	})
	return conflicts
}

// SlotFor maps an "HH:MM" time to its hourly grid slot. Returns false when the
// time is malformed or outside grid hours.
func SlotFor(timeStr string) (string, bool) {
	if len(timeStr) < 5 {
		return "", false
	}
	hour, err := strconv.Atoi(timeStr[:2])
	if err != nil || hour < GridFirstHour || hour > GridLastHour {
		return "", false
	}
	return fmt.Sprintf("%02d:00", hour), true
}

// GridSlots returns the ordered column labels of the day grid.
func GridSlots() []string {
	slots := make([]string, 0, GridLastHour-GridFirstHour+1)
	for h := GridFirstHour; h <= GridLastHour; h++ {
		slots = append(slots, fmt.Sprintf("%02d:00", h))
	}
	return slots
}

func fromClass(class *models.ScheduledClass) ClassInstance {
	return ClassInstance{
		Kind:             "individual",
		Key:              fmt.Sprintf("class-%d", class.ID),
		Date:             class.Date,
		Time:             class.Time,
		ProfessionalID:   class.ProfessionalID,
		ReportRegistered: class.ReportRegistered,
		Class:            class,
	}
}

func fromOccurrence(group *models.ClassGroup, occ Occurrence, reported bool) ClassInstance {
	return ClassInstance{
		Kind:             "group",
		Key:              InstanceKey(occ.GroupID, occ.Date),
		Date:             occ.Date,
		Time:             occ.Time,
		ProfessionalID:   occ.ProfessionalID,
		ReportRegistered: reported,
		Group:            group,
	}
}

func sortInstances(instances []ClassInstance) {
	sort.Slice(instances, func(i, j int) bool {
		if instances[i].Date != instances[j].Date {
			return instances[i].Date < instances[j].Date
		}
		if instances[i].Time != instances[j].Time {
			return instances[i].Time < instances[j].Time
		}
		return instances[i].Key < instances[j].Key
	})
}
