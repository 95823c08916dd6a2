package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"oficinadoaluno_go/database"
	"oficinadoaluno_go/models"
	"oficinadoaluno_go/services/agenda"
	"oficinadoaluno_go/services/notifications"
)

// ReminderScheduler sends class reminders to professionals: a heads-up about
// thirty minutes before each class and a morning summary of the day's agenda.
type ReminderScheduler struct {
	db    *gorm.DB
	notif *notifications.Service
	cron  *cron.Cron

	mu   sync.Mutex
	sent map[string]time.Time
}

// NewReminderScheduler creates a ReminderScheduler
func NewReminderScheduler() *ReminderScheduler {
	return &ReminderScheduler{
		db:    database.DB,
		notif: notifications.NewService(),
		cron:  cron.New(),
		sent:  make(map[string]time.Time),
	}
}

// Start registers the cron entries and starts the scheduler.
func (rs *ReminderScheduler) Start() {
	// Upcoming-class check every minute
	if _, err := rs.cron.AddFunc("* * * * *", rs.CheckUpcomingClasses); err != nil {
		logrus.WithError(err).Error("Failed to register upcoming-class reminder job")
	}
	// Morning agenda summary
	if _, err := rs.cron.AddFunc("0 7 * * *", rs.SendDailyAgendaSummary); err != nil {
		logrus.WithError(err).Error("Failed to register daily agenda summary job")
	}

	rs.cron.Start()
	logrus.Info("Reminder scheduler started")
}

// Stop stops the scheduler.
func (rs *ReminderScheduler) Stop() {
	ctx := rs.cron.Stop()
	<-ctx.Done()
}

// CheckUpcomingClasses notifies professionals about classes starting in about
// thirty minutes. Both individual classes and expanded group occurrences count.
func (rs *ReminderScheduler) CheckUpcomingClasses() {
	now := time.Now()
	today := now.Format("2006-01-02")

	var classes []models.ScheduledClass
	if err := rs.db.Preload("Student").Where("date = ? AND status = ?", today, "agendada").Find(&classes).Error; err != nil {
		logrus.WithError(err).Error("Failed to load today's classes for reminders")
		return
	}

	var groups []models.ClassGroup
	if err := rs.db.Where("status = ?", "active").Find(&groups).Error; err != nil {
		logrus.WithError(err).Error("Failed to load groups for reminders")
		return
	}

	reports, err := rs.loadReportIndex(today)
	if err != nil {
		logrus.WithError(err).Error("Failed to load group reports for reminders")
		return
	}

	instances := agenda.ForDay(classes, groups, reports, today)
	for _, inst := range instances {
		if !rs.startsInWindow(now, inst.Time, 30*time.Minute) {
			continue
		}
		key := fmt.Sprintf("upcoming:%s:%s", inst.Key, inst.Date)
		if rs.alreadySent(key) {
			continue
		}
		rs.notifyProfessional(inst)
		rs.markSent(key)
	}

	rs.pruneSent(now)
}

// startsInWindow reports whether a "HH:MM" start time falls within ±5 minutes
// of now+lead.
func (rs *ReminderScheduler) startsInWindow(now time.Time, timeStr string, lead time.Duration) bool {
	start, err := time.ParseInLocation("2006-01-02 15:04", now.Format("2006-01-02")+" "+timeStr, now.Location())
	if err != nil {
		return false
	}
	target := now.Add(lead)
	diff := start.Sub(target)
	return diff > -5*time.Minute && diff <= 5*time.Minute
}

func (rs *ReminderScheduler) notifyProfessional(inst agenda.ClassInstance) {
	collabIDs, err := rs.collaboratorsForProfessional(inst.ProfessionalID)
	if err != nil || len(collabIDs) == 0 {
		return
	}

	var label string
	switch {
	case inst.Class != nil && inst.Class.Student.Name != "":
		label = inst.Class.Student.Name
	case inst.Group != nil:
		label = inst.Group.Name
	default:
		label = "aula"
	}

	n := notifications.QueuedWithData(
		"Aula em breve",
		fmt.Sprintf("Sua aula (%s) começa às %s.", label, inst.Time),
		"info",
		map[string]interface{}{"kind": inst.Kind, "key": inst.Key, "date": inst.Date, "time": inst.Time},
	)
	if err := rs.notif.EnqueueOrCreate(collabIDs, n); err != nil {
		logrus.WithError(err).Warn("Failed to enqueue class reminder")
	}
}

// SendDailyAgendaSummary sends each professional a morning digest of the day.
func (rs *ReminderScheduler) SendDailyAgendaSummary() {
	today := time.Now().Format("2006-01-02")

	var classes []models.ScheduledClass
	if err := rs.db.Preload("Student").Where("date = ? AND status = ?", today, "agendada").Find(&classes).Error; err != nil {
		logrus.WithError(err).Error("Failed to load classes for daily summary")
		return
	}
	var groups []models.ClassGroup
	if err := rs.db.Where("status = ?", "active").Find(&groups).Error; err != nil {
		logrus.WithError(err).Error("Failed to load groups for daily summary")
		return
	}

	reports, err := rs.loadReportIndex(today)
	if err != nil {
		logrus.WithError(err).Error("Failed to load group reports for daily summary")
		return
	}

	byProfessional := make(map[uint][]agenda.ClassInstance)
	for _, inst := range agenda.ForDay(classes, groups, reports, today) {
		byProfessional[inst.ProfessionalID] = append(byProfessional[inst.ProfessionalID], inst)
	}

	for profID, instances := range byProfessional {
		collabIDs, err := rs.collaboratorsForProfessional(profID)
		if err != nil || len(collabIDs) == 0 {
			continue
		}

		message := "Sua agenda de hoje:\n"
		for _, inst := range instances {
			var label string
			switch {
			case inst.Class != nil && inst.Class.Student.Name != "":
				label = inst.Class.Student.Name
			case inst.Group != nil:
				label = inst.Group.Name
			}
			message += fmt.Sprintf("- %s às %s\n", label, inst.Time)
		}

		n := notifications.Queued("Agenda do dia", message, "info")
		if err := rs.notif.EnqueueOrCreate(collabIDs, n); err != nil {
			logrus.WithError(err).Warn("Failed to enqueue daily summary")
		}
	}
}

// collaboratorsForProfessional finds the collaborator accounts linked to a
// professional. Professionals without a login get no reminders.
func (rs *ReminderScheduler) collaboratorsForProfessional(professionalID uint) ([]uint, error) {
	var ids []uint
	err := rs.db.Model(&models.Collaborator{}).
		Where("professional_id = ? AND active = ?", professionalID, true).
		Pluck("id", &ids).Error
	return ids, err
}

func (rs *ReminderScheduler) loadReportIndex(date string) (agenda.ReportIndex, error) {
	var reports []models.GroupClassReport
	if err := rs.db.Where("date = ?", date).Find(&reports).Error; err != nil {
		return agenda.ReportIndex{}, err
	}
	return agenda.NewReportIndex(reports), nil
}

func (rs *ReminderScheduler) alreadySent(key string) bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	_, ok := rs.sent[key]
	return ok
}

func (rs *ReminderScheduler) markSent(key string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.sent[key] = time.Now()
}

// pruneSent drops dedup entries older than a day.
func (rs *ReminderScheduler) pruneSent(now time.Time) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	for key, at := range rs.sent {
		if now.Sub(at) > 24*time.Hour {
			delete(rs.sent, key)
		}
	}
}
