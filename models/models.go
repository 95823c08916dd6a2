package models

import (
	"database/sql/driver"
	"encoding/json"
	"sort"
	"time"

	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSON field type for GORM
type JSON []byte

func (j JSON) Value() (driver.Value, error) {
	if j.IsNull() {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	s, ok := value.([]byte)
	if !ok {
		return nil
	}
	*j = append((*j)[0:0], s...)
	return nil
}

func (j JSON) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *JSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return nil
	}
	*j = append((*j)[0:0], data...)
	return nil
}

func (j JSON) IsNull() bool {
	return len(j) == 0 || string(j) == "null"
}

// StringList is a JSON-encoded list of strings
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(b, l)
}

// UintList is a JSON-encoded list of entity IDs
type UintList []uint

func (l UintList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *UintList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(b, l)
}

func (l UintList) Contains(id uint) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// WeekdayTimes maps canonical weekday keys (domingo..sabado) to an "HH:MM" start time.
// Used by recurring group schedules.
type WeekdayTimes map[string]string

func (w WeekdayTimes) Value() (driver.Value, error) {
	if w == nil {
		return "{}", nil
	}
	b, err := json.Marshal(w)
	return string(b), err
}

func (w *WeekdayTimes) Scan(value interface{}) error {
	if value == nil {
		*w = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(b, w)
}

// WeekdaySlots maps canonical weekday keys to a sorted list of available "HH:MM" slots.
// Used by professional availability.
type WeekdaySlots map[string][]string

func (w WeekdaySlots) Value() (driver.Value, error) {
	if w == nil {
		return "{}", nil
	}
	b, err := json.Marshal(w)
	return string(b), err
}

func (w *WeekdaySlots) Scan(value interface{}) error {
	if value == nil {
		*w = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(b, w)
}

// SectionPermissions maps an admin section name to whether the collaborator may access it.
type SectionPermissions map[string]bool

func (p SectionPermissions) Value() (driver.Value, error) {
	if p == nil {
		return "{}", nil
	}
	b, err := json.Marshal(p)
	return string(b), err
}

func (p *SectionPermissions) Scan(value interface{}) error {
	if value == nil {
		*p = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(b, p)
}

// AccessList holds a collaborator's system access roles (subset of admin, teacher).
// Legacy rows sometimes stored the value as an object ({"admin":true}) instead of an
// array; both shapes decode to the canonical sorted array form.
type AccessList []string

func (a AccessList) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(normalizeAccess(a)))
	return string(b), err
}

func (a *AccessList) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return nil
	}
	return a.UnmarshalJSON(b)
}

func (a *AccessList) UnmarshalJSON(data []byte) error {
	var roles []string
	if err := json.Unmarshal(data, &roles); err == nil {
		*a = normalizeAccess(roles)
		return nil
	}
	// legacy object form
	var legacy map[string]bool
	if err := json.Unmarshal(data, &legacy); err != nil {
		return err
	}
	for role, enabled := range legacy {
		if enabled {
			roles = append(roles, role)
		}
	}
	*a = normalizeAccess(roles)
	return nil
}

func (a AccessList) MarshalJSON() ([]byte, error) {
	return json.Marshal([]string(normalizeAccess(a)))
}

func (a AccessList) Has(role string) bool {
	for _, r := range a {
		if r == role {
			return true
		}
	}
	return false
}

func normalizeAccess(roles []string) AccessList {
	seen := make(map[string]bool, len(roles))
	out := make(AccessList, 0, len(roles))
	for _, r := range roles {
		if (r == "admin" || r == "teacher") && !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	sort.Strings(out)
	return out
}

// Student model
type Student struct {
	BaseModel
	Name           string  `json:"name" gorm:"size:255;not null"`
	Email          string  `json:"email" gorm:"size:255"`
	Phone          string  `json:"phone" gorm:"size:20"`
	BirthDate      string  `json:"birth_date" gorm:"size:10"`
	School         string  `json:"school" gorm:"size:255"`
	GradeLevel     string  `json:"grade_level" gorm:"size:50"`
	GuardianName   string  `json:"guardian_name" gorm:"size:255"`
	GuardianPhone  string  `json:"guardian_phone" gorm:"size:20"`
	GuardianEmail  string  `json:"guardian_email" gorm:"size:255"`
	Status         string  `json:"status" gorm:"size:50;not null;default:'prospeccao';type:enum('prospeccao','matricula','inativo')"` // prospeccao, matricula, inativo
	Credits        float64 `json:"credits" gorm:"default:0"`
	HasMonthlyPlan bool    `json:"has_monthly_plan" gorm:"default:false"`
	Observations   string  `json:"observations" gorm:"type:text"`
	Avatar         string  `json:"avatar" gorm:"size:500"`
}

// Professional model
type Professional struct {
	BaseModel
	Name                 string       `json:"name" gorm:"size:255;not null"`
	Email                string       `json:"email" gorm:"size:255"`
	Phone                string       `json:"phone" gorm:"size:20"`
	Disciplines          StringList   `json:"disciplines" gorm:"type:json"`
	Status               string       `json:"status" gorm:"size:50;not null;default:'ativo';type:enum('ativo','inativo')"` // ativo, inativo
	HourlyRateIndividual float64      `json:"hourly_rate_individual" gorm:"default:0"`
	HourlyRateGroup      float64      `json:"hourly_rate_group" gorm:"default:0"`
	Availability         WeekdaySlots `json:"availability" gorm:"type:json"`
	Avatar               string       `json:"avatar" gorm:"size:500"`
}

// ScheduledClass is one concrete individual class occurrence.
// CreditsConsumed is fixed at creation time and never recomputed.
type ScheduledClass struct {
	BaseModel
	Date             string  `json:"date" gorm:"size:10;not null;index"` // YYYY-MM-DD
	Time             string  `json:"time" gorm:"size:5;not null"`       // HH:MM
	StudentID        uint    `json:"student_id" gorm:"not null;index"`
	ProfessionalID   uint    `json:"professional_id" gorm:"not null;index"`
	Discipline       string  `json:"discipline" gorm:"size:100"`
	DurationMinutes  int     `json:"duration_minutes" gorm:"not null;default:60"`
	CreditsConsumed  float64 `json:"credits_consumed"`
	Status           string  `json:"status" gorm:"size:50;not null;default:'agendada';type:enum('agendada','concluida','cancelada')"` // agendada, concluida, cancelada
	ReportRegistered bool    `json:"report_registered" gorm:"default:false"`
	Report           string  `json:"report" gorm:"type:text"`
	DiagnosticReport string  `json:"diagnostic_report" gorm:"type:text"`

	// Relationships
	Student      Student      `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Professional Professional `json:"professional,omitempty" gorm:"foreignKey:ProfessionalID"`
}

// ClassGroup is a named recurring or single-date group class. Occurrences are not
// persisted; they are derived from the schedule on read.
type ClassGroup struct {
	BaseModel
	Name            string       `json:"name" gorm:"size:255;not null"`
	StudentIDs      UintList     `json:"student_ids" gorm:"type:json"`
	ProfessionalID  uint         `json:"professional_id" gorm:"not null;index"`
	Discipline      string       `json:"discipline" gorm:"size:100"`
	ScheduleType    string       `json:"schedule_type" gorm:"size:50;not null;default:'recurring';type:enum('recurring','single')"` // recurring, single
	ScheduleDays    WeekdayTimes `json:"schedule_days" gorm:"type:json"`
	ScheduleDate    string       `json:"schedule_date" gorm:"size:10"`
	ScheduleTime    string       `json:"schedule_time" gorm:"size:5"`
	Status          string       `json:"status" gorm:"size:50;not null;default:'active';type:enum('active','archived')"` // active, archived
	CreditsToDeduct float64      `json:"credits_to_deduct" gorm:"default:1"`

	// Relationships
	Professional Professional `json:"professional,omitempty" gorm:"foreignKey:ProfessionalID"`
}

// GroupClassReport records one student's attendance at one group-class date instance.
// The composite unique index materializes the (group, student, date) occurrence.
type GroupClassReport struct {
	BaseModel
	GroupID   uint   `json:"group_id" gorm:"not null;uniqueIndex:idx_group_student_date"`
	StudentID uint   `json:"student_id" gorm:"not null;uniqueIndex:idx_group_student_date"`
	Date      string `json:"date" gorm:"size:10;not null;uniqueIndex:idx_group_student_date"`
	Content   string `json:"content" gorm:"type:text"`
	Attended  bool   `json:"attended" gorm:"default:true"`

	// Relationships
	Group   ClassGroup `json:"group,omitempty" gorm:"foreignKey:GroupID"`
	Student Student    `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}

// ContinuityItem is a follow-up task tied to a student, created as a side effect of
// saving a class report.
type ContinuityItem struct {
	BaseModel
	StudentID   uint   `json:"student_id" gorm:"not null;index"`
	Description string `json:"description" gorm:"type:text;not null"`
	Discipline  string `json:"discipline" gorm:"size:100"`
	Status      string `json:"status" gorm:"size:50;not null;default:'nao_iniciado';type:enum('nao_iniciado','em_andamento','concluido')"` // nao_iniciado, em_andamento, concluido
	ClassID     *uint  `json:"class_id"`
	GroupID     *uint  `json:"group_id"`

	// Relationships
	Student Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}

// Transaction is an immutable financial ledger entry. credit and monthly are income;
// payment is expense. A credit transaction also increments the student's balance.
type Transaction struct {
	BaseModel
	Type           string  `json:"type" gorm:"size:50;not null;type:enum('credit','monthly','payment')"` // credit, monthly, payment
	Amount         float64 `json:"amount" gorm:"not null"`
	Date           string  `json:"date" gorm:"size:10;not null;index"` // YYYY-MM-DD
	Description    string  `json:"description" gorm:"size:500"`
	Category       string  `json:"category" gorm:"size:100"`
	PaymentMethod  string  `json:"payment_method" gorm:"size:50"`
	CreditsBought  float64 `json:"credits_bought" gorm:"default:0"`
	StudentID      *uint   `json:"student_id" gorm:"index"`
	ProfessionalID *uint   `json:"professional_id" gorm:"index"`
	RegisteredByID uint    `json:"registered_by_id"`

	// Relationships
	Student      *Student      `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Professional *Professional `json:"professional,omitempty" gorm:"foreignKey:ProfessionalID"`
	RegisteredBy Collaborator  `json:"registered_by,omitempty" gorm:"foreignKey:RegisteredByID"`
}

// Collaborator is a staff identity. It doubles as the auth identity: the login string
// maps to a synthetic email when it does not already contain '@'.
type Collaborator struct {
	BaseModel
	Login            string             `json:"login" gorm:"size:100;not null;uniqueIndex"`
	Email            string             `json:"email" gorm:"size:255;uniqueIndex"`
	PasswordHash     string             `json:"-" gorm:"size:255;not null"`
	Name             string             `json:"name" gorm:"size:255;not null"`
	Phone            string             `json:"phone" gorm:"size:20"`
	SystemAccess     AccessList         `json:"system_access" gorm:"type:json"`
	AdminPermissions SectionPermissions `json:"admin_permissions" gorm:"type:json"`
	ProfessionalID   *uint              `json:"professional_id"`
	RemunerationType string             `json:"remuneration_type" gorm:"size:50"`
	RemunerationRate float64            `json:"remuneration_rate" gorm:"default:0"`
	Active           bool               `json:"active" gorm:"default:true"`
	Avatar           string             `json:"avatar" gorm:"size:500"`

	// Relationships
	Professional *Professional `json:"professional,omitempty" gorm:"foreignKey:ProfessionalID"`
}

// FinancialSettings is a singleton document holding the transaction category
// lists and the credit cost of one class-hour. Credits are prepaid class-hours,
// so the cost defaults to 1 and is independent of any monetary rate.
type FinancialSettings struct {
	BaseModel
	IncomeCategories    StringList `json:"income_categories" gorm:"type:json"`
	ExpenseCategories   StringList `json:"expense_categories" gorm:"type:json"`
	CreditsPerClassHour float64    `json:"credits_per_class_hour" gorm:"default:1"`
}

// Notification model
type Notification struct {
	BaseModel
	CollaboratorID uint       `json:"collaborator_id" gorm:"not null;index"`
	Title          string     `json:"title" gorm:"size:255;not null"`
	Message        string     `json:"message" gorm:"type:text;not null"`
	Type           string     `json:"type" gorm:"size:50;not null;type:enum('info','warning','error','success')"` // info, warning, error, success
	Read           bool       `json:"read" gorm:"default:false"`
	ReadAt         *time.Time `json:"read_at"`
	Data           JSON       `json:"data,omitempty" gorm:"type:json"`

	// Relationships
	Collaborator Collaborator `json:"collaborator,omitempty" gorm:"foreignKey:CollaboratorID"`
}

// ActivityLog model for activity tracking
type ActivityLog struct {
	BaseModel
	CollaboratorID uint   `json:"collaborator_id"`
	Action         string `json:"action" gorm:"size:100;not null"`
	Resource       string `json:"resource" gorm:"size:100;not null"`
	ResourceID     uint   `json:"resource_id"`
	Details        JSON   `json:"details" gorm:"type:json"`
	IPAddress      string `json:"ip_address" gorm:"size:45"`
	UserAgent      string `json:"user_agent" gorm:"size:500"`

	// Relationships
	Collaborator Collaborator `json:"collaborator,omitempty" gorm:"foreignKey:CollaboratorID"`
}

// LogArchive model for tracking archived logs
type LogArchive struct {
	BaseModel
	FileName    string    `json:"file_name" gorm:"size:255;not null"`
	S3Key       string    `json:"s3_key" gorm:"size:500;not null"`
	StartDate   time.Time `json:"start_date" gorm:"not null"`
	EndDate     time.Time `json:"end_date" gorm:"not null"`
	RecordCount int       `json:"record_count" gorm:"not null"`
	FileSize    int64     `json:"file_size" gorm:"not null"`
	Status      string    `json:"status" gorm:"size:50;not null;default:'pending';type:enum('pending','completed','failed')"` // pending, completed, failed
	Error       string    `json:"error" gorm:"type:text"`
}
