package utils

import (
	"time"

	"oficinadoaluno_go/models"
)

// Compact representations used across APIs
type StudentShort struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status,omitempty"`
}

type ProfessionalShort struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type CollaboratorShort struct {
	ID    uint   `json:"id"`
	Name  string `json:"name,omitempty"`
	Login string `json:"login,omitempty"`
}

type NotificationDTO struct {
	ID             uint              `json:"id"`
	CreatedAt      time.Time         `json:"created_at"`
	CollaboratorID uint              `json:"collaborator_id"`
	Title          string            `json:"title"`
	Message        string            `json:"message"`
	Type           string            `json:"type"`
	Read           bool              `json:"read"`
	ReadAt         *time.Time        `json:"read_at,omitempty"`
	Collaborator   CollaboratorShort `json:"collaborator"`
}

// Screens may render before every related row has arrived; a missing lookup
// shows "N/A" instead of failing.
const MissingLabel = "N/A"

// ToStudentShort maps a student lookup that may have missed.
func ToStudentShort(s *models.Student) StudentShort {
	if s == nil || s.ID == 0 {
		return StudentShort{Name: MissingLabel}
	}
	return StudentShort{ID: s.ID, Name: s.Name, Status: s.Status}
}

// ToProfessionalShort maps a professional lookup that may have missed.
func ToProfessionalShort(p *models.Professional) ProfessionalShort {
	if p == nil || p.ID == 0 {
		return ProfessionalShort{Name: MissingLabel}
	}
	return ProfessionalShort{ID: p.ID, Name: p.Name}
}

// ToNotificationDTO maps a models.Notification to the compact DTO.
// Assumes the caller preloaded Collaborator when possible.
func ToNotificationDTO(n models.Notification) NotificationDTO {
	dto := NotificationDTO{
		ID:             n.ID,
		CreatedAt:      n.CreatedAt,
		CollaboratorID: n.CollaboratorID,
		Title:          n.Title,
		Message:        n.Message,
		Type:           n.Type,
		Read:           n.Read,
		ReadAt:         n.ReadAt,
	}
	if n.Collaborator.ID != 0 {
		dto.Collaborator = CollaboratorShort{ID: n.Collaborator.ID, Name: n.Collaborator.Name, Login: n.Collaborator.Login}
	} else {
		dto.Collaborator = CollaboratorShort{ID: n.CollaboratorID, Name: MissingLabel}
	}
	return dto
}
