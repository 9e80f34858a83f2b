package model

import "github.com/google/uuid"

// Appointment lifecycle events published after a successful write.
const (
	EventAppointmentCreated = "AppointmentCreated"
	EventAppointmentUpdated = "AppointmentUpdated"
	EventAppointmentDeleted = "AppointmentDeleted"
)

// AppointmentDeletedEvent is the payload of EventAppointmentDeleted.
type AppointmentDeletedEvent struct {
	ID uuid.UUID `json:"id"`
}
