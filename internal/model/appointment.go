package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "SCHEDULED"
	AppointmentStatusCompleted AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

type Appointment struct {
	ID          uuid.UUID         `db:"id" json:"id"`
	PatientName string            `db:"patient_name" json:"patientName"`
	DoctorName  string            `db:"doctor_name" json:"doctorName"`
	Date        time.Time         `db:"appointment_date" json:"date"`
	Status      AppointmentStatus `db:"status" json:"status"`
	Notes       *string           `db:"notes" json:"notes,omitempty"`
	CreatedBy   *string           `db:"created_by" json:"createdBy,omitempty"`
	CreatedAt   time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt   *time.Time        `db:"updated_at" json:"updatedAt,omitempty"`
}

type CreateAppointmentInput struct {
	PatientName string
	DoctorName  string
	Date        time.Time
	Status      AppointmentStatus
	Notes       *string
	CreatedBy   *string
}

// UpdateAppointmentInput carries only the fields to change; nil means untouched.
type UpdateAppointmentInput struct {
	PatientName *string
	DoctorName  *string
	Date        *time.Time
	Status      *AppointmentStatus
	Notes       *string
}

type CreateAppointmentRequest struct {
	PatientName string  `json:"patientName" binding:"required"`
	DoctorName  string  `json:"doctorName" binding:"required"`
	Date        string  `json:"date" binding:"required"`
	Status      string  `json:"status"`
	Notes       *string `json:"notes"`
}

func (r CreateAppointmentRequest) ToInput() (CreateAppointmentInput, error) {
	date, err := ParseAppointmentDate(r.Date)
	if err != nil {
		return CreateAppointmentInput{}, err
	}
	return CreateAppointmentInput{
		PatientName: r.PatientName,
		DoctorName:  r.DoctorName,
		Date:        date,
		Status:      AppointmentStatus(r.Status),
		Notes:       r.Notes,
	}, nil
}

type UpdateAppointmentRequest struct {
	PatientName *string `json:"patientName" binding:"omitempty,min=1"`
	DoctorName  *string `json:"doctorName" binding:"omitempty,min=1"`
	Date        *string `json:"date"`
	Status      *string `json:"status" binding:"omitempty,oneof=SCHEDULED COMPLETED CANCELLED"`
	Notes       *string `json:"notes"`
}

func (r UpdateAppointmentRequest) ToInput() (UpdateAppointmentInput, error) {
	in := UpdateAppointmentInput{
		PatientName: r.PatientName,
		DoctorName:  r.DoctorName,
		Notes:       r.Notes,
	}
	if r.Date != nil {
		date, err := ParseAppointmentDate(*r.Date)
		if err != nil {
			return UpdateAppointmentInput{}, err
		}
		in.Date = &date
	}
	if r.Status != nil {
		status := AppointmentStatus(*r.Status)
		in.Status = &status
	}
	return in, nil
}

var appointmentDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseAppointmentDate accepts a full timestamp or a bare calendar date (UTC midnight).
func ParseAppointmentDate(value string) (time.Time, error) {
	for _, layout := range appointmentDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: expected RFC3339 or YYYY-MM-DD", value)
}
