package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/kiliniks-api/internal/model"
	"github.com/jwalitptl/kiliniks-api/internal/repository"
)

const appointmentColumns = `id, patient_name, doctor_name, appointment_date, status, notes,
	created_by, created_at, updated_at`

type appointmentRepository struct {
	BaseRepository
}

func NewAppointmentRepository(db *sqlx.DB, opts ...Option) repository.AppointmentRepository {
	return &appointmentRepository{BaseRepository: NewBaseRepository(db, opts...)}
}

func (r *appointmentRepository) Create(ctx context.Context, input model.CreateAppointmentInput) (*model.Appointment, error) {
	start := time.Now()
	query := `
		INSERT INTO appointments (id, patient_name, doctor_name, appointment_date, status, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + appointmentColumns

	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query,
		r.newID(),
		input.PatientName,
		input.DoctorName,
		input.Date,
		input.Status,
		input.Notes,
		input.CreatedBy,
	)
	r.observe("appointment.create", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", classify(err))
	}
	return &appointment, nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	start := time.Now()
	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, `SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		r.observe("appointment.get", start, nil)
		return nil, nil
	}
	r.observe("appointment.get", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

// Update with no fields set still refreshes updated_at.
func (r *appointmentRepository) Update(ctx context.Context, id uuid.UUID, input model.UpdateAppointmentInput) (*model.Appointment, error) {
	start := time.Now()
	var b updateBuilder
	if input.PatientName != nil {
		b.set("patient_name", *input.PatientName)
	}
	if input.DoctorName != nil {
		b.set("doctor_name", *input.DoctorName)
	}
	if input.Date != nil {
		b.set("appointment_date", *input.Date)
	}
	if input.Status != nil {
		b.set("status", *input.Status)
	}
	if input.Notes != nil {
		b.set("notes", *input.Notes)
	}
	query, args := b.build("appointments", id, appointmentColumns)

	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		r.observe("appointment.update", start, nil)
		return nil, nil
	}
	r.observe("appointment.update", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", classify(err))
	}
	return &appointment, nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	start := time.Now()
	result, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	r.observe("appointment.delete", start, err)
	if err != nil {
		return false, fmt.Errorf("failed to delete appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *appointmentRepository) List(ctx context.Context) ([]*model.Appointment, error) {
	start := time.Now()
	appointments := []*model.Appointment{}
	err := r.db.SelectContext(ctx, &appointments,
		`SELECT `+appointmentColumns+` FROM appointments ORDER BY appointment_date ASC, id ASC`)
	r.observe("appointment.list", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}
