package appointment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/kiliniks-api/internal/model"
	"github.com/jwalitptl/kiliniks-api/internal/repository"
	apperrors "github.com/jwalitptl/kiliniks-api/pkg/errors"
	"github.com/jwalitptl/kiliniks-api/pkg/logger"
	"github.com/jwalitptl/kiliniks-api/pkg/messaging"
	"github.com/jwalitptl/kiliniks-api/pkg/metrics"
)

const DefaultPublishTimeout = 2 * time.Second

type Service struct {
	repo           repository.AppointmentRepository
	publisher      messaging.Publisher
	logger         *logger.Logger
	metrics        *metrics.Metrics
	publishTimeout time.Duration

	inflight sync.WaitGroup
}

func NewService(repo repository.AppointmentRepository, publisher messaging.Publisher, log *logger.Logger, m *metrics.Metrics, publishTimeout time.Duration) *Service {
	if log == nil {
		log = logger.Nop()
	}
	if publishTimeout <= 0 {
		publishTimeout = DefaultPublishTimeout
	}
	return &Service{
		repo:           repo,
		publisher:      publisher,
		logger:         log,
		metrics:        m,
		publishTimeout: publishTimeout,
	}
}

// CreateAppointment always stores the appointment as SCHEDULED, whatever
// status the caller asked for.
func (s *Service) CreateAppointment(ctx context.Context, input model.CreateAppointmentInput) (*model.Appointment, error) {
	input.Status = model.AppointmentStatusScheduled

	apt, err := s.repo.Create(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	s.publish(ctx, model.EventAppointmentCreated, apt)
	return apt, nil
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	if apt == nil {
		return nil, apperrors.NotFound("appointment", nil)
	}
	return apt, nil
}

func (s *Service) UpdateAppointment(ctx context.Context, id uuid.UUID, input model.UpdateAppointmentInput) (*model.Appointment, error) {
	if input.Status != nil && !input.Status.Valid() {
		return nil, apperrors.BadRequest(fmt.Sprintf("invalid status %q", *input.Status), nil)
	}

	apt, err := s.repo.Update(ctx, id, input)
	if err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}
	if apt == nil {
		return nil, apperrors.NotFound("appointment", nil)
	}

	s.publish(ctx, model.EventAppointmentUpdated, apt)
	return apt, nil
}

func (s *Service) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	if !deleted {
		return apperrors.NotFound("appointment", nil)
	}

	s.publish(ctx, model.EventAppointmentDeleted, model.AppointmentDeletedEvent{ID: id})
	return nil
}

func (s *Service) ListAppointments(ctx context.Context) ([]*model.Appointment, error) {
	apts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return apts, nil
}

// publish is best effort and runs in the background so the caller never
// waits on the bus. Each attempt is bounded by the publish timeout, survives
// the request being cancelled, and only logs and counts failures.
func (s *Service) publish(ctx context.Context, event string, payload interface{}) {
	if s.publisher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		defer cancel()

		if err := s.publisher.Publish(ctx, event, payload); err != nil {
			s.metrics.EventFailed(event)
			s.logger.WithContext(ctx).Warn(err, "failed to publish event", "event", event)
			return
		}
		s.metrics.EventPublished(event)
	}()
}

// Wait blocks until every publish started so far has finished.
func (s *Service) Wait() {
	s.inflight.Wait()
}
