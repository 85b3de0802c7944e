package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yoockh/placementcell/internal/models"
	mongorepo "github.com/yoockh/placementcell/internal/repositories/mongo"
	"github.com/yoockh/placementcell/internal/utils"
)

const DefaultUpcomingEvents = 10

type EventInput struct {
	Title       string
	Description string
	EventDate   time.Time
	Venue       string
	Type        models.EventType
	IsActive    *bool // defaults to true
}

type EventPatch struct {
	Title       *string
	Description *string
	EventDate   *time.Time
	Venue       *string
	Type        *models.EventType
	IsActive    *bool
}

type EventService interface {
	Create(ctx context.Context, in EventInput) (*models.Event, error)
	Update(ctx context.Context, eventID string, p EventPatch) (*models.Event, error)
	Delete(ctx context.Context, eventID string) error
	List(ctx context.Context, limit int64) ([]models.Event, error)
	Upcoming(ctx context.Context, limit int64) ([]models.Event, error)
}

type eventService struct {
	repo  mongorepo.EventRepository
	clock Clock
}

func NewEventService(repo mongorepo.EventRepository, clock Clock) EventService {
	return &eventService{repo: repo, clock: clock}
}

func validateEvent(op string, e *models.Event) error {
	fields := map[string]string{}
	if e.Title == "" {
		fields["title"] = "title is required"
	}
	if e.EventDate.IsZero() {
		fields["eventDate"] = "eventDate is required"
	}
	if !e.Type.Valid() {
		fields["type"] = "unknown event type"
	}
	if len(fields) > 0 {
		return utils.Invalid(op, "invalid event", fields)
	}
	return nil
}

func (s *eventService) Create(ctx context.Context, in EventInput) (*models.Event, error) {
	const op = "EventService.Create"

	typ := in.Type
	if typ == "" {
		typ = models.EventOther
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	now := s.clock.Now()
	e := &models.Event{
		EventID:     uuid.NewString(),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		EventDate:   in.EventDate.UTC(),
		Venue:       strings.TrimSpace(in.Venue),
		Type:        typ,
		IsActive:    active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := validateEvent(op, e); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create event", err)
	}
	return e, nil
}

func (s *eventService) Update(ctx context.Context, eventID string, p EventPatch) (*models.Event, error) {
	const op = "EventService.Update"

	e, err := s.repo.GetByEventID(ctx, eventID)
	if err != nil {
		return nil, repoErr(op, err, "event not found")
	}
	if p.Title != nil {
		e.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.EventDate != nil {
		e.EventDate = p.EventDate.UTC()
	}
	if p.Venue != nil {
		e.Venue = strings.TrimSpace(*p.Venue)
	}
	if p.Type != nil {
		e.Type = *p.Type
	}
	if p.IsActive != nil {
		e.IsActive = *p.IsActive
	}
	if err := validateEvent(op, e); err != nil {
		return nil, err
	}
	e.UpdatedAt = s.clock.Now()
	if err := s.repo.Replace(ctx, e); err != nil {
		return nil, repoErr(op, err, "event not found")
	}
	return e, nil
}

func (s *eventService) Delete(ctx context.Context, eventID string) error {
	const op = "EventService.Delete"

	if err := s.repo.Delete(ctx, eventID); err != nil {
		return repoErr(op, err, "event not found")
	}
	return nil
}

func (s *eventService) List(ctx context.Context, limit int64) ([]models.Event, error) {
	const op = "EventService.List"

	out, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list events", err)
	}
	return out, nil
}

func (s *eventService) Upcoming(ctx context.Context, limit int64) ([]models.Event, error) {
	const op = "EventService.Upcoming"

	if limit <= 0 {
		limit = DefaultUpcomingEvents
	}
	out, err := s.repo.Upcoming(ctx, s.clock.Now(), limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list events", err)
	}
	return out, nil
}
