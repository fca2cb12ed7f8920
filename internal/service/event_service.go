package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/julesapp/crm-api/internal/domain"
	"github.com/julesapp/crm-api/internal/mapper"
	"github.com/julesapp/crm-api/internal/repository"
	"go.uber.org/zap"
)

// EventService manages user-created calendar events
type EventService struct {
	eventRepo *repository.OwnedRepository[domain.CalendarEvent, *domain.CalendarEvent]
	activity  *ActivityService
	logger    *zap.Logger
}

func NewEventService(
	eventRepo *repository.OwnedRepository[domain.CalendarEvent, *domain.CalendarEvent],
	activity *ActivityService,
	logger *zap.Logger,
) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		activity:  activity,
		logger:    logger,
	}
}

func normalizeEventRequest(req *domain.CalendarEventRequest) (*domain.CalendarEvent, error) {
	if !req.Start.Valid {
		return nil, invalid("start", "This field is required")
	}
	end := req.End
	if !end.Valid {
		end = req.Start
	}
	if end.Time.Before(req.Start.Time) {
		return nil, invalid("end", "End cannot be before the start")
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = domain.DefaultEventTitle
	}
	eventType := req.Type
	if eventType == "" {
		eventType = domain.EventTypeGeneral
	}

	return &domain.CalendarEvent{
		Title:       title,
		Start:       req.Start,
		End:         end,
		AllDay:      req.AllDay,
		Description: req.Description,
		ProjectID:   req.ProjectID,
		Type:        domain.ParseEventType(string(eventType)),
	}, nil
}

func (s *EventService) List(ctx context.Context) ([]domain.CalendarEventDTO, error) {
	events, err := s.eventRepo.ListNewest(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return mapper.ToCalendarEventDTOs(events), nil
}

func (s *EventService) GetByID(ctx context.Context, id string) (*domain.CalendarEventDTO, error) {
	event, err := s.eventRepo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	dto := mapper.ToCalendarEventDTO(event)
	return &dto, nil
}

func (s *EventService) Create(ctx context.Context, req *domain.CalendarEventRequest) (*domain.CalendarEventDTO, error) {
	event, err := normalizeEventRequest(req)
	if err != nil {
		return nil, err
	}

	created, err := s.eventRepo.Create(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.activity.Log(ctx, domain.ActionEventCreated, map[string]interface{}{
		"eventoId": created.ID,
		"titulo":   created.Title,
	})

	dto := mapper.ToCalendarEventDTO(created)
	return &dto, nil
}

func (s *EventService) Update(ctx context.Context, id string, req *domain.CalendarEventRequest) (*domain.CalendarEventDTO, error) {
	event, err := normalizeEventRequest(req)
	if err != nil {
		return nil, err
	}

	updated, err := s.eventRepo.Update(ctx, id, event.Fields())
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	dto := mapper.ToCalendarEventDTO(updated)
	return &dto, nil
}

func (s *EventService) Delete(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}

	deleted, err := s.eventRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	s.activity.Log(ctx, domain.ActionEventDeleted, map[string]interface{}{
		"eventoId": deleted.ID,
		"titulo":   deleted.Title,
	})
	return nil
}
