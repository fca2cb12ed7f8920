package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julesapp/crm-api/internal/domain"
	"github.com/julesapp/crm-api/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// CalendarWindow limits the calendar to items overlapping [From, To]. Zero bounds are open.
type CalendarWindow struct {
	From time.Time
	To   time.Time
}

func (w CalendarWindow) contains(item domain.CalendarItem) bool {
	if !w.From.IsZero() && item.End.Before(w.From) {
		return false
	}
	if !w.To.IsZero() && item.Start.After(w.To) {
		return false
	}
	return true
}

// CalendarService merges the user's projects and events into one styled timeline
type CalendarService struct {
	projectRepo *repository.OwnedRepository[domain.Project, *domain.Project]
	eventRepo   *repository.OwnedRepository[domain.CalendarEvent, *domain.CalendarEvent]
	logger      *zap.Logger
}

func NewCalendarService(
	projectRepo *repository.OwnedRepository[domain.Project, *domain.Project],
	eventRepo *repository.OwnedRepository[domain.CalendarEvent, *domain.CalendarEvent],
	logger *zap.Logger,
) *CalendarService {
	return &CalendarService{
		projectRepo: projectRepo,
		eventRepo:   eventRepo,
		logger:      logger,
	}
}

// Build loads projects and events concurrently and returns them as calendar items sorted
// by start. Records whose dates cannot be parsed are left out. If either source fails
// nothing is returned.
func (s *CalendarService) Build(ctx context.Context, window CalendarWindow) ([]domain.CalendarItem, error) {
	var (
		projects []domain.Project
		events   []domain.CalendarEvent
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		projects, err = s.projectRepo.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		events, err = s.eventRepo.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("failed to load calendar data", zap.Error(err))
		return nil, fmt.Errorf("failed to load calendar data: %w", err)
	}

	items := make([]domain.CalendarItem, 0, len(projects)+len(events))
	for i := range projects {
		if item, ok := s.projectItem(&projects[i]); ok {
			items = append(items, item)
		}
	}
	for i := range events {
		if item, ok := s.eventItem(&events[i]); ok {
			items = append(items, item)
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Start.Before(items[j].Start)
	})

	visible := items[:0]
	for _, item := range items {
		if window.contains(item) {
			item.Style = domain.StyleFor(item.Type, item.Status, item.SpanDays())
			visible = append(visible, item)
		}
	}
	return visible, nil
}

func (s *CalendarService) projectItem(p *domain.Project) (domain.CalendarItem, bool) {
	if !p.StartDate.Valid || !p.DeliveryDate.Valid {
		s.logger.Warn("skipping project with invalid dates",
			zap.String("project_id", p.ID),
			zap.String("start", p.StartDate.Raw),
			zap.String("delivery", p.DeliveryDate.Raw),
		)
		return domain.CalendarItem{}, false
	}

	description := p.Description
	if strings.TrimSpace(description) == "" {
		description = domain.DefaultProjectDescription
	}
	status := p.Status
	if status == "" {
		status = domain.ProjectStatusPending
	}

	return domain.CalendarItem{
		ID:          domain.ProjectItemIDPrefix + p.ID,
		Title:       p.Name,
		Start:       p.StartDate.Time,
		End:         p.DeliveryDate.Time,
		AllDay:      true,
		Type:        domain.EventTypeProject,
		Status:      status,
		Description: description,
		Source:      domain.CalendarSourceProject,
		SourceID:    p.ID,
		ClientID:    p.ClientID,
	}, true
}

func (s *CalendarService) eventItem(e *domain.CalendarEvent) (domain.CalendarItem, bool) {
	if !e.Start.Valid || !e.End.Valid {
		s.logger.Warn("skipping event with invalid dates",
			zap.String("event_id", e.ID),
			zap.String("start", e.Start.Raw),
			zap.String("end", e.End.Raw),
		)
		return domain.CalendarItem{}, false
	}

	title := e.Title
	if strings.TrimSpace(title) == "" {
		title = domain.DefaultEventTitle
	}
	eventType := e.Type
	if eventType == "" {
		eventType = domain.EventTypeGeneral
	}

	return domain.CalendarItem{
		ID:          e.ID,
		Title:       title,
		Start:       e.Start.Time,
		End:         e.End.Time,
		AllDay:      e.AllDay,
		Type:        eventType,
		Description: e.Description,
		Source:      domain.CalendarSourceEvent,
		SourceID:    e.ID,
	}, true
}
