package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/julesapp/crm-api/internal/domain"
	"github.com/julesapp/crm-api/internal/repository"
	"github.com/julesapp/crm-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCalendarService_BuildMergesAndSorts(t *testing.T) {
	f := newFixture(t)
	svc := service.NewCalendarService(f.repos.Projects, f.repos.Events, zap.NewNop())

	project, err := f.repos.Projects.Create(f.ctx, &domain.Project{
		Name:         "Web",
		StartDate:    mustDate(t, "2024-03-01"),
		DeliveryDate: mustDate(t, "2024-03-10"),
		ClientID:     "client-1",
	})
	require.NoError(t, err)

	_, err = f.repos.Events.Create(f.ctx, &domain.CalendarEvent{
		Start: mustDate(t, "2024-02-15"),
		End:   mustDate(t, "2024-02-15"),
		Type:  domain.EventTypeMeeting,
	})
	require.NoError(t, err)

	// neither of these can be placed on the calendar
	_, err = f.repos.Events.Create(f.ctx, &domain.CalendarEvent{
		Title: "Broken",
		Start: domain.DateValue{Raw: "next tuesday"},
		End:   mustDate(t, "2024-02-20"),
	})
	require.NoError(t, err)
	_, err = f.repos.Projects.Create(f.ctx, &domain.Project{Name: "Undated"})
	require.NoError(t, err)

	items, err := svc.Build(f.ctx, service.CalendarWindow{})
	require.NoError(t, err)
	require.Len(t, items, 2)

	meeting := items[0]
	assert.Equal(t, domain.DefaultEventTitle, meeting.Title)
	assert.Equal(t, domain.CalendarSourceEvent, meeting.Source)
	assert.Equal(t, "#4caf50", meeting.Style.BackgroundColor)

	web := items[1]
	assert.Equal(t, domain.ProjectItemIDPrefix+project.ID, web.ID)
	assert.Equal(t, project.ID, web.SourceID)
	assert.True(t, web.AllDay)
	assert.Equal(t, domain.EventTypeProject, web.Type)
	assert.Equal(t, domain.ProjectStatusPending, web.Status)
	assert.Equal(t, domain.DefaultProjectDescription, web.Description)
	assert.Equal(t, "client-1", web.ClientID)
	assert.True(t, web.Style.Bold)
	assert.Equal(t, 8, web.Style.BorderLeftWidth)
}

func TestCalendarService_Window(t *testing.T) {
	f := newFixture(t)
	svc := service.NewCalendarService(f.repos.Projects, f.repos.Events, zap.NewNop())

	for _, day := range []string{"2024-01-10", "2024-02-10", "2024-03-10"} {
		_, err := f.repos.Events.Create(f.ctx, &domain.CalendarEvent{
			Title: day,
			Start: mustDate(t, day),
			End:   mustDate(t, day),
		})
		require.NoError(t, err)
	}

	items, err := svc.Build(f.ctx, service.CalendarWindow{
		From: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "2024-02-10", items[0].Title)
}

func TestCalendarService_SourceFailureReturnsNothing(t *testing.T) {
	f := newFixture(t)
	broken := brokenStore[domain.CalendarEvent]{coll: repository.EventsCollection, err: errors.New("unavailable")}
	events := repository.NewOwnedRepository[domain.CalendarEvent](broken, zap.NewNop())
	svc := service.NewCalendarService(f.repos.Projects, events, zap.NewNop())

	_, err := f.repos.Projects.Create(f.ctx, &domain.Project{
		Name:         "Web",
		StartDate:    mustDate(t, "2024-03-01"),
		DeliveryDate: mustDate(t, "2024-03-10"),
	})
	require.NoError(t, err)

	items, err := svc.Build(f.ctx, service.CalendarWindow{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load calendar data")
	assert.Nil(t, items)
}
