package domain

import "time"

// CalendarSource tells which collection a calendar item came from
type CalendarSource string

const (
	CalendarSourceProject CalendarSource = "project"
	CalendarSourceEvent   CalendarSource = "event"
)

// Defaults applied when stored documents leave fields blank
const (
	DefaultEventTitle         = "Sin título"
	DefaultProjectDescription = "Proyecto"
	ProjectItemIDPrefix       = "proyecto-"
)

// CalendarItem is one entry of the merged calendar
type CalendarItem struct {
	ID          string
	Title       string
	Start       time.Time
	End         time.Time
	AllDay      bool
	Type        EventType
	Status      ProjectStatus
	Description string
	Source      CalendarSource
	SourceID    string
	ClientID    string
	Style       CalendarStyle
}

// SpanDays is the number of days the item covers
func (i CalendarItem) SpanDays() int {
	return DaysBetween(i.Start, i.End)
}

// CalendarStyle is the presentation of a calendar item
type CalendarStyle struct {
	BackgroundColor string  `json:"backgroundColor"`
	BorderColor     string  `json:"borderColor"`
	BorderLeftWidth int     `json:"borderLeftWidth"`
	BorderLeftColor string  `json:"borderLeftColor,omitempty"`
	Opacity         float64 `json:"opacity"`
	Bold            bool    `json:"bold"`
	StrikeThrough   bool    `json:"strikeThrough"`
}

type palette struct {
	background string
	border     string
}

var typePalette = map[EventType]palette{
	EventTypeMeeting:  {"#4caf50", "#3d8b40"},
	EventTypeTask:     {"#ff9800", "#cc7a00"},
	EventTypeReminder: {"#f44336", "#d32f2f"},
	EventTypeProject:  {"#9c27b0", "#7b1fa2"},
}

var basePalette = palette{"#3174ad", "#1e5a8a"}

// StyleFor looks up the style of an item from its type and status.
// Projects spanning more than one day get a heavier left border.
func StyleFor(eventType EventType, status ProjectStatus, spanDays int) CalendarStyle {
	p, ok := typePalette[eventType]
	if !ok {
		p = basePalette
	}

	style := CalendarStyle{
		BackgroundColor: p.background,
		BorderColor:     p.border,
		BorderLeftWidth: 4,
		Opacity:         1,
	}

	if eventType == EventTypeProject {
		style.Bold = true
		if spanDays > 1 {
			style.BorderLeftWidth = 8
			style.BorderLeftColor = "#4a148c"
		}
	}

	switch status {
	case ProjectStatusCompleted:
		style.BackgroundColor = "#757575"
		style.BorderColor = "#616161"
		style.Opacity = 0.7
	case ProjectStatusCancelled:
		style.BackgroundColor = "#f44336"
		style.BorderColor = "#d32f2f"
		style.Opacity = 0.6
		style.StrikeThrough = true
	}

	return style
}
