// Package calendar adapts stored events to the shape the calendar widget
// renders and decodes what the widget sends back.
package calendar

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"calendar-manager/internal/model"
	"calendar-manager/internal/store"
)

// widgetTimeLayout is the local ISO form the widget parses without a zone.
const widgetTimeLayout = "2006-01-02T15:04:05"

// displayTimeLayout is used in the detail panel and the delete list.
const displayTimeLayout = "2006-01-02 15:04"

// CalendarEvent is one record of the widget's event source.
type CalendarEvent struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Start           string `json:"start"`
	End             string `json:"end"`
	AllDay          bool   `json:"allDay"`
	BackgroundColor string `json:"backgroundColor"`
	Description     string `json:"description"`
}

func ToCalendarEvents(summaries []model.EventSummary) []CalendarEvent {
	out := make([]CalendarEvent, len(summaries))
	for i, s := range summaries {
		out[i] = CalendarEvent{
			ID:              strconv.FormatInt(s.ID, 10),
			Title:           DisplayTitle(s.Title, s.Participants),
			Start:           s.Start.Format(widgetTimeLayout),
			End:             s.End.Format(widgetTimeLayout),
			AllDay:          s.AllDay,
			BackgroundColor: s.Color,
			Description:     DisplayDescription(s.Description, s.Participants),
		}
	}
	return out
}

// DisplayTitle renders "title (participants)".
func DisplayTitle(title, participants string) string {
	return fmt.Sprintf("%s (%s)", title, participants)
}

func DisplayDescription(description, participants string) string {
	return fmt.Sprintf("%s\n\nParticipants: %s", description, participants)
}

func FormatDisplayTime(t time.Time) string {
	return t.Format(displayTimeLayout)
}

// ValidateTimeRange rejects a range that ends before it starts. Equal
// timestamps are allowed.
func ValidateTimeRange(start, end time.Time) error {
	if end.Before(start) {
		return &store.ValidationError{Field: "end", Message: "end time must not be before start time"}
	}
	return nil
}

// ListRow is an entry of the delete list, newest first.
type ListRow struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Participants string `json:"participants"`
	Start        string `json:"start"`
	End          string `json:"end"`
}

func ToListRows(summaries []model.EventSummary) []ListRow {
	sorted := slices.Clone(summaries)
	slices.SortStableFunc(sorted, func(a, b model.EventSummary) int {
		return b.Start.Compare(a.Start)
	})

	out := make([]ListRow, len(sorted))
	for i, s := range sorted {
		out[i] = ListRow{
			ID:           s.ID,
			Title:        s.Title,
			Participants: s.Participants,
			Start:        FormatDisplayTime(s.Start),
			End:          FormatDisplayTime(s.End),
		}
	}
	return out
}
