package calendar

import (
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"

	"calendar-manager/internal/model"
)

const icsProductID = "-//calendar-manager//EN"

// WriteICS encodes the events as an iCalendar document. Timed events are
// written in UTC; all-day events use DATE values with an exclusive end date.
func WriteICS(w io.Writer, events []model.EventSummary, now time.Time) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, icsProductID)

	for _, e := range events {
		ve := ical.NewComponent(ical.CompEvent)
		ve.Props.SetText(ical.PropUID, fmt.Sprintf("event-%d@calendar-manager", e.ID))
		ve.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())
		ve.Props.SetText(ical.PropSummary, DisplayTitle(e.Title, e.Participants))
		ve.Props.SetText(ical.PropDescription, DisplayDescription(e.Description, e.Participants))
		if e.AllDay {
			ve.Props.SetDate(ical.PropDateTimeStart, e.Start)
			ve.Props.SetDate(ical.PropDateTimeEnd, e.End.AddDate(0, 0, 1))
		} else {
			ve.Props.SetDateTime(ical.PropDateTimeStart, e.Start.UTC())
			ve.Props.SetDateTime(ical.PropDateTimeEnd, e.End.UTC())
		}
		cal.Children = append(cal.Children, ve)
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}
