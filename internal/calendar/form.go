package calendar

import (
	"time"

	"calendar-manager/internal/model"
	"calendar-manager/internal/store"
)

const (
	formDateLayout = "2006-01-02"
	formTimeLayout = "15:04"
)

// FormSubmission holds the add/edit form fields as the browser sends them:
// dates and times come from separate inputs.
type FormSubmission struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Participants []string `json:"participants"`
	StartDate    string   `json:"start_date"`
	StartTime    string   `json:"start_time"`
	EndDate      string   `json:"end_date"`
	EndTime      string   `json:"end_time"`
	AllDay       bool     `json:"all_day"`
	Color        string   `json:"color"`
}

// Input combines the date and time fields in loc and checks the range.
func (f FormSubmission) Input(loc *time.Location) (model.EventInput, error) {
	start, err := combine(f.StartDate, f.StartTime, loc)
	if err != nil {
		return model.EventInput{}, &store.ValidationError{Field: "start", Message: "invalid start date or time"}
	}
	end, err := combine(f.EndDate, f.EndTime, loc)
	if err != nil {
		return model.EventInput{}, &store.ValidationError{Field: "end", Message: "invalid end date or time"}
	}
	if err := ValidateTimeRange(start, end); err != nil {
		return model.EventInput{}, err
	}

	return model.EventInput{
		Title:        f.Title,
		Description:  f.Description,
		Start:        start,
		End:          end,
		Participants: f.Participants,
		AllDay:       f.AllDay,
		Color:        f.Color,
	}, nil
}

// FormFromDetail prefills the edit form with a stored event.
func FormFromDetail(d *model.EventDetail) FormSubmission {
	return FormSubmission{
		Title:        d.Title,
		Description:  d.Description,
		Participants: append([]string(nil), d.Participants...),
		StartDate:    d.Start.Format(formDateLayout),
		StartTime:    d.Start.Format(formTimeLayout),
		EndDate:      d.End.Format(formDateLayout),
		EndTime:      d.End.Format(formTimeLayout),
		AllDay:       d.AllDay,
		Color:        d.Color,
	}
}

// combine parses date (YYYY-MM-DD) and clock (HH:MM or HH:MM:SS, empty means
// midnight) as a wall time in loc.
func combine(date, clock string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(formDateLayout, date, loc)
	if err != nil {
		return time.Time{}, err
	}
	if clock == "" {
		return d, nil
	}
	c, err := time.Parse(formTimeLayout, clock)
	if err != nil {
		if c, err = time.Parse(formTimeLayout+":05", clock); err != nil {
			return time.Time{}, err
		}
	}
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), c.Second(), 0, loc), nil
}
