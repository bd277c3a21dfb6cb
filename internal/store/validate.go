package store

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"calendar-manager/internal/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report json names so messages match what the UI submitted
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// rules mirrors model.EventInput with the constraints applied after normalization.
type rules struct {
	Title        string   `json:"title" validate:"required"`
	Participants []string `json:"participants" validate:"required,min=1"`
	Color        string   `json:"color" validate:"hexcolor"`
}

var messages = map[string]string{
	"title":        "event title is required",
	"participants": "at least one participant is required",
	"color":        "color must be a hex value such as #3788d8",
}

// normalize trims the title and participant names, drops blank ones, applies the default
// color and validates the result.
func normalize(in model.EventInput) (model.EventInput, error) {
	out := in
	out.Title = strings.TrimSpace(in.Title)
	out.Participants = cleanParticipants(in.Participants)
	if out.Color == "" {
		out.Color = model.DefaultColor
	}

	if err := validate.Struct(rules{
		Title:        out.Title,
		Participants: out.Participants,
		Color:        out.Color,
	}); err != nil {
		return out, toValidationError(err)
	}
	if out.End.Before(out.Start) {
		return out, &ValidationError{Field: "end", Message: "end time must not be before start time"}
	}
	return out, nil
}

func cleanParticipants(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func toValidationError(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return &ValidationError{Message: err.Error()}
	}
	fe := ve[0]
	msg, ok := messages[fe.Field()]
	if !ok {
		msg = fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag())
	}
	return &ValidationError{Field: fe.Field(), Message: msg}
}
