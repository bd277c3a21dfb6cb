package handler

import (
	"time"

	"calendar-manager/internal/calendar"
	"calendar-manager/internal/model"
)

type AddEventRequest struct {
	model.EventInput
}

type AddEventResponse struct {
	ID int64 `json:"id"`
}

type UpdateEventRequest struct {
	ID int64 `json:"id"`
	model.EventInput
}

type UpdateEventResponse struct {
	Event *model.EventDetail `json:"event"`
}

type DeleteEventRequest struct {
	ID int64 `json:"id"`
}

type DeleteEventResponse struct{}

type GetEventRequest struct {
	ID int64 `json:"id"`
}

type GetEventResponse struct {
	Event *model.EventDetail `json:"event"`
}

type ListEventsRequest struct{}

type ListEventsResponse struct {
	Events []model.EventSummary `json:"events"`
}

type CalendarEventsRequest struct{}

type CalendarEventsResponse struct {
	Events []calendar.CalendarEvent `json:"events"`
}

type LoginRequest struct {
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
