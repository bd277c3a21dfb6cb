package model

import "time"

// DefaultColor is used when an event is saved without a color.
const DefaultColor = "#3788d8"

type Event struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	AllDay      bool      `json:"all_day"`
	Color       string    `json:"color"`
}

// EventInput carries the writable fields of an event plus its participant names.
// Participants may contain blank entries; the store drops them.
type EventInput struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	Participants []string  `json:"participants"`
	AllDay       bool      `json:"all_day"`
	Color        string    `json:"color"`
}

// EventDetail is an event with its participant names in insertion order.
type EventDetail struct {
	Event
	Participants []string `json:"participants"`
}

// EventSummary is an event with its participant names joined by ", ".
type EventSummary struct {
	Event
	Participants string `json:"participants"`
}
