package calendar

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ClickPayload is what the widget reports when an event is clicked:
// {"eventClick": {"event": {"id": "5"}}}. Every level is optional.
type ClickPayload struct {
	EventClick *EventClick `json:"eventClick,omitempty"`
}

type EventClick struct {
	Event *ClickedEvent `json:"event,omitempty"`
}

type ClickedEvent struct {
	ID string `json:"id"`
}

// ParseClickPayload decodes a raw widget payload. Unknown fields are ignored.
func ParseClickPayload(raw []byte) (ClickPayload, error) {
	var p ClickPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return ClickPayload{}, err
	}
	return p, nil
}

// OnSelect extracts the clicked event id. ok is false when the payload has no
// id or the id is not a positive integer; callers treat that as a no-op.
func OnSelect(p ClickPayload) (id int64, ok bool) {
	if p.EventClick == nil || p.EventClick.Event == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimSpace(p.EventClick.Event.ID), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
