package handler

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"calendar-manager/internal/calendar"
)

func (h *Handler) AddEvent(ctx context.Context, req *AddEventRequest) (*AddEventResponse, error) {
	if err := calendar.ValidateTimeRange(req.Start, req.End); err != nil {
		return nil, h.toStatus("add event", err)
	}

	id, err := h.store.AddEvent(ctx, req.EventInput)
	if err != nil {
		return nil, h.toStatus("add event", err)
	}

	h.log.Info().Int64("event_id", id).Str("title", req.Title).Msg("event created")
	return &AddEventResponse{ID: id}, nil
}

func (h *Handler) UpdateEvent(ctx context.Context, req *UpdateEventRequest) (*UpdateEventResponse, error) {
	if req.ID <= 0 {
		return nil, status.Error(codes.InvalidArgument, "id required")
	}
	if err := calendar.ValidateTimeRange(req.Start, req.End); err != nil {
		return nil, h.toStatus("update event", err)
	}

	if err := h.store.UpdateEvent(ctx, req.ID, req.EventInput); err != nil {
		return nil, h.toStatus("update event", err)
	}

	// read back so the caller sees normalized participants and color
	d, err := h.store.GetEvent(ctx, req.ID)
	if err != nil {
		return nil, h.toStatus("update event", err)
	}

	h.log.Info().Int64("event_id", req.ID).Msg("event updated")
	return &UpdateEventResponse{Event: d}, nil
}

// DeleteEvent succeeds for ids that do not exist.
func (h *Handler) DeleteEvent(ctx context.Context, req *DeleteEventRequest) (*DeleteEventResponse, error) {
	if req.ID <= 0 {
		return nil, status.Error(codes.InvalidArgument, "id required")
	}

	if err := h.store.DeleteEvent(ctx, req.ID); err != nil {
		return nil, h.toStatus("delete event", err)
	}

	h.log.Info().Int64("event_id", req.ID).Msg("event deleted")
	return &DeleteEventResponse{}, nil
}

func (h *Handler) GetEvent(ctx context.Context, req *GetEventRequest) (*GetEventResponse, error) {
	if req.ID <= 0 {
		return nil, status.Error(codes.InvalidArgument, "id required")
	}

	d, err := h.store.GetEvent(ctx, req.ID)
	if err != nil {
		return nil, h.toStatus("get event", err)
	}
	return &GetEventResponse{Event: d}, nil
}

func (h *Handler) ListEvents(ctx context.Context, _ *ListEventsRequest) (*ListEventsResponse, error) {
	list, err := h.store.ListEvents(ctx)
	if err != nil {
		return nil, h.toStatus("list events", err)
	}
	return &ListEventsResponse{Events: list}, nil
}

// CalendarEvents returns every event in the shape the calendar widget renders.
func (h *Handler) CalendarEvents(ctx context.Context, _ *CalendarEventsRequest) (*CalendarEventsResponse, error) {
	list, err := h.store.ListEvents(ctx)
	if err != nil {
		return nil, h.toStatus("calendar events", err)
	}
	return &CalendarEventsResponse{Events: calendar.ToCalendarEvents(list)}, nil
}
