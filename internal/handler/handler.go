package handler

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"calendar-manager/internal/auth"
	"calendar-manager/internal/model"
	"calendar-manager/internal/store"
)

// EventStore is the persistence the handler needs; *store.Store satisfies it.
type EventStore interface {
	AddEvent(ctx context.Context, in model.EventInput) (int64, error)
	UpdateEvent(ctx context.Context, id int64, in model.EventInput) error
	DeleteEvent(ctx context.Context, id int64) error
	GetEvent(ctx context.Context, id int64) (*model.EventDetail, error)
	ListEvents(ctx context.Context) ([]model.EventSummary, error)
}

type Handler struct {
	store EventStore
	auth  auth.Config
	log   zerolog.Logger
}

func New(st EventStore, ac auth.Config, log zerolog.Logger) *Handler {
	return &Handler{store: st, auth: ac, log: log}
}

// toStatus converts store and validation errors into gRPC status errors.
// Anything unexpected is logged and reported as Internal.
func (h *Handler) toStatus(op string, err error) error {
	var ve *store.ValidationError
	switch {
	case errors.As(err, &ve):
		return status.Error(codes.InvalidArgument, ve.Message)
	case errors.Is(err, store.ErrNotFound):
		return status.Error(codes.NotFound, "event not found")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	default:
		h.log.Error().Err(err).Str("op", op).Msg("request failed")
		return status.Error(codes.Internal, "internal error")
	}
}
