package handler

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"calendar-manager/internal/auth"
)

func (h *Handler) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if !h.auth.Enabled() {
		return nil, status.Error(codes.FailedPrecondition, "authentication is disabled")
	}
	if req.Password == "" {
		return nil, status.Error(codes.InvalidArgument, "password required")
	}

	if !auth.CheckPassword(h.auth.PasswordHash, req.Password) {
		h.log.Warn().Msg("login rejected")
		return nil, status.Error(codes.Unauthenticated, "invalid credentials")
	}

	tok, exp, err := auth.MakeToken(h.auth.Secret, h.auth.TTL)
	if err != nil {
		h.log.Error().Err(err).Msg("sign token")
		return nil, status.Error(codes.Internal, "internal error")
	}

	return &LoginResponse{Token: tok, ExpiresAt: exp}, nil
}
