package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"calendar-manager/internal/auth"
)

type ctxKey string

const SubjectKey ctxKey = "sub"

// TokenCookie carries the access token for browser clients.
const TokenCookie = "access_token"

// skip auth for these
var open = map[string]bool{
	"/calendar.v1.CalendarService/Login": true,
}

// SubjectFrom returns the authenticated subject, if any.
func SubjectFrom(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(SubjectKey).(string)
	return s, ok
}

// Auth checks the bearer token on every gRPC call except Login. With auth
// disabled it lets everything through.
func Auth(cfg auth.Config) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		if !cfg.Enabled() || open[info.FullMethod] {
			return next(ctx, req)
		}

		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		raw := ""
		if vals := md.Get("authorization"); len(vals) > 0 {
			raw = bearer(vals[0])
		}
		if raw == "" {
			return nil, status.Error(codes.Unauthenticated, "no token")
		}

		claims, err := auth.ParseToken(raw, cfg.Secret)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, "bad token")
		}

		ctx = context.WithValue(ctx, SubjectKey, claims.Subject)
		return next(ctx, req)
	}
}

// RequireToken is the HTTP counterpart of Auth. The token comes from the
// access_token cookie or an Authorization: Bearer header.
func RequireToken(cfg auth.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !cfg.Enabled() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearer(r.Header.Get("Authorization"))
			if raw == "" {
				if c, err := r.Cookie(TokenCookie); err == nil {
					raw = c.Value
				}
			}
			if raw == "" {
				writeError(w, http.StatusUnauthorized, "no token")
				return
			}

			claims, err := auth.ParseToken(raw, cfg.Secret)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "bad token")
				return
			}

			ctx := context.WithValue(r.Context(), SubjectKey, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearer(h string) string {
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
