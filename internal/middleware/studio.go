// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"artstudio/internal/session"
	"artstudio/internal/studio"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

// StudioKey is the context key for the request's studio.
const StudioKey contextKey = "studio"

// StudioLoader returns the studio bound to a request, creating one when
// needed. *session.Manager implements it.
type StudioLoader interface {
	Load(w http.ResponseWriter, r *http.Request) (*studio.Studio, error)
}

// LoadStudio attaches the session's studio to the request context.
// Downstream handlers read it with StudioFromCtx.
func LoadStudio(loader StudioLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, err := loader.Load(w, r)
			switch {
			case errors.Is(err, session.ErrThrottled):
				w.Header().Set("Retry-After", "60")
				writeError(w, http.StatusTooManyRequests, "too many new sessions, try again in a minute")
				return
			case errors.Is(err, session.ErrFull):
				w.Header().Set("Retry-After", "60")
				writeError(w, http.StatusServiceUnavailable, "the studio is full, try again later")
				return
			case err != nil:
				slog.Error("load studio session", "error", err)
				writeError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			ctx := context.WithValue(r.Context(), StudioKey, s)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// StudioFromCtx extracts the studio from the request context. Returns nil
// outside LoadStudio.
func StudioFromCtx(ctx context.Context) *studio.Studio {
	s, _ := ctx.Value(StudioKey).(*studio.Studio)
	return s
}
