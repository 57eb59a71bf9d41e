package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/allocq/internal/domain"
)

type contextKey int

const userIDKey contextKey = iota

// Identity resolves the caller from trusted proxy headers and upserts the
// user so orders can reference it. X-User-ID is the stable identifier;
// X-User-Email and X-User-Name are display fields refreshed on every request.
// Requests without X-User-ID pass through anonymously; handlers that require
// ownership reject them with 401.
func Identity(users domain.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-User-ID")
			if id != "" {
				user := domain.User{
					ID:    id,
					Email: r.Header.Get("X-User-Email"),
					Name:  r.Header.Get("X-User-Name"),
				}
				if err := users.Upsert(r.Context(), user); err != nil {
					writeError(w, http.StatusInternalServerError, "internal server error")
					return
				}
				r = r.WithContext(context.WithValue(r.Context(), userIDKey, id))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeError emits the same RFC 7807 body Huma produces, so middleware
// failures look no different from handler failures to API clients.
func writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(&huma.ErrorModel{
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	})
}

// callerID extracts the authenticated user id from the request context.
func callerID(ctx context.Context) (string, error) {
	id, ok := ctx.Value(userIDKey).(string)
	if !ok || id == "" {
		return "", huma.Error401Unauthorized("authentication required")
	}
	return id, nil
}
