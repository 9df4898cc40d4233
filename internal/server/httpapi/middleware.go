package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/pancakescience/cooktrack/internal/server/auth"
)

type ctxKey int

const userIDKey ctxKey = iota

// authMiddleware requires a valid bearer token and stores the user id it
// carries in the request context.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			s.writeJSONError(w, http.StatusUnauthorized, "authorization required")
			return
		}

		userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
		if err != nil {
			s.writeJSONError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	})
}

// userIDFrom returns the authenticated user id placed by authMiddleware.
func userIDFrom(ctx context.Context) int64 {
	id, _ := ctx.Value(userIDKey).(int64)
	return id
}
