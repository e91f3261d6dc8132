package httpadapter

import (
	"context"
	"net/http"
	"strings"

	"github.com/maumlog/maum-api/internal/domain"
)

type ctxKey string

const ctxKeyUserID ctxKey = "user_id"

// withAuth resolves the caller's identity from a bearer token or the
// session_id cookie through the auth session store. The core never parses
// tokens; handlers read the resolved user id from the context.
func (s *Server) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			if c, err := r.Cookie("session_id"); err == nil {
				token = c.Value
			}
		}
		if token == "" {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		userID, err := s.auth.FindUserID(r.Context(), token)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if userID == "" {
			writeError(w, http.StatusUnauthorized, "invalid session")
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyUserID, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

func userIDFromContext(ctx context.Context) domain.UserID {
	id, _ := ctx.Value(ctxKeyUserID).(domain.UserID)
	return id
}
