package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/baharkarakas/classifieds-backend/internal/api/httpx"
	"github.com/baharkarakas/classifieds-backend/internal/auth"
	"github.com/baharkarakas/classifieds-backend/internal/models"
)

// UserLookup resolves the user a token refers to.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (models.User, error)
}

type Authenticator struct {
	TM     *auth.TokenManager
	Users  UserLookup
	AppEnv string
}

func NewAuthenticator(tm *auth.TokenManager, users UserLookup, appEnv string) *Authenticator {
	return &Authenticator{TM: tm, Users: users, AppEnv: appEnv}
}

// Authenticate attaches the caller to the request context. A request without
// an Authorization header continues as anonymous; a header that does not
// resolve to an existing user is rejected with 401.
//
// DEV: Bearer dev-<id> | PROD/DEV: Bearer <JWT(access)>
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ah := r.Header.Get("Authorization")
		if ah == "" {
			next.ServeHTTP(w, r)
			return
		}
		if len(ah) < len("Bearer ") || !strings.EqualFold(ah[:len("Bearer ")], "bearer ") {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token", nil)
			return
		}
		token := strings.TrimSpace(ah[len("Bearer "):])

		uid, err := a.subject(token)
		if err != nil {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid access token", nil)
			return
		}
		u, err := a.Users.GetByID(r.Context(), uid)
		if errors.Is(err, models.ErrNotFound) {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "user not found", nil)
			return
		}
		if err != nil {
			httpx.WriteServiceError(w, r, err)
			return
		}
		slog.DebugContext(r.Context(), "authenticated", "user_id", u.ID, "role", u.Role)
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
	})
}

func (a *Authenticator) subject(token string) (int64, error) {
	if a.AppEnv == "dev" && strings.HasPrefix(token, "dev-") {
		id, err := strconv.ParseInt(strings.TrimPrefix(token, "dev-"), 10, 64)
		if err != nil || id <= 0 {
			return 0, auth.ErrInvalidToken
		}
		return id, nil
	}
	claims, err := a.TM.ParseAccess(token)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

// RequireAuth rejects anonymous requests. It must run after Authenticate.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFrom(r.Context()).Anonymous() {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "authentication required", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
