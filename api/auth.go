/*
auth.go - Token issuance and session middleware

PURPOSE:
  Issues HS256 JWTs on login/register and turns a Bearer token back into a
  leave.Session for handlers. The session carries only what the lifecycle
  needs: the user id and the role. Identity is never read from ambient
  state; every protected handler pulls the session from the request
  context.

TOKEN SHAPE:
  sub:  user id
  role: USER | MANAGER | ADMIN
  jti:  random uuid
  exp:  24h from issuance
*/
package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/warp/leave-engine/leave"
	"github.com/warp/leave-engine/store/sqlite"
)

const tokenTTL = 24 * time.Hour

// Auth signs and verifies session tokens.
type Auth struct {
	secret []byte
}

func NewAuth(secret string) *Auth {
	return &Auth{secret: []byte(secret)}
}

// Issue creates a signed token for the user.
func (a *Auth) Issue(u *sqlite.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  strconv.Itoa(u.ID),
		"role": string(u.Role),
		"jti":  uuid.NewString(),
		"iat":  now.Unix(),
		"exp":  now.Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// Verify parses a token and returns the session it carries.
func (a *Auth) Verify(tokenString string) (leave.Session, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return leave.Session{}, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return leave.Session{}, fmt.Errorf("unexpected claims type")
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return leave.Session{}, fmt.Errorf("missing subject: %w", err)
	}
	userID, err := strconv.Atoi(sub)
	if err != nil {
		return leave.Session{}, fmt.Errorf("invalid subject %q: %w", sub, err)
	}
	role, _ := claims["role"].(string)

	return leave.Session{UserID: userID, Role: leave.Role(role)}, nil
}

// =============================================================================
// MIDDLEWARE
// =============================================================================

type contextKey string

const sessionKey contextKey = "session"

// Middleware rejects requests without a valid Bearer token and attaches the
// session to the request context.
func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "Missing bearer token", nil)
			return
		}
		sess, err := a.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token", err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, sess)))
	})
}

// SessionFrom returns the authenticated session attached by Middleware.
func SessionFrom(ctx context.Context) (leave.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(leave.Session)
	return sess, ok
}
