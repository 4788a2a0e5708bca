package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Eursukkul/eventhub/internal/auth"
	"github.com/Eursukkul/eventhub/internal/logging"
	"github.com/Eursukkul/eventhub/internal/models"
	"github.com/Eursukkul/eventhub/internal/service"
	"github.com/labstack/echo/v4"
)

const sessionContextKey = "session"

type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

type SessionAuthorizer interface {
	Authorize(ctx context.Context, accountID, key string) (*models.Session, error)
}

// Auth resolves bearer tokens to the active session.
type Auth struct {
	tokens   TokenParser
	sessions SessionAuthorizer
}

func NewAuth(tokens TokenParser, sessions SessionAuthorizer) *Auth {
	return &Auth{tokens: tokens, sessions: sessions}
}

// Required rejects the request unless it carries a token for the active session.
func (a *Auth) Required(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, ok := bearerToken(c.Request())
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, service.ErrUnauthenticated.Error())
		}
		sess, err := a.resolve(c.Request().Context(), raw)
		if err != nil {
			return err
		}
		c.Set(sessionContextKey, sess)
		withAccountFields(c, sess)
		return next(c)
	}
}

// Optional attaches the session when a valid token is present and otherwise
// lets the request through anonymously.
func (a *Auth) Optional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if raw, ok := bearerToken(c.Request()); ok {
			if sess, err := a.resolve(c.Request().Context(), raw); err == nil {
				c.Set(sessionContextKey, sess)
				withAccountFields(c, sess)
			}
		}
		return next(c)
	}
}

// withAccountFields tags log records written for the rest of the request.
func withAccountFields(c echo.Context, sess *models.Session) {
	ctx := logging.ContextWith(c.Request().Context(), "account_id", sess.ID, "role", string(sess.Role))
	c.SetRequest(c.Request().WithContext(ctx))
}

// RequireAdmin must run after Required.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !SessionFrom(c).IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, service.ErrForbidden.Error())
		}
		return next(c)
	}
}

// SessionFrom returns the session attached by Required or Optional, or nil.
func SessionFrom(c echo.Context) *models.Session {
	sess, _ := c.Get(sessionContextKey).(*models.Session)
	return sess
}

// WithSession attaches sess to c the way the auth middleware does.
func WithSession(c echo.Context, sess *models.Session) {
	c.Set(sessionContextKey, sess)
}

func (a *Auth) resolve(ctx context.Context, raw string) (*models.Session, error) {
	claims, err := a.tokens.Parse(raw)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
	}
	sess, err := a.sessions.Authorize(ctx, claims.Subject, claims.ID)
	if errors.Is(err, service.ErrUnauthenticated) {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "session is no longer active")
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get(echo.HeaderAuthorization)
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
