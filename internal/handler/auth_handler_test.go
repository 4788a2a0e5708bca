package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/Eursukkul/eventhub/internal/auth"
	"github.com/Eursukkul/eventhub/internal/dto"
	"github.com/Eursukkul/eventhub/internal/logging"
	"github.com/Eursukkul/eventhub/internal/middleware"
	"github.com/Eursukkul/eventhub/internal/models"
	"github.com/Eursukkul/eventhub/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func aliceSession() *models.Session {
	return &models.Session{ID: "u1", Email: "a@x.com", Name: "Alice", Role: models.RoleUser, Key: "k1"}
}

func TestRegister_Handler_Success(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Hour)
	svc := &mockSessionService{
		registerFn: func(ctx context.Context, name, email, secret string) (*models.Session, error) {
			assert.Equal(t, "Alice", name)
			assert.Equal(t, "a@x.com", email)
			assert.Equal(t, "secret1", secret)
			return aliceSession(), nil
		},
	}
	c, rec := newRequest(http.MethodPost, "/api/v1/auth/register", `{"name":"Alice","email":"a@x.com","password":"secret1"}`)

	err := NewAuthHandler(svc, issuer, logging.Discard()).Register(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "u1", resp.User.ID)
	assert.Equal(t, models.RoleUser, resp.User.Role)

	claims, err := issuer.Parse(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "k1", claims.ID)
}

func TestRegister_Handler_ValidationFails(t *testing.T) {
	bodies := []string{
		`{"name":"A","email":"a@x.com","password":"secret1"}`,
		`{"name":"Alice","email":"not-an-email","password":"secret1"}`,
		`{"name":"Alice","email":"a@x.com","password":"123"}`,
		`{"name":"Alice","email":"a@x.com","password":"` + strings.Repeat("a", 73) + `"}`,
		`{bad json`,
	}
	for _, body := range bodies {
		c, _ := newRequest(http.MethodPost, "/api/v1/auth/register", body)
		err := NewAuthHandler(&mockSessionService{}, auth.NewTokenIssuer("secret", time.Hour), logging.Discard()).Register(c)
		requireHTTPError(t, err, http.StatusBadRequest)
	}
}

func TestRegister_Handler_DuplicateEmail(t *testing.T) {
	svc := &mockSessionService{
		registerFn: func(ctx context.Context, name, email, secret string) (*models.Session, error) {
			return nil, service.ErrDuplicateEmail
		},
	}
	c, _ := newRequest(http.MethodPost, "/api/v1/auth/register", `{"name":"Alice","email":"a@x.com","password":"secret1"}`)

	err := NewAuthHandler(svc, auth.NewTokenIssuer("secret", time.Hour), logging.Discard()).Register(c)

	he := requireHTTPError(t, err, http.StatusConflict)
	assert.Equal(t, service.ErrDuplicateEmail.Error(), he.Message)
}

func TestLogin_Handler_RememberMe(t *testing.T) {
	var remembered string
	forgot := false
	svc := &mockSessionService{
		loginFn: func(ctx context.Context, email, secret string) (*models.Session, error) {
			return aliceSession(), nil
		},
		rememberFn: func(ctx context.Context, email string) error {
			remembered = email
			return nil
		},
		forgetFn: func(ctx context.Context) error {
			forgot = true
			return nil
		},
	}
	h := NewAuthHandler(svc, auth.NewTokenIssuer("secret", time.Hour), logging.Discard())

	c, rec := newRequest(http.MethodPost, "/api/v1/auth/login", `{"email":"a@x.com","password":"secret1","remember_me":true}`)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a@x.com", remembered)
	assert.False(t, forgot)

	c, _ = newRequest(http.MethodPost, "/api/v1/auth/login", `{"email":"a@x.com","password":"secret1"}`)
	require.NoError(t, h.Login(c))
	assert.True(t, forgot)
}

func TestLogin_Handler_RememberFailureKeepsToken(t *testing.T) {
	svc := &mockSessionService{
		loginFn: func(ctx context.Context, email, secret string) (*models.Session, error) {
			return aliceSession(), nil
		},
		rememberFn: func(ctx context.Context, email string) error {
			return errors.New("disk full")
		},
		forgetFn: func(ctx context.Context) error {
			return errors.New("disk full")
		},
	}
	var buf bytes.Buffer
	h := NewAuthHandler(svc, auth.NewTokenIssuer("secret", time.Hour), logging.New(&buf, "warn"))

	for _, body := range []string{
		`{"email":"a@x.com","password":"secret1","remember_me":true}`,
		`{"email":"a@x.com","password":"secret1"}`,
	} {
		c, rec := newRequest(http.MethodPost, "/api/v1/auth/login", body)
		require.NoError(t, h.Login(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp dto.AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
	}
	assert.Contains(t, buf.String(), "disk full")
}

func TestLogin_Handler_InvalidCredentials(t *testing.T) {
	svc := &mockSessionService{
		loginFn: func(ctx context.Context, email, secret string) (*models.Session, error) {
			return nil, service.ErrInvalidCredentials
		},
	}
	c, _ := newRequest(http.MethodPost, "/api/v1/auth/login", `{"email":"a@x.com","password":"wrong"}`)

	err := NewAuthHandler(svc, auth.NewTokenIssuer("secret", time.Hour), logging.Discard()).Login(c)

	requireHTTPError(t, err, http.StatusUnauthorized)
}

func TestLogout_Handler(t *testing.T) {
	called := false
	svc := &mockSessionService{
		logoutFn: func(ctx context.Context) error {
			called = true
			return nil
		},
	}
	c, rec := newRequest(http.MethodPost, "/api/v1/auth/logout", "")

	require.NoError(t, NewAuthHandler(svc, nil, logging.Discard()).Logout(c))
	assert.True(t, called)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestSession_Handler(t *testing.T) {
	h := NewAuthHandler(&mockSessionService{}, nil, logging.Discard())

	c, _ := newRequest(http.MethodGet, "/api/v1/auth/session", "")
	requireHTTPError(t, h.Session(c), http.StatusUnauthorized)

	c, rec := newRequest(http.MethodGet, "/api/v1/auth/session", "")
	middleware.WithSession(c, aliceSession())
	require.NoError(t, h.Session(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Alice", resp.Name)
}

func TestRememberedEmail_Handler(t *testing.T) {
	svc := &mockSessionService{
		rememberedEmailFn: func(ctx context.Context) (string, error) {
			return "a@x.com", nil
		},
	}
	c, rec := newRequest(http.MethodGet, "/api/v1/auth/remembered-email", "")

	require.NoError(t, NewAuthHandler(svc, nil, logging.Discard()).RememberedEmail(c))
	assert.JSONEq(t, `{"email":"a@x.com"}`, rec.Body.String())
}
