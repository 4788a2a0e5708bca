package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Eursukkul/eventhub/internal/models"
	"github.com/Eursukkul/eventhub/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock SessionService ---

type mockSessionService struct {
	service.SessionService
	registerFn        func(ctx context.Context, name, email, secret string) (*models.Session, error)
	loginFn           func(ctx context.Context, email, secret string) (*models.Session, error)
	logoutFn          func(ctx context.Context) error
	rememberFn        func(ctx context.Context, email string) error
	forgetFn          func(ctx context.Context) error
	rememberedEmailFn func(ctx context.Context) (string, error)
}

func (m *mockSessionService) Register(ctx context.Context, name, email, secret string) (*models.Session, error) {
	return m.registerFn(ctx, name, email, secret)
}
func (m *mockSessionService) Login(ctx context.Context, email, secret string) (*models.Session, error) {
	return m.loginFn(ctx, email, secret)
}
func (m *mockSessionService) Logout(ctx context.Context) error {
	return m.logoutFn(ctx)
}
func (m *mockSessionService) RememberEmail(ctx context.Context, email string) error {
	return m.rememberFn(ctx, email)
}
func (m *mockSessionService) ForgetEmail(ctx context.Context) error {
	return m.forgetFn(ctx)
}
func (m *mockSessionService) RememberedEmail(ctx context.Context) (string, error) {
	return m.rememberedEmailFn(ctx)
}

// --- Mock CatalogService ---

type mockCatalogService struct {
	service.CatalogService
	getFn      func(ctx context.Context, id string) (*models.Event, error)
	listFn     func(ctx context.Context) ([]models.Event, error)
	isBookedFn func(ctx context.Context, eventID, accountID string) (bool, error)
	searchFn   func(ctx context.Context, q service.EventQuery) (*service.EventPage, error)
	addFn      func(ctx context.Context, actor *models.Session, in models.EventInput) (*models.Event, error)
	updateFn   func(ctx context.Context, actor *models.Session, id string, patch models.EventPatch) (*models.Event, error)
	deleteFn   func(ctx context.Context, actor *models.Session, id string) error
	bookFn     func(ctx context.Context, actor *models.Session, eventID string) (*models.Booking, error)
	bookingsFn func(ctx context.Context, accountID string) ([]models.Booking, error)
	myEventsFn func(ctx context.Context, accountID string) ([]models.Event, error)
	byTagFn    func(ctx context.Context, tag string) ([]models.Event, error)
	allTagsFn  func(ctx context.Context) ([]string, error)
	featuredFn func(ctx context.Context) ([]models.Event, error)
}

func (m *mockCatalogService) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	return m.getFn(ctx, id)
}
func (m *mockCatalogService) ListEvents(ctx context.Context) ([]models.Event, error) {
	return m.listFn(ctx)
}
func (m *mockCatalogService) IsBooked(ctx context.Context, eventID, accountID string) (bool, error) {
	return m.isBookedFn(ctx, eventID, accountID)
}
func (m *mockCatalogService) SearchEvents(ctx context.Context, q service.EventQuery) (*service.EventPage, error) {
	return m.searchFn(ctx, q)
}
func (m *mockCatalogService) AddEvent(ctx context.Context, actor *models.Session, in models.EventInput) (*models.Event, error) {
	return m.addFn(ctx, actor, in)
}
func (m *mockCatalogService) UpdateEvent(ctx context.Context, actor *models.Session, id string, patch models.EventPatch) (*models.Event, error) {
	return m.updateFn(ctx, actor, id, patch)
}
func (m *mockCatalogService) DeleteEvent(ctx context.Context, actor *models.Session, id string) error {
	return m.deleteFn(ctx, actor, id)
}
func (m *mockCatalogService) BookEvent(ctx context.Context, actor *models.Session, eventID string) (*models.Booking, error) {
	return m.bookFn(ctx, actor, eventID)
}
func (m *mockCatalogService) BookingsForAccount(ctx context.Context, accountID string) ([]models.Booking, error) {
	return m.bookingsFn(ctx, accountID)
}
func (m *mockCatalogService) EventsForAccount(ctx context.Context, accountID string) ([]models.Event, error) {
	return m.myEventsFn(ctx, accountID)
}
func (m *mockCatalogService) EventsByTag(ctx context.Context, tag string) ([]models.Event, error) {
	return m.byTagFn(ctx, tag)
}
func (m *mockCatalogService) AllTags(ctx context.Context) ([]string, error) {
	return m.allTagsFn(ctx)
}
func (m *mockCatalogService) FeaturedEvents(ctx context.Context) ([]models.Event, error) {
	return m.featuredFn(ctx)
}

// --- Helpers ---

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewRequestValidator()
	return e
}

func newRequest(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return newEcho().NewContext(req, rec), rec
}

func requireHTTPError(t *testing.T, err error, code int) *echo.HTTPError {
	t.Helper()
	var he *echo.HTTPError
	require.True(t, errors.As(err, &he), "expected *echo.HTTPError, got %v", err)
	assert.Equal(t, code, he.Code)
	return he
}

func TestHTTPError_Mapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{service.ErrInvalidInput, http.StatusBadRequest},
		{service.ErrInvalidEvent, http.StatusBadRequest},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{service.ErrUnauthenticated, http.StatusUnauthorized},
		{service.ErrForbidden, http.StatusForbidden},
		{service.ErrNotFound, http.StatusNotFound},
		{service.ErrDuplicateEmail, http.StatusConflict},
		{service.ErrAlreadyBooked, http.StatusConflict},
		{service.ErrHasDependentBookings, http.StatusConflict},
	}
	for _, tt := range tests {
		requireHTTPError(t, httpError(tt.err), tt.code)
	}

	plain := errors.New("boom")
	assert.Equal(t, plain, httpError(plain))
}
