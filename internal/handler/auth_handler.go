package handler

import (
	"net/http"

	"github.com/Eursukkul/eventhub/internal/dto"
	"github.com/Eursukkul/eventhub/internal/logging"
	"github.com/Eursukkul/eventhub/internal/middleware"
	"github.com/Eursukkul/eventhub/internal/models"
	"github.com/Eursukkul/eventhub/internal/service"
	"github.com/labstack/echo/v4"
)

type TokenGenerator interface {
	Generate(accountID, sessionKey, role string) (string, error)
}

type AuthHandler struct {
	sessions service.SessionService
	tokens   TokenGenerator
	log      logging.Logger
}

func NewAuthHandler(sessions service.SessionService, tokens TokenGenerator, log logging.Logger) *AuthHandler {
	return &AuthHandler{sessions: sessions, tokens: tokens, log: log}
}

func (h *AuthHandler) RegisterRoutes(g *echo.Group, a *middleware.Auth) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/logout", h.Logout)
	g.GET("/session", h.Session, a.Required)
	g.GET("/remembered-email", h.RememberedEmail)
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sess, err := h.sessions.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}
	return h.respondWithToken(c, http.StatusCreated, sess)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	sess, err := h.sessions.Login(ctx, req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}

	// the login already succeeded, so a failed preference write only gets logged
	if req.RememberMe {
		err = h.sessions.RememberEmail(ctx, req.Email)
	} else {
		err = h.sessions.ForgetEmail(ctx)
	}
	if err != nil {
		h.log.Warn(ctx, "failed to update remembered email", "remember_me", req.RememberMe, "error", err)
	}
	return h.respondWithToken(c, http.StatusOK, sess)
}

func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.sessions.Logout(c.Request().Context()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) Session(c echo.Context) error {
	sess := middleware.SessionFrom(c)
	if sess == nil {
		return httpError(service.ErrUnauthenticated)
	}
	return c.JSON(http.StatusOK, dto.ToSessionResponse(sess))
}

func (h *AuthHandler) RememberedEmail(c echo.Context) error {
	email, err := h.sessions.RememberedEmail(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.RememberedEmailResponse{Email: email})
}

func (h *AuthHandler) respondWithToken(c echo.Context, code int, sess *models.Session) error {
	token, err := h.tokens.Generate(sess.ID, sess.Key, string(sess.Role))
	if err != nil {
		return err
	}
	return c.JSON(code, dto.AuthResponse{User: dto.ToSessionResponse(sess), Token: token})
}
