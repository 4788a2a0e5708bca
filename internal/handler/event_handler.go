package handler

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/Eursukkul/eventhub/internal/dto"
	"github.com/Eursukkul/eventhub/internal/media"
	"github.com/Eursukkul/eventhub/internal/middleware"
	"github.com/Eursukkul/eventhub/internal/service"
	"github.com/labstack/echo/v4"
)

type EventHandler struct {
	catalog service.CatalogService
	images  media.ImageUploader
}

// NewEventHandler wires the catalog endpoints. images may be nil, in which
// case image uploads answer 501.
func NewEventHandler(catalog service.CatalogService, images media.ImageUploader) *EventHandler {
	return &EventHandler{catalog: catalog, images: images}
}

func (h *EventHandler) RegisterRoutes(g *echo.Group, a *middleware.Auth) {
	g.GET("", h.ListEvents)
	g.GET("/featured", h.FeaturedEvents)
	g.GET("/categories", h.Categories)
	g.GET("/:id", h.GetEvent, a.Optional)

	g.POST("", h.CreateEvent, a.Required, middleware.RequireAdmin)
	g.POST("/images", h.UploadImage, a.Required, middleware.RequireAdmin)
	g.PATCH("/:id", h.UpdateEvent, a.Required, middleware.RequireAdmin)
	g.DELETE("/:id", h.DeleteEvent, a.Required, middleware.RequireAdmin)
}

func (h *EventHandler) RegisterTagRoutes(g *echo.Group) {
	g.GET("", h.ListTags)
	g.GET("/:tag/events", h.EventsByTag)
}

// RegisterAdminRoutes mounts the unpaginated catalog listing used by the
// admin dashboard.
func (h *EventHandler) RegisterAdminRoutes(g *echo.Group, a *middleware.Auth) {
	g.GET("/events", h.AllEvents, a.Required, middleware.RequireAdmin)
}

func (h *EventHandler) AllEvents(c echo.Context) error {
	events, err := h.catalog.ListEvents(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.ToEventResponses(events))
}

func (h *EventHandler) ListEvents(c echo.Context) error {
	page, err := queryInt(c, "page")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	perPage, err := queryInt(c, "per_page")
	if err != nil || perPage > service.MaxPageSize {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid per_page")
	}

	result, err := h.catalog.SearchEvents(c.Request().Context(), service.EventQuery{
		Query:    c.QueryParam("q"),
		Category: c.QueryParam("category"),
		Page:     page,
		PerPage:  perPage,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.ToEventPageResponse(result))
}

func (h *EventHandler) FeaturedEvents(c echo.Context) error {
	events, err := h.catalog.FeaturedEvents(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.ToEventResponses(events))
}

func (h *EventHandler) Categories(c echo.Context) error {
	return c.JSON(http.StatusOK, h.catalog.Categories())
}

func (h *EventHandler) ListTags(c echo.Context) error {
	tags, err := h.catalog.AllTags(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tags)
}

func (h *EventHandler) EventsByTag(c echo.Context) error {
	tag, err := url.PathUnescape(c.Param("tag"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid tag")
	}
	events, err := h.catalog.EventsByTag(c.Request().Context(), tag)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.ToEventResponses(events))
}

// GetEvent includes "booked" when the caller is signed in.
func (h *EventHandler) GetEvent(c echo.Context) error {
	ctx := c.Request().Context()
	event, err := h.catalog.GetEvent(ctx, c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	resp := dto.ToEventResponse(event)
	if sess := middleware.SessionFrom(c); sess != nil {
		booked, err := h.catalog.IsBooked(ctx, event.ID, sess.ID)
		if err != nil {
			return err
		}
		resp.Booked = &booked
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *EventHandler) CreateEvent(c echo.Context) error {
	var req dto.CreateEventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	event, err := h.catalog.AddEvent(c.Request().Context(), middleware.SessionFrom(c), req.ToInput())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToEventResponse(event))
}

func (h *EventHandler) UpdateEvent(c echo.Context) error {
	var req dto.UpdateEventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	event, err := h.catalog.UpdateEvent(c.Request().Context(), middleware.SessionFrom(c), c.Param("id"), req.ToPatch())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToEventResponse(event))
}

func (h *EventHandler) DeleteEvent(c echo.Context) error {
	if err := h.catalog.DeleteEvent(c.Request().Context(), middleware.SessionFrom(c), c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *EventHandler) UploadImage(c echo.Context) error {
	if h.images == nil {
		return echo.NewHTTPError(http.StatusNotImplemented, "image uploads are not configured")
	}

	var req dto.ImageUploadRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	upload, err := h.images.PresignUpload(c.Request().Context(), req.FileName, req.ContentType)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToImageUploadResponse(upload))
}

func queryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, echo.ErrBadRequest
	}
	return n, nil
}
