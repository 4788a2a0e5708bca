package handler

import (
	"net/http"

	"github.com/Eursukkul/eventhub/internal/dto"
	"github.com/Eursukkul/eventhub/internal/middleware"
	"github.com/Eursukkul/eventhub/internal/service"
	"github.com/labstack/echo/v4"
)

type BookingHandler struct {
	catalog service.CatalogService
}

func NewBookingHandler(catalog service.CatalogService) *BookingHandler {
	return &BookingHandler{catalog: catalog}
}

func (h *BookingHandler) RegisterRoutes(e *echo.Echo, a *middleware.Auth) {
	e.POST("/api/v1/events/:id/bookings", h.CreateBooking, a.Required)

	me := e.Group("/api/v1/me", a.Required)
	me.GET("/bookings", h.MyBookings)
	me.GET("/events", h.MyEvents)
}

func (h *BookingHandler) CreateBooking(c echo.Context) error {
	booking, err := h.catalog.BookEvent(c.Request().Context(), middleware.SessionFrom(c), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) MyBookings(c echo.Context) error {
	sess := middleware.SessionFrom(c)
	if sess == nil {
		return httpError(service.ErrUnauthenticated)
	}

	bookings, err := h.catalog.BookingsForAccount(c.Request().Context(), sess.ID)
	if err != nil {
		return err
	}

	resp := make([]dto.BookingResponse, len(bookings))
	for i := range bookings {
		resp[i] = dto.ToBookingResponse(&bookings[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) MyEvents(c echo.Context) error {
	sess := middleware.SessionFrom(c)
	if sess == nil {
		return httpError(service.ErrUnauthenticated)
	}

	events, err := h.catalog.EventsForAccount(c.Request().Context(), sess.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.ToEventResponses(events))
}
