package bookings

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shareit/internal/apperr"
	"shareit/internal/platform/httpx"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.POST("/bookings", h.Create)
	r.PATCH("/bookings/:bookingId", h.Approve)
	r.GET("/bookings/owner", h.GetOwnerBookings)
	r.GET("/bookings/:bookingId", h.GetByID)
	r.GET("/bookings", h.GetUserBookings)
}

func (h *Handler) Create(c *gin.Context) {
	userID, err := httpx.CallerID(c)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.InvalidArgument("invalid json or missing required fields")))
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) Approve(c *gin.Context) {
	ownerID, err := httpx.CallerID(c)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	bookingID, err := parseID(c.Param("bookingId"))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	approved, err := strconv.ParseBool(c.Query("approved"))
	if err != nil {
		e := apperr.InvalidArgument("approved query parameter must be true or false")
		c.JSON(apperr.HTTPStatus(e), apperr.Body(e))
		return
	}

	resp, err := h.svc.Approve(c.Request.Context(), ownerID, bookingID, approved)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetByID(c *gin.Context) {
	userID, err := httpx.CallerID(c)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	bookingID, err := parseID(c.Param("bookingId"))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}

	resp, err := h.svc.GetByID(c.Request.Context(), userID, bookingID)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetUserBookings(c *gin.Context) {
	userID, err := httpx.CallerID(c)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}

	resp, err := h.svc.GetUserBookings(c.Request.Context(), userID, c.DefaultQuery("state", "ALL"))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetOwnerBookings(c *gin.Context) {
	ownerID, err := httpx.CallerID(c)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}

	resp, err := h.svc.GetOwnerBookings(c.Request.Context(), ownerID, c.DefaultQuery("state", "ALL"))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.InvalidArgument("invalid id: %s", s)
	}
	return id, nil
}
