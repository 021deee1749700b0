package requests

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

	r.POST("/requests", h.Create)
	r.GET("/requests", h.GetOwn)
	r.GET("/requests/all", h.GetAll)
	r.GET("/requests/:requestId", h.GetByID)
}

func (h *Handler) Create(c *gin.Context) {
	userID, err := httpx.CallerID(c)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}

	var req CreateRequestRequest
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

func (h *Handler) GetOwn(c *gin.Context) {
	userID, err := httpx.CallerID(c)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}

	resp, err := h.svc.GetOwn(c.Request.Context(), userID)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetAll(c *gin.Context) {
	userID, err := httpx.CallerID(c)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	from := parseIntDefault(c.Query("from"), 0)
	size := parseIntDefault(c.Query("size"), 10)

	resp, err := h.svc.GetAll(c.Request.Context(), userID, from, size)
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
	requestID, err := strconv.ParseInt(c.Param("requestId"), 10, 64)
	if err != nil || requestID <= 0 {
		e := apperr.InvalidArgument("invalid id: %s", c.Param("requestId"))
		c.JSON(apperr.HTTPStatus(e), apperr.Body(e))
		return
	}

	resp, err := h.svc.GetByID(c.Request.Context(), userID, requestID)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func parseIntDefault(s string, d int) int {
	if s == "" {
		return d
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}
