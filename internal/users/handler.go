package users

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shareit/internal/apperr"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.POST("/users", h.Create)
	r.GET("/users", h.GetAll)
	r.GET("/users/:userId", h.GetByID)
	r.PATCH("/users/:userId", h.Update)
	r.DELETE("/users/:userId", h.Delete)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.InvalidArgument("invalid json or missing required fields")))
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) GetAll(c *gin.Context) {
	resp, err := h.svc.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := parseID(c.Param("userId"))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}

	resp, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := parseID(c.Param("userId"))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.InvalidArgument("invalid json")))
		return
	}

	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := parseID(c.Param("userId"))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	c.Status(http.StatusNoContent)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.InvalidArgument("invalid id: %s", s)
	}
	return id, nil
}
