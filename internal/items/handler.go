package items

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

	r.POST("/items", h.Create)
	r.GET("/items", h.GetAllByOwner)
	r.GET("/items/search", h.Search)
	r.GET("/items/:itemId", h.GetByID)
	r.PATCH("/items/:itemId", h.Update)
	r.DELETE("/items/:itemId", h.Delete)
	r.POST("/items/:itemId/comment", h.AddComment)
}

func (h *Handler) Create(c *gin.Context) {
	ownerID, err := httpx.CallerID(c)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}

	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.InvalidArgument("invalid json or missing required fields")))
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), ownerID, req)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) Update(c *gin.Context) {
	ownerID, err := httpx.CallerID(c)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	itemID, err := parseID(c.Param("itemId"))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.InvalidArgument("invalid json")))
		return
	}

	resp, err := h.svc.Update(c.Request.Context(), ownerID, itemID, req)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Delete(c *gin.Context) {
	ownerID, err := httpx.CallerID(c)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	itemID, err := parseID(c.Param("itemId"))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}

	if err := h.svc.Delete(c.Request.Context(), ownerID, itemID); err != nil {
		c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) GetByID(c *gin.Context) {
	callerID, err := httpx.CallerID(c)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	itemID, err := parseID(c.Param("itemId"))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}

	resp, err := h.svc.GetByID(c.Request.Context(), callerID, itemID)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetAllByOwner(c *gin.Context) {
	ownerID, err := httpx.CallerID(c)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}

	resp, err := h.svc.GetAllByOwner(c.Request.Context(), ownerID)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Search(c *gin.Context) {
	resp, err := h.svc.Search(c.Request.Context(), c.Query("text"))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) AddComment(c *gin.Context) {
	userID, err := httpx.CallerID(c)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	itemID, err := parseID(c.Param("itemId"))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.InvalidArgument("invalid json or missing required fields")))
		return
	}

	resp, err := h.svc.AddComment(c.Request.Context(), userID, itemID, req)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.InvalidArgument("invalid id: %s", s)
	}
	return id, nil
}
