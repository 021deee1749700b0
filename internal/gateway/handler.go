package gateway

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"shareit/internal/apperr"
	"shareit/internal/bookings"
	"shareit/internal/items"
	"shareit/internal/platform/httpx"
	"shareit/internal/requests"
	"shareit/internal/users"
)

// Handler validates inbound requests and forwards the valid ones to the
// backend, relaying the backend's response verbatim.
type Handler struct {
	client *Client
	now    func() time.Time
}

func RegisterRoutes(r gin.IRoutes, client *Client) {
	h := &Handler{client: client, now: time.Now}

	r.POST("/users", h.CreateUser)
	r.GET("/users", h.ListUsers)
	r.GET("/users/:userId", h.GetUser)
	r.PATCH("/users/:userId", h.UpdateUser)
	r.DELETE("/users/:userId", h.DeleteUser)

	r.POST("/items", h.CreateItem)
	r.GET("/items", h.ListItems)
	r.GET("/items/search", h.SearchItems)
	r.GET("/items/:itemId", h.GetItem)
	r.PATCH("/items/:itemId", h.UpdateItem)
	r.DELETE("/items/:itemId", h.DeleteItem)
	r.POST("/items/:itemId/comment", h.AddComment)

	r.POST("/bookings", h.CreateBooking)
	r.PATCH("/bookings/:bookingId", h.ApproveBooking)
	r.GET("/bookings/owner", h.ListOwnerBookings)
	r.GET("/bookings/:bookingId", h.GetBooking)
	r.GET("/bookings", h.ListUserBookings)

	r.POST("/requests", h.CreateRequest)
	r.GET("/requests", h.ListOwnRequests)
	r.GET("/requests/all", h.ListAllRequests)
	r.GET("/requests/:requestId", h.GetRequest)
}

// relay forwards to the backend and copies status and body back. A dead
// backend surfaces as 502 rather than a timeout on the caller's side.
func (h *Handler) relay(c *gin.Context, method, path string, body any, userID int64) {
	res, err := h.client.Forward(c.Request.Context(), method, path, body, userID, c.GetString("request_id"))
	if err != nil {
		c.JSON(http.StatusBadGateway, apperr.Body(apperr.Internal("backend unavailable")))
		return
	}
	c.Data(res.Status, "application/json; charset=utf-8", res.Body)
}

func (h *Handler) fail(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
}

func (h *Handler) badRequest(c *gin.Context, format string, args ...any) {
	h.fail(c, apperr.InvalidArgument(format, args...))
}

// ----- users -----

func (h *Handler) CreateUser(c *gin.Context) {
	var req users.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid json or missing required fields")
		return
	}
	h.relay(c, http.MethodPost, "/users", req, 0)
}

func (h *Handler) ListUsers(c *gin.Context) {
	h.relay(c, http.MethodGet, "/users", nil, 0)
}

func (h *Handler) GetUser(c *gin.Context) {
	id, err := parseID(c.Param("userId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.relay(c, http.MethodGet, fmt.Sprintf("/users/%d", id), nil, 0)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	id, err := parseID(c.Param("userId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	var req users.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid json or malformed fields")
		return
	}
	h.relay(c, http.MethodPatch, fmt.Sprintf("/users/%d", id), req, 0)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id, err := parseID(c.Param("userId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.relay(c, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, 0)
}

// ----- items -----

func (h *Handler) CreateItem(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	var req items.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid json or missing required fields")
		return
	}
	h.relay(c, http.MethodPost, "/items", req, userID)
}

func (h *Handler) ListItems(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.relay(c, http.MethodGet, "/items", nil, userID)
}

// SearchItems carries no identity header; search is open to anyone.
func (h *Handler) SearchItems(c *gin.Context) {
	q := url.Values{"text": {c.Query("text")}}
	h.relay(c, http.MethodGet, "/items/search?"+q.Encode(), nil, 0)
}

func (h *Handler) GetItem(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	id, err := parseID(c.Param("itemId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.relay(c, http.MethodGet, fmt.Sprintf("/items/%d", id), nil, userID)
}

func (h *Handler) UpdateItem(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	id, err := parseID(c.Param("itemId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	var req items.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid json or malformed fields")
		return
	}
	h.relay(c, http.MethodPatch, fmt.Sprintf("/items/%d", id), req, userID)
}

func (h *Handler) DeleteItem(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	id, err := parseID(c.Param("itemId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.relay(c, http.MethodDelete, fmt.Sprintf("/items/%d", id), nil, userID)
}

func (h *Handler) AddComment(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	id, err := parseID(c.Param("itemId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	var req items.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "comment text is required")
		return
	}
	h.relay(c, http.MethodPost, fmt.Sprintf("/items/%d/comment", id), req, userID)
}

// ----- bookings -----

func (h *Handler) CreateBooking(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	var req bookings.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid json or missing required fields")
		return
	}
	// The backend re-checks dates against its own clock; the gateway
	// rejects the clearly broken ones early.
	if !req.End.After(*req.Start) {
		h.badRequest(c, "booking end must be after start")
		return
	}
	if req.Start.Before(h.now()) {
		h.badRequest(c, "booking start must not be in the past")
		return
	}
	h.relay(c, http.MethodPost, "/bookings", req, userID)
}

func (h *Handler) ApproveBooking(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	id, err := parseID(c.Param("bookingId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	approved, err := strconv.ParseBool(c.Query("approved"))
	if err != nil {
		h.badRequest(c, "approved query parameter must be true or false")
		return
	}
	h.relay(c, http.MethodPatch, fmt.Sprintf("/bookings/%d?approved=%t", id, approved), nil, userID)
}

func (h *Handler) GetBooking(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	id, err := parseID(c.Param("bookingId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.relay(c, http.MethodGet, fmt.Sprintf("/bookings/%d", id), nil, userID)
}

func (h *Handler) ListUserBookings(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	q := url.Values{"state": {c.DefaultQuery("state", "ALL")}}
	h.relay(c, http.MethodGet, "/bookings?"+q.Encode(), nil, userID)
}

func (h *Handler) ListOwnerBookings(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	q := url.Values{"state": {c.DefaultQuery("state", "ALL")}}
	h.relay(c, http.MethodGet, "/bookings/owner?"+q.Encode(), nil, userID)
}

// ----- requests -----

func (h *Handler) CreateRequest(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	var req requests.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "request description is required")
		return
	}
	h.relay(c, http.MethodPost, "/requests", req, userID)
}

func (h *Handler) ListOwnRequests(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.relay(c, http.MethodGet, "/requests", nil, userID)
}

func (h *Handler) ListAllRequests(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	from, err := parseIntDefault(c.Query("from"), 0)
	if err != nil || from < 0 {
		h.badRequest(c, "from must be a non-negative integer")
		return
	}
	size, err := parseIntDefault(c.Query("size"), 10)
	if err != nil || size <= 0 {
		h.badRequest(c, "size must be a positive integer")
		return
	}
	h.relay(c, http.MethodGet, fmt.Sprintf("/requests/all?from=%d&size=%d", from, size), nil, userID)
}

func (h *Handler) GetRequest(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	id, err := parseID(c.Param("requestId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.relay(c, http.MethodGet, fmt.Sprintf("/requests/%d", id), nil, userID)
}

// callerID reads the identity header, folding its absence to a 400 like
// every other input error at this tier. The backend keeps its own 409
// for a missing header.
func callerID(c *gin.Context) (int64, error) {
	id, err := httpx.CallerID(c)
	if err != nil && apperr.CodeOf(err) == apperr.CodeConflict {
		return 0, apperr.InvalidArgument("%s header is required", httpx.HeaderUserID)
	}
	return id, err
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.InvalidArgument("invalid id: %s", s)
	}
	return id, nil
}

func parseIntDefault(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}
