package httpx

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"shareit/internal/apperr"
)

// CallerID reads the numeric caller identity from the X-Sharer-User-Id
// header. Identity is unauthenticated: the header value is trusted as-is.
func CallerID(c *gin.Context) (int64, error) {
	raw := c.GetHeader(HeaderUserID)
	if raw == "" {
		return 0, apperr.Conflict("%s header is required", HeaderUserID)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.InvalidArgument("invalid %s header: %s", HeaderUserID, raw)
	}
	return id, nil
}
