package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const userIDKey = "user_id"

// identityMiddleware trusts the X-User-ID header set by the API gateway in
// front of this service. Requests without it are rejected.
func identityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-User-ID")
		if raw == "" {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing user identity", nil))
			return
		}
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "invalid user identity", err))
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

func currentUserID(c *gin.Context) (int64, bool) {
	value, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	userID, ok := value.(int64)
	return userID, ok
}
