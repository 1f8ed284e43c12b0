package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderXRequestID is the request ID header name.
const HeaderXRequestID = "X-Request-ID"

// RequestID returns a middleware that ensures every request carries a
// unique ID. An incoming X-Request-ID is honored so IDs stay stable across
// proxies; otherwise a new one is generated. The ID is echoed on the
// response header, where the response envelope picks it up.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderXRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Writer.Header().Set(HeaderXRequestID, rid)
		c.Next()
	}
}
