package middleware

import (
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/petrel-io/petrel/pkg/errors"
	"github.com/petrel-io/petrel/pkg/response"
)

// Recovery returns a middleware that recovers from panics, logs the stack
// and responds with a 500 envelope.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorw("panic recovered",
					"error", r,
					"path", c.Request.URL.Path,
					"requestID", c.Writer.Header().Get(HeaderXRequestID),
					"stack", string(debug.Stack()),
				)
				response.Fail(c, errors.ErrPanic)
				c.Abort()
			}
		}()
		c.Next()
	}
}
