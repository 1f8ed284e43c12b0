package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/petrel-io/petrel/pkg/errors"
	"github.com/petrel-io/petrel/pkg/validator"
)

// requestID pulls the request ID the middleware stamped on the response
// header, so every envelope carries the same ID the client sees.
func requestID(c *gin.Context) string {
	return c.Writer.Header().Get("X-Request-ID")
}

func write(c *gin.Context, status int, r *Response) {
	r.RequestID = requestID(c)
	r.Timestamp = time.Now().UnixMilli()
	c.JSON(status, r)
}

// OK sends a successful response with data.
func OK(c *gin.Context, data interface{}) {
	resp := Success(data)
	write(c, http.StatusOK, resp)
}

// Fail sends an error response using Errno. The message language follows
// the Accept-Language header.
func Fail(c *gin.Context, e *errors.Errno) {
	resp := ErrWithLang(e, c.GetHeader("Accept-Language"))
	write(c, e.HTTPStatus(), resp)
}

// FailWithError converts a standard error and sends it.
// If the error is an Errno, it is used directly.
// Otherwise, it is wrapped as ErrInternal.
func FailWithError(c *gin.Context, err error) {
	Fail(c, errors.FromError(err))
}

// FailWithValidation sends a validation error response with per-field
// details in the response data.
func FailWithValidation(c *gin.Context, verr *validator.ValidationErrors) {
	resp := &Response{
		Code:    errors.ErrValidationFailed.Code,
		Message: verr.First(),
		Data:    verr.ToMap(),
	}
	write(c, http.StatusBadRequest, resp)
}

// FailWithBindOrValidation handles binding or validation errors.
// ValidationErrors get the detailed response; anything else is reported as
// an invalid request body.
func FailWithBindOrValidation(c *gin.Context, err error) {
	if verr, ok := err.(*validator.ValidationErrors); ok {
		FailWithValidation(c, verr)
		return
	}
	Fail(c, errors.ErrInvalidParam.WithMessage("invalid request body: "+err.Error()))
}

// PageOK sends a paginated response.
func PageOK(c *gin.Context, list interface{}, total int64, page, pageSize int) {
	resp := Page(list, total, page, pageSize)
	write(c, http.StatusOK, resp)
}
