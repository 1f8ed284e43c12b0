// Package handler implements the HTTP request handlers for the apiserver.
package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/petrel-io/petrel/pkg/response"
	"github.com/petrel-io/petrel/pkg/validator"
)

// bind decodes the JSON body into req and validates it. On failure it
// writes the error response and returns false.
func bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.FailWithBindOrValidation(c, err)
		return false
	}
	if verr := validator.StructWithLang(req, c.GetHeader("Accept-Language")); verr != nil && verr.HasErrors() {
		response.FailWithValidation(c, verr)
		return false
	}
	return true
}

// pagination reads the page and page-size query parameters with defaults.
func pagination(c *gin.Context) (page, pageSize, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if pageSize < 1 || pageSize > 200 {
		pageSize = 20
	}
	return page, pageSize, (page - 1) * pageSize
}
