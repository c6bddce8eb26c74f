// Package httputil holds the request parsing and error rendering shared by the
// gin handlers.
package httputil

import (
	"net/http"
	"strconv"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/pagination"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ParseID reads an integer path parameter.
func ParseID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, apperr.Validation("invalid %s %q", name, c.Param(name))
	}
	return id, nil
}

// OptionalQueryID reads an optional integer query parameter.
func OptionalQueryID(c *gin.Context, name string) (*int64, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, apperr.Validation("invalid %s %q", name, raw)
	}
	return &id, nil
}

// Pagination reads limit and offset, applying the defaults when absent.
func Pagination(c *gin.Context) (pagination.Params, error) {
	p := pagination.Default()

	if raw, ok := c.GetQuery("limit"); ok {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return p, apperr.Validation("invalid limit %q", raw)
		}
		p.Limit = v
	}
	if raw, ok := c.GetQuery("offset"); ok {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return p, apperr.Validation("invalid offset %q", raw)
		}
		p.Offset = v
	}
	return p, p.Validate()
}

// BindJSON decodes the request body, reporting malformed input as a validation error.
func BindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apperr.Validation("invalid request body: %v", err)
	}
	return nil
}

// RespondError writes err with the status its kind maps to. Internal errors
// are logged and their message hidden from the client.
func RespondError(c *gin.Context, log logger.ZapLogger, err error) {
	status := apperr.HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		message = "internal server error"
	}
	c.AbortWithStatusJSON(status, gin.H{
		"error":  string(apperr.KindOf(err)),
		"detail": message,
	})
}
