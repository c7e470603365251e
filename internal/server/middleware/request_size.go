// file: internal/server/middleware/request_size.go
// version: 2.0.0
// guid: 1ea8754a-6c2f-43fa-ad02-e6933f97346f

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jdfalk/library-catalog/internal/i18n"
)

// DefaultMaxBodyBytes bounds JSON request bodies when no limit is configured.
const DefaultMaxBodyBytes int64 = 1 << 20

func methodHasBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	default:
		return false
	}
}

// MaxRequestBodySize enforces a request body limit on methods that carry one.
func MaxRequestBodySize(limitBytes int64) gin.HandlerFunc {
	if limitBytes < 1 {
		limitBytes = DefaultMaxBodyBytes
	}

	return func(c *gin.Context) {
		if !methodHasBody(c.Request.Method) {
			c.Next()
			return
		}

		if c.Request.ContentLength > limitBytes {
			AbortWithError(c, http.StatusRequestEntityTooLarge, i18n.MsgRequestTooLarge)
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limitBytes)
		c.Next()
	}
}
