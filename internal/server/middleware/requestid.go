// file: internal/server/middleware/requestid.go
// version: 1.0.0
// guid: 419863db-7e71-470f-93aa-b0bfe4c504f2

package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request id in both directions.
	RequestIDHeader     = "X-Request-ID"
	contextRequestIDKey = "request_id"
)

// RequestID keeps an incoming X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(contextRequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// GetRequestID returns the id assigned by RequestID, or "" when it did not run.
func GetRequestID(c *gin.Context) string {
	return c.GetString(contextRequestIDKey)
}
