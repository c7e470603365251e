// file: internal/server/logger.go
// version: 2.0.0
// guid: 85bbdb00-cfa4-41bf-88b8-6d56eb27ef32

package server

import (
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jdfalk/library-catalog/internal/server/middleware"
)

// OperationLogger tracks the lifecycle of a handler operation
type OperationLogger struct {
	handler    string
	method     string
	path       string
	startTime  time.Time
	requestID  string
	resourceID string
}

// NewOperationLogger creates a new operation logger
func NewOperationLogger(handler, method, path, requestID string) *OperationLogger {
	return &OperationLogger{
		handler:   handler,
		method:    method,
		path:      path,
		startTime: time.Now(),
		requestID: requestID,
	}
}

// operationLogger creates an OperationLogger for the current request.
func operationLogger(c *gin.Context, handler string) *OperationLogger {
	return NewOperationLogger(handler, c.Request.Method, c.Request.URL.Path, middleware.GetRequestID(c))
}

// SetResourceID sets the resource ID being operated on
func (ol *OperationLogger) SetResourceID(id string) {
	ol.resourceID = id
}

func (ol *OperationLogger) withResource(msg string) string {
	if ol.resourceID != "" {
		return fmt.Sprintf("%s (resource: %s)", msg, ol.resourceID)
	}
	return msg
}

// LogSuccess logs the successful completion of the operation
func (ol *OperationLogger) LogSuccess(statusCode int) {
	msg := fmt.Sprintf("[SUCCESS] %s %s (%d) in %v", ol.method, ol.path, statusCode, time.Since(ol.startTime))
	log.Printf("[INFO] %s [request-id: %s]", ol.withResource(msg), ol.requestID)
}

// LogError logs an error that occurred during the operation
func (ol *OperationLogger) LogError(statusCode int, err error) {
	msg := fmt.Sprintf("[ERROR] %s %s (%d) in %v: %v",
		ol.method, ol.path, statusCode, time.Since(ol.startTime), err)
	log.Printf("[ERROR] %s [request-id: %s]", ol.withResource(msg), ol.requestID)
}

// LogWarning logs a rejected request
func (ol *OperationLogger) LogWarning(statusCode int, message string) {
	msg := fmt.Sprintf("%s %s (%d): %s", ol.method, ol.path, statusCode, message)
	log.Printf("[WARN] %s: %s [request-id: %s]", ol.handler, ol.withResource(msg), ol.requestID)
}

// LogDebug logs a debug message
func (ol *OperationLogger) LogDebug(message string) {
	log.Printf("[DEBUG] %s: %s [request-id: %s]", ol.handler, message, ol.requestID)
}
