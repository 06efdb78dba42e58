package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the per-request ID in both directions.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// RequestID tags each request with an ID, reusing a valid incoming one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// GetRequestID returns the ID set by RequestID, or "" outside that middleware.
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
