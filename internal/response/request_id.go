package response

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextKeyRequestID is the Gin context key for the request ID.
const ContextKeyRequestID = "request_id"

// RequestIDHeader carries the request ID in both directions: a client may
// supply one to correlate retries, and every response echoes the final ID.
const RequestIDHeader = "X-Request-ID"

// RequestIDMiddleware attaches a request ID to the context and the
// response. An inbound ID is honored only if it is a well-formed UUID;
// anything else is replaced so arbitrary client strings never reach the
// logs.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(reqID); err != nil {
			reqID = uuid.New().String()
		}
		c.Set(ContextKeyRequestID, reqID)
		c.Header(RequestIDHeader, reqID)
		c.Next()
	}
}

// RequestID returns the request ID attached by RequestIDMiddleware, or ""
// when the middleware did not run.
func RequestID(c *gin.Context) string {
	v, _ := c.Get(ContextKeyRequestID)
	id, _ := v.(string)
	return id
}
