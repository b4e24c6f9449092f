package middleware

import "github.com/gin-gonic/gin"

// Context keys set by the middleware in this package
const (
	ContextKeyRequestID = "requestID"
	ContextKeyFlashes   = "flashes"
	contextKeySigner    = "sessionSigner"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

// GetRequestID returns the id assigned by RequestLogger, if any
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}
