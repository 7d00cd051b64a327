package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderRequestID is the header carrying the request identifier.
const HeaderRequestID = "X-Request-ID"

const contextKeyRequestID = "request_id"

// RequestID attaches an identifier to every request. An inbound
// X-Request-ID is honored so clients can correlate retries; otherwise a
// fresh uuid is generated. The identifier is echoed in the response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(contextKeyRequestID, id)
		c.Writer.Header().Set(HeaderRequestID, id)
		c.Next()
	}
}

// GetRequestID retrieves the request identifier from the gin context.
func GetRequestID(c *gin.Context) (string, bool) {
	value, exists := c.Get(contextKeyRequestID)
	if !exists {
		return "", false
	}
	id, ok := value.(string)
	return id, ok
}
