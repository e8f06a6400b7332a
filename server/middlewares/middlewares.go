package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIdHeader = "X-Request-Id"

// RequestId tags every request with a uuid, echoed in the response header
// and available to handlers for log correlation.
func RequestId() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIdHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(RequestIdHeader, id)
		c.Next()
	}
}
