package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// HeaderRequestID - заголовок с идентификатором запроса
	HeaderRequestID = "X-Request-ID"
	// ContextRequestIDKey - ключ контекста gin с идентификатором запроса
	ContextRequestIDKey = "request_id"
)

// RequestID присваивает запросу идентификатор. Переданный клиентом X-Request-ID сохраняется.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(ContextRequestIDKey, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}
