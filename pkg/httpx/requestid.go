package httpx

import (
	"github.com/Gunvolt24/wb_cart/pkg/ctxmeta"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderRequestID — заголовок с идентификатором запроса.
const HeaderRequestID = "X-Request-ID"

// RequestIDMiddleware:
// - принимает X-Request-ID от клиента, если он безопасен для логов (тот же алфавит, что и у сессий);
// - иначе генерирует UUID;
// - кладёт request_id в контекст и возвращает его в ответном заголовке.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if !ValidSessionID(requestID) {
			requestID = uuid.New().String()
		}
		c.Header(HeaderRequestID, requestID)

		ctx := ctxmeta.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
