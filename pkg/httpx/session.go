package httpx

import (
	"net/http"

	"github.com/Gunvolt24/wb_cart/pkg/ctxmeta"
	"github.com/gin-gonic/gin"
)

// SessionMiddleware — проверяет параметр пути с идентификатором сессии
// и кладёт его в контекст запроса (для логов).
func SessionMiddleware(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := c.Param(param)
		if !ValidSessionID(sid) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
			return
		}
		c.Request = c.Request.WithContext(ctxmeta.WithSessionID(c.Request.Context(), sid))
		c.Next()
	}
}
