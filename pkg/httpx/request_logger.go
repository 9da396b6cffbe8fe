package httpx

import (
	"time"

	"github.com/Gunvolt24/wb_cart/internal/ports"
	"github.com/Gunvolt24/wb_cart/pkg/ctxmeta"
	"github.com/gin-gonic/gin"
)

// RequestLogger — middleware для логирования HTTP-запросов.
func RequestLogger(log ports.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// не логируем /metrics, /ping
		switch c.FullPath() {
		case "/metrics", "/ping":
			return
		}

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		ctx := c.Request.Context()
		sp, _ := ctxmeta.SpanIDFromContext(ctx)

		// request_id, session_id и trace_id добавит сам логгер из контекста.
		log.Infof(
			ctx,
			"request span=%s method=%s path=%s status=%d ip=%s duration=%s size=%d",
			sp,
			c.Request.Method,
			path,
			c.Writer.Status(),
			c.ClientIP(),
			time.Since(start),
			c.Writer.Size(),
		)
	}
}
