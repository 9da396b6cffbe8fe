package rest

import (
	"context"
	"net/http"

	"github.com/Gunvolt24/wb_cart/pkg/httpx"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const sessionParam = "sid"

// NewRouter — gin с middleware; serviceName != "" включает otelgin.
func NewRouter(h *Handler, serviceName string) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	if serviceName != "" {
		r.Use(otelgin.Middleware(serviceName))
	}
	r.Use(httpx.RequestIDMiddleware())
	r.Use(httpx.RequestLogger(h.log))
	r.Use(h.withTimeout())

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.POST("/products/lookup", h.lookupProducts)

	carts := api.Group("/carts/:"+sessionParam, httpx.SessionMiddleware(sessionParam))
	carts.GET("", h.getCart)
	carts.DELETE("", h.clearCart)
	carts.POST("/hydrate", h.hydrateCart)
	carts.POST("/items", h.addItem)
	carts.GET("/items/:pid", h.getItem)
	carts.DELETE("/items/:pid", h.removeItem)
	carts.PUT("/stock", h.registerStock)
	carts.GET("/summary", h.summary)
	carts.POST("/checkout", h.submitCheckout)
	carts.POST("/success", h.acknowledgeSuccess)

	return r
}

// withTimeout — дедлайн на обработку одного запроса.
func (h *Handler) withTimeout() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.timeout <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
