package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/Gunvolt24/wb_cart/internal/domain"
	"github.com/gin-gonic/gin"
)

// Имена операций для логов и текста ошибок.
const (
	opLookupProducts = "lookup products"
	opCartSummary    = "cart summary"
	opCheckout       = "checkout"
)

// respondError — перевод ошибок сервисов в HTTP-ответ.
//
//	*ValidationError   → 400 + fields
//	ErrValidation      → 400
//	ErrInsufficientStock → 409 (повтор не поможет)
//	ErrNetwork         → 502, retryable (корзина не тронута, можно повторить)
//	DeadlineExceeded   → 504
//	прочее             → 500
func (h *Handler) respondError(c *gin.Context, op string, err error) {
	ctx := c.Request.Context()

	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": vErr.Fields})
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInsufficientStock):
		h.log.Infof(ctx, "%s rejected: %v", op, err)
		c.JSON(http.StatusConflict, gin.H{"error": "not enough stock for the order", "retryable": false})
	case errors.Is(err, domain.ErrNetwork):
		h.log.Warnf(ctx, "%s failed: %v", op, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": unavailableMessage(op), "retryable": true})
	case errors.Is(err, context.DeadlineExceeded):
		h.log.Warnf(ctx, "%s timed out: %v", op, err)
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "timeout", "retryable": true})
	default:
		h.log.Errorf(ctx, "%s failed: %v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// unavailableMessage — текст сетевой ошибки по операции.
func unavailableMessage(op string) string {
	switch op {
	case opLookupProducts, opCartSummary:
		return "price lookup unavailable, try again"
	case opCheckout:
		return "checkout service unavailable, try again"
	default:
		return "upstream service unavailable, try again"
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
