package rest

import (
	"net/http"

	"github.com/Gunvolt24/wb_cart/internal/domain"
	"github.com/gin-gonic/gin"
)

type lookupRequest struct {
	IDs []string `json:"ids"`
}

// maxLookupIDs — защита от слишком больших запросов к каталогу.
const maxLookupIDs = 200

func (h *Handler) lookupProducts(c *gin.Context) {
	var req lookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	if len(req.IDs) > maxLookupIDs {
		badRequest(c, "too many ids")
		return
	}
	products, err := h.catalog.FindByIDs(c.Request.Context(), req.IDs)
	if err != nil {
		h.respondError(c, opLookupProducts, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *Handler) summary(c *gin.Context) {
	ctx := c.Request.Context()
	snap, err := h.carts.Snapshot(ctx, c.Param(sessionParam))
	if err != nil {
		h.respondError(c, "cart snapshot", err)
		return
	}
	sum, err := h.checkout.Summary(ctx, snap)
	if err != nil {
		h.respondError(c, opCartSummary, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// submitCheckout — тело запроса — данные покупателя; состав заказа берётся из корзины сессии.
func (h *Handler) submitCheckout(c *gin.Context) {
	var customer domain.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		badRequest(c, "invalid json")
		return
	}

	ctx := c.Request.Context()
	sid := c.Param(sessionParam)
	snap, err := h.carts.Snapshot(ctx, sid)
	if err != nil {
		h.respondError(c, "cart snapshot", err)
		return
	}

	res, err := h.checkout.Submit(ctx, sid, customer, snap)
	if err != nil {
		h.respondError(c, opCheckout, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// acknowledgeSuccess — возврат с оплаты: ?order=<reference>.
func (h *Handler) acknowledgeSuccess(c *gin.Context) {
	cleared, view, err := h.carts.AcknowledgeSuccess(c.Request.Context(), c.Param(sessionParam), c.Query("order"))
	if err != nil {
		h.respondError(c, "acknowledge success", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": cleared, "cart": view})
}
