package rest

import (
	"net/http"

	"github.com/Gunvolt24/wb_cart/pkg/httpx"
	"github.com/gin-gonic/gin"
)

type addItemRequest struct {
	ID string `json:"id"`
}

type stockItem struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

type registerStockRequest struct {
	Items []stockItem `json:"items"`
}

// getCart — ?hydrate восстанавливает корзину перед ответом (как POST /hydrate).
func (h *Handler) getCart(c *gin.Context) {
	read := h.carts.View
	if httpx.QueryFlag(c, "hydrate") {
		read = h.carts.Hydrate
	}
	view, err := read(c.Request.Context(), c.Param(sessionParam))
	if err != nil {
		h.respondError(c, "view cart", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) hydrateCart(c *gin.Context) {
	view, err := h.carts.Hydrate(c.Request.Context(), c.Param(sessionParam))
	if err != nil {
		h.respondError(c, "hydrate cart", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) addItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	added, view, err := h.carts.Add(c.Request.Context(), c.Param(sessionParam), req.ID)
	if err != nil {
		h.respondError(c, "add item", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": added, "cart": view})
}

func (h *Handler) removeItem(c *gin.Context) {
	removed, view, err := h.carts.Remove(c.Request.Context(), c.Param(sessionParam), c.Param("pid"))
	if err != nil {
		h.respondError(c, "remove item", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed, "cart": view})
}

func (h *Handler) getItem(c *gin.Context) {
	item, err := h.carts.Item(c.Request.Context(), c.Param(sessionParam), c.Param("pid"))
	if err != nil {
		h.respondError(c, "get item", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) clearCart(c *gin.Context) {
	view, err := h.carts.Clear(c.Request.Context(), c.Param(sessionParam))
	if err != nil {
		h.respondError(c, "clear cart", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// registerStock — остатки, показанные на карточках товаров. Повтор id — последний выигрывает.
func (h *Handler) registerStock(c *gin.Context) {
	var req registerStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	limits := make(map[string]int, len(req.Items))
	for _, it := range req.Items {
		limits[it.ID] = it.Quantity
	}
	view, err := h.carts.RegisterStock(c.Request.Context(), c.Param(sessionParam), limits)
	if err != nil {
		h.respondError(c, "register stock", err)
		return
	}
	c.JSON(http.StatusOK, view)
}
