// Пакет stripe — оформление заказа через Stripe Checkout Sessions.
package stripe

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/Gunvolt24/wb_cart/internal/domain"
	"github.com/Gunvolt24/wb_cart/internal/payment"
	"github.com/Gunvolt24/wb_cart/internal/ports"
	stripego "github.com/stripe/stripe-go/v81"
	checkoutsession "github.com/stripe/stripe-go/v81/checkout/session"
)

var _ ports.PaymentGateway = (*Gateway)(nil)

// Options — параметры сессии оплаты.
type Options struct {
	SecretKey  string
	Currency   string
	SuccessURL string // может содержать {CHECKOUT_SESSION_ID}; order=<reference> добавляется к каждой сессии
	CancelURL  string
}

// Gateway — считает количества по cartProducts, берёт цены и остатки из каталога
// и создаёт сессию оплаты. Возвращает URL, куда перенаправить покупателя.
type Gateway struct {
	sessions checkoutsession.Client
	catalog  ports.ProductLookup
	opts     Options
	log      ports.Logger
}

// NewGateway — backend == nil означает реальный API Stripe.
func NewGateway(opts Options, catalog ports.ProductLookup, log ports.Logger, backend stripego.Backend) (*Gateway, error) {
	if opts.SecretKey == "" {
		return nil, fmt.Errorf("stripe: secret key is required")
	}
	if opts.SuccessURL == "" || opts.CancelURL == "" {
		return nil, fmt.Errorf("stripe: success and cancel urls are required")
	}
	if opts.Currency == "" {
		opts.Currency = string(stripego.CurrencyUSD)
	}
	if backend == nil {
		backend = stripego.GetBackend(stripego.APIBackend)
	}
	return &Gateway{
		sessions: checkoutsession.Client{B: backend, Key: opts.SecretKey},
		catalog:  catalog,
		opts:     opts,
		log:      log,
	}, nil
}

func (g *Gateway) CreateCheckout(ctx context.Context, order *domain.CheckoutOrder) (string, error) {
	if order == nil || len(order.CartProducts) == 0 {
		return "", fmt.Errorf("stripe: empty order")
	}

	lineItems, err := g.lineItems(ctx, order.CartProducts)
	if err != nil {
		return "", err
	}

	customer := order.Customer
	params := &stripego.CheckoutSessionParams{
		Mode:              stripego.String(string(stripego.CheckoutSessionModePayment)),
		LineItems:         lineItems,
		SuccessURL:        stripego.String(successURL(g.opts.SuccessURL, order.Reference)),
		CancelURL:         stripego.String(g.opts.CancelURL),
		CustomerEmail:     stripego.String(customer.Email),
		ClientReferenceID: stripego.String(order.Reference),
	}
	params.Context = ctx
	params.Metadata = map[string]string{
		"reference":     order.Reference,
		"name":          customer.Name,
		"phone":         customer.Phone,
		"city":          customer.City,
		"postalCode":    customer.PostalCode,
		"streetAddress": customer.StreetAddress,
		"country":       customer.Country,
	}

	sess, err := g.sessions.New(params)
	if err != nil {
		g.log.Errorf(ctx, "stripe checkout session ref=%s: %v", order.Reference, err)
		return "", fmt.Errorf("stripe: create checkout session: %w", err)
	}

	g.log.Infof(ctx, "stripe checkout session id=%s ref=%s", sess.ID, order.Reference)
	return sess.URL, nil
}

// successURL — адрес возврата с номером заказа для однократной очистки корзины.
// Строка дописывается как есть: url.Values экранировал бы {CHECKOUT_SESSION_ID}.
func successURL(base, reference string) string {
	if reference == "" {
		return base
	}
	fragment := ""
	if i := strings.IndexByte(base, '#'); i >= 0 {
		base, fragment = base[:i], base[i:]
	}
	sep := "?"
	switch {
	case strings.HasSuffix(base, "?") || strings.HasSuffix(base, "&"):
		sep = ""
	case strings.Contains(base, "?"):
		sep = "&"
	}
	return base + sep + "order=" + url.QueryEscape(reference) + fragment
}

// lineItems — по одной строке на товар; количество = число вхождений в корзине.
func (g *Gateway) lineItems(ctx context.Context, cart domain.Snapshot) ([]*stripego.CheckoutSessionLineItemParams, error) {
	ids := cart.Distinct()
	products, err := g.catalog.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("stripe: catalog lookup: %w", err)
	}

	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	tally := cart.Tally()
	items := make([]*stripego.CheckoutSessionLineItemParams, 0, len(ids))
	for _, id := range ids {
		product, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", payment.ErrUnknownProduct, id)
		}
		quantity := tally[id]
		if quantity > product.Quantity {
			return nil, fmt.Errorf("%w: %s requested=%d available=%d",
				domain.ErrInsufficientStock, id, quantity, product.Quantity)
		}

		productData := &stripego.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripego.String(product.Title),
		}
		if len(product.Images) > 0 {
			productData.Images = stripego.StringSlice(product.Images)
		}

		items = append(items, &stripego.CheckoutSessionLineItemParams{
			PriceData: &stripego.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripego.String(g.opts.Currency),
				ProductData: productData,
				// в минимальных единицах валюты (центах)
				UnitAmount: stripego.Int64(product.Price.Shift(2).Round(0).IntPart()),
			},
			Quantity: stripego.Int64(int64(quantity)),
		})
	}
	return items, nil
}
