package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Gunvolt24/wb_cart/internal/domain"
	"github.com/Gunvolt24/wb_cart/internal/ports"
	"github.com/Gunvolt24/wb_cart/pkg/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var _ ports.CheckoutService = (*CheckoutService)(nil)

var tracer = otel.Tracer("github.com/Gunvolt24/wb_cart/internal/usecase")

// CheckoutService — сборка заказа из корзины и данных покупателя, передача на оплату.
// Корзину не меняет: очистка — только по сигналу успешной оплаты (CartService.AcknowledgeSuccess).
type CheckoutService struct {
	validator ports.CheckoutValidator
	prices    ports.ProductLookup
	gateway   ports.PaymentGateway
	publisher ports.OrderPublisher // nil — без публикации
	log       ports.Logger

	now      func() time.Time
	newOrder func() string
}

// NewCheckoutService — DI-конструктор.
func NewCheckoutService(
	validator ports.CheckoutValidator,
	prices ports.ProductLookup,
	gateway ports.PaymentGateway,
	publisher ports.OrderPublisher,
	log ports.Logger,
) *CheckoutService {
	return &CheckoutService{
		validator: validator,
		prices:    prices,
		gateway:   gateway,
		publisher: publisher,
		log:       log,
		now:       time.Now,
		newOrder:  func() string { return uuid.New().String() },
	}
}

// Summary — строки корзины с ценами и итог для страницы корзины.
// Товары, которых нет в каталоге, в строки не попадают и дают 0 в итоге.
func (s *CheckoutService) Summary(ctx context.Context, cart domain.Snapshot) (*domain.CartSummary, error) {
	products, err := s.prices.FindByIDs(ctx, cart)
	if err != nil {
		return nil, priceLookupFailure(err)
	}

	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	tally := cart.Tally()
	summary := &domain.CartSummary{
		Lines: make([]domain.CartLine, 0, len(byID)),
		Total: domain.ComputeTotal(domain.NewPriceList(products), cart),
	}
	for _, id := range cart.Distinct() {
		p, ok := byID[id]
		if !ok {
			continue
		}
		line := domain.CartLine{
			ID:        id,
			Title:     p.Title,
			UnitPrice: p.Price,
			Quantity:  tally[id],
			LineTotal: p.Price.Mul(decimal.NewFromInt(int64(tally[id]))),
		}
		if len(p.Images) > 0 {
			line.Image = p.Images[0]
		}
		summary.Lines = append(summary.Lines, line)
	}
	return summary, nil
}

// Submit — оформление заказа.
// Шаги:
//  1. проверка всех полей покупателя и непустой корзины (одна агрегированная ошибка, без сетевых вызовов);
//  2. прайс-лист и итог по каждому вхождению;
//  3. передача заказа коллаборатору; ошибка или пустой URL — domain.ErrNetwork (можно повторить);
//  4. публикация события о заказе (сбой только логируется).
//
// Используется копия корзины на момент вызова: последующие мутации заказ не меняют.
func (s *CheckoutService) Submit(
	ctx context.Context,
	sessionID string,
	customer domain.Customer,
	cart domain.Snapshot,
) (*domain.CheckoutResult, error) {
	ctx, span := tracer.Start(ctx, "checkout.Submit")
	defer span.End()

	req := &domain.CheckoutRequest{Customer: customer, CartProducts: cart.Clone()}
	if err := s.validator.Validate(ctx, req); err != nil {
		metrics.CheckoutSubmissions.WithLabelValues("invalid").Inc()
		s.log.Infof(ctx, "checkout rejected sid=%s: %v", sessionID, err)
		return nil, err
	}

	products, err := s.prices.FindByIDs(ctx, req.CartProducts)
	if err != nil {
		return nil, s.networkFailure(ctx, span, priceLookupFailure(err))
	}

	order := &domain.CheckoutOrder{
		Reference:    s.newOrder(),
		Customer:     customer,
		CartProducts: req.CartProducts,
		Total:        domain.ComputeTotal(domain.NewPriceList(products), req.CartProducts),
	}
	span.SetAttributes(
		attribute.String("order.reference", order.Reference),
		attribute.Int("cart.size", len(order.CartProducts)),
	)

	redirectURL, err := s.gateway.CreateCheckout(ctx, order)
	if err != nil {
		if !errors.Is(err, domain.ErrNetwork) {
			err = fmt.Errorf("%w: %w", domain.ErrNetwork, err)
		}
		return nil, s.networkFailure(ctx, span, err)
	}
	if redirectURL == "" {
		return nil, s.networkFailure(ctx, span, fmt.Errorf("%w: %w", domain.ErrNetwork, domain.ErrMalformedResponse))
	}

	metrics.CheckoutSubmissions.WithLabelValues("ok").Inc()
	s.log.Infof(ctx, "checkout created sid=%s order=%s total=%s items=%d",
		sessionID, order.Reference, order.Total.StringFixed(2), len(order.CartProducts))

	s.publish(ctx, sessionID, order)

	return &domain.CheckoutResult{
		Reference:   order.Reference,
		RedirectURL: redirectURL,
		Total:       order.Total,
	}, nil
}

func (s *CheckoutService) publish(ctx context.Context, sessionID string, order *domain.CheckoutOrder) {
	if s.publisher == nil {
		return
	}
	ev := &domain.OrderPlacedEvent{
		Reference:    order.Reference,
		SessionID:    sessionID,
		Customer:     order.Customer,
		CartProducts: order.CartProducts,
		Total:        order.Total,
		PlacedAt:     s.now().UTC(),
	}
	if err := s.publisher.PublishOrderPlaced(ctx, ev); err != nil {
		s.log.Warnf(ctx, "publish order placed order=%s err=%v", order.Reference, err)
	}
}

// priceLookupFailure — сбой прайс-листа всегда сетевой (повторяемый).
func priceLookupFailure(err error) error {
	if errors.Is(err, domain.ErrNetwork) {
		return fmt.Errorf("price lookup: %w", err)
	}
	return fmt.Errorf("%w: price lookup: %w", domain.ErrNetwork, err)
}

func (s *CheckoutService) networkFailure(ctx context.Context, span trace.Span, err error) error {
	metrics.CheckoutSubmissions.WithLabelValues("network").Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, "checkout failed")
	s.log.Warnf(ctx, "checkout failed: %v", err)
	return err
}
