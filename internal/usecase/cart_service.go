package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Gunvolt24/wb_cart/internal/cart"
	"github.com/Gunvolt24/wb_cart/internal/domain"
	"github.com/Gunvolt24/wb_cart/internal/ports"
	"github.com/Gunvolt24/wb_cart/pkg/metrics"
)

var _ ports.CartService = (*CartService)(nil)

// CartOptions — настройки сессий корзины.
type CartOptions struct {
	PersistTimeout time.Duration // таймаут одного обращения к слоту
	PreloadStock   bool          // загрузить все известные остатки в новую сессию
	SuccessTTL     time.Duration // сколько помнить обработанный сигнал успешной оплаты
}

// reopenAttempts — сколько раз повторить операцию, если сессию вытеснили между Open и мутацией.
const reopenAttempts = 3

// CartService — сессии корзин: создание, гидратация, мутации, сигнал успешной оплаты, фид остатков.
type CartService struct {
	sessions  SessionRegistry
	slots     ports.SnapshotStore    // nil — без долговременного хранения
	processed ports.IdempotencyStore // nil — без защиты от повторной очистки
	stockBook *cart.StockRegistry    // общая книга остатков (фид Kafka)
	locks     *sessionLocks
	log       ports.Logger
	opts      CartOptions
}

// NewCartService — DI-конструктор.
func NewCartService(
	sessions SessionRegistry,
	slots ports.SnapshotStore,
	processed ports.IdempotencyStore,
	log ports.Logger,
	opts CartOptions,
) *CartService {
	return &CartService{
		sessions:  sessions,
		slots:     slots,
		processed: processed,
		stockBook: cart.NewStockRegistry(),
		locks:     newSessionLocks(),
		log:       log,
		opts:      opts,
	}
}

// StockBook — общая книга остатков.
func (s *CartService) StockBook() *cart.StockRegistry { return s.stockBook }

// Open — живая сессия по id; при первом обращении создаётся (без гидратации).
func (s *CartService) Open(ctx context.Context, sessionID string) (*cart.Session, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: empty session id", domain.ErrValidation)
	}
	sess, created := s.sessions.GetOrCreate(sessionID, func() *cart.Session {
		adapter := cart.NewPersistenceAdapter(s.slots, cart.SlotKey(sessionID), s.opts.PersistTimeout, s.log)
		sess := cart.NewSession(sessionID, adapter)
		if s.opts.PreloadStock {
			sess.RegisterBatch(s.stockBook.Limits())
		}
		return sess
	})
	if created {
		metrics.CartSessions.Inc()
		s.log.Debugf(ctx, "cart session opened sid=%s preload=%t", sessionID, s.opts.PreloadStock)
	}
	return sess, nil
}

// withActive — op над гидратированной сессией под мьютексом id.
// Закрытая (вытесненная) сессия открывается заново, op повторяется.
func (s *CartService) withActive(ctx context.Context, sessionID string, op func(*cart.Session) error) error {
	unlock := s.locks.lock(sessionID)
	defer unlock()

	for attempt := 1; ; attempt++ {
		sess, err := s.Open(ctx, sessionID)
		if err != nil {
			return err
		}
		err = s.activate(ctx, sess)
		if err == nil {
			err = op(sess)
		}
		if !errors.Is(err, cart.ErrSessionClosed) {
			return err
		}
		if attempt == reopenAttempts {
			return fmt.Errorf("session %s: %w", sessionID, err)
		}
		s.log.Debugf(ctx, "cart session evicted mid-operation, reopening sid=%s", sessionID)
	}
}

func (s *CartService) activate(ctx context.Context, sess *cart.Session) error {
	hydrated, err := sess.Activate(ctx)
	if err != nil {
		return err
	}
	if hydrated {
		s.log.Infof(ctx, "cart hydrated sid=%s size=%d", sess.ID(), len(sess.Snapshot()))
	}
	return nil
}

// View — текущее представление; до гидратации — заглушки.
func (s *CartService) View(ctx context.Context, sessionID string) (domain.CartView, error) {
	sess, err := s.Open(ctx, sessionID)
	if err != nil {
		return domain.CartView{}, err
	}
	return sess.View(), nil
}

// Hydrate — однократное восстановление корзины из слота.
func (s *CartService) Hydrate(ctx context.Context, sessionID string) (domain.CartView, error) {
	var view domain.CartView
	err := s.withActive(ctx, sessionID, func(sess *cart.Session) error {
		view = sess.View()
		return nil
	})
	return view, err
}

// Add — добавить одно вхождение; false — тихий отказ (потолок, пустой id).
func (s *CartService) Add(ctx context.Context, sessionID, productID string) (bool, domain.CartView, error) {
	var (
		added bool
		view  domain.CartView
	)
	err := s.withActive(ctx, sessionID, func(sess *cart.Session) error {
		var err error
		if added, err = sess.AddProduct(ctx, productID); err != nil {
			return err
		}
		view = sess.View()
		return nil
	})
	if err != nil {
		return false, domain.CartView{}, err
	}
	if !added {
		s.log.Debugf(ctx, "add rejected sid=%s product=%s", sessionID, productID)
	}
	return added, view, nil
}

// Remove — убрать одно вхождение; false, если товара нет.
func (s *CartService) Remove(ctx context.Context, sessionID, productID string) (bool, domain.CartView, error) {
	var (
		removed bool
		view    domain.CartView
	)
	err := s.withActive(ctx, sessionID, func(sess *cart.Session) error {
		var err error
		if removed, err = sess.RemoveProduct(ctx, productID); err != nil {
			return err
		}
		view = sess.View()
		return nil
	})
	if err != nil {
		return false, domain.CartView{}, err
	}
	return removed, view, nil
}

// Clear — очистить корзину и слот.
func (s *CartService) Clear(ctx context.Context, sessionID string) (domain.CartView, error) {
	var view domain.CartView
	err := s.withActive(ctx, sessionID, func(sess *cart.Session) error {
		if err := sess.Clear(ctx); err != nil {
			return err
		}
		view = sess.View()
		return nil
	})
	return view, err
}

// RegisterStock — остатки, которые увидели компоненты отображения товаров.
// Невалидные записи игнорируются.
func (s *CartService) RegisterStock(ctx context.Context, sessionID string, limits map[string]int) (domain.CartView, error) {
	sess, err := s.Open(ctx, sessionID)
	if err != nil {
		return domain.CartView{}, err
	}
	accepted := sess.RegisterBatch(cart.StockLimits(limits))
	if accepted != len(limits) {
		s.log.Debugf(ctx, "stock registration sid=%s accepted=%d of %d", sessionID, accepted, len(limits))
	}
	return sess.View(), nil
}

// Item — количество и флаг потолка для одного товара.
func (s *CartService) Item(ctx context.Context, sessionID, productID string) (domain.CartItemView, error) {
	sess, err := s.Open(ctx, sessionID)
	if err != nil {
		return domain.CartItemView{}, err
	}
	return sess.Item(productID), nil
}

// Snapshot — копия корзины после гидратации (для оформления заказа).
func (s *CartService) Snapshot(ctx context.Context, sessionID string) (domain.Snapshot, error) {
	var snap domain.Snapshot
	err := s.withActive(ctx, sessionID, func(sess *cart.Session) error {
		snap = sess.Snapshot()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// AcknowledgeSuccess — сигнал успешной оплаты: очистка ровно один раз на заказ.
// Повторный сигнал с тем же orderRef возвращает false без ошибки.
// Без orderRef (или при сбое учёта) корзина очищается всегда: оплаченные товары не должны остаться.
func (s *CartService) AcknowledgeSuccess(ctx context.Context, sessionID, orderRef string) (bool, domain.CartView, error) {
	var (
		cleared bool
		view    domain.CartView
	)
	err := s.withActive(ctx, sessionID, func(sess *cart.Session) error {
		if orderRef != "" && s.processed != nil && !cleared {
			first, mErr := s.processed.MarkProcessed(ctx, successKey(sessionID, orderRef), s.opts.SuccessTTL)
			switch {
			case mErr != nil:
				s.log.Warnf(ctx, "success ack mark failed sid=%s order=%s err=%v", sessionID, orderRef, mErr)
			case !first:
				metrics.CheckoutSuccessAcks.WithLabelValues("duplicate").Inc()
				s.log.Debugf(ctx, "success ack repeated sid=%s order=%s", sessionID, orderRef)
				view = sess.View()
				return nil
			}
		}
		// отметка уже поставлена: при повторе на новой сессии только очистка
		cleared = true
		if err := sess.Clear(ctx); err != nil {
			return err
		}
		view = sess.View()
		return nil
	})
	if err != nil {
		return false, domain.CartView{}, err
	}
	if !cleared {
		return false, view, nil
	}
	metrics.CheckoutSuccessAcks.WithLabelValues("cleared").Inc()
	s.log.Infof(ctx, "cart cleared after successful checkout sid=%s order=%s", sessionID, orderRef)
	return true, view, nil
}

func successKey(sessionID, orderRef string) string {
	return "checkout:success:" + sessionID + ":" + orderRef
}

// SaveStockFromMessage — сообщение фида остатков (raw JSON из Kafka).
// Шаги:
//  1. строгий разбор {"id","quantity"} (неизвестные поля — ошибка);
//  2. обновление общей книги остатков;
//  3. обновление живых сессий, которые уже знают этот товар.
//
// Невалидное сообщение — domain.ErrInvalidStockEvent (повторять бессмысленно).
func (s *CartService) SaveStockFromMessage(ctx context.Context, raw []byte) error {
	var ev domain.StockEvent
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ev); err != nil {
		s.log.Warnf(ctx, "invalid stock json err=%v", err)
		return fmt.Errorf("%w: invalid json: %v", domain.ErrInvalidStockEvent, err)
	}
	if err := dec.Decode(new(struct{})); err != io.EOF {
		s.log.Warnf(ctx, "invalid stock json: trailing data")
		return fmt.Errorf("%w: trailing data", domain.ErrInvalidStockEvent)
	}
	if ev.ID == "" || ev.Quantity == nil || *ev.Quantity < 0 {
		s.log.Warnf(ctx, "invalid stock event id=%q", ev.ID)
		return fmt.Errorf("%w: id and non-negative quantity required", domain.ErrInvalidStockEvent)
	}

	s.stockBook.RegisterStock(ev.ID, *ev.Quantity)

	updated := 0
	for _, sess := range s.sessions.Values() {
		if sess.UpdateKnownStock(ev.ID, *ev.Quantity) {
			updated++
		}
	}

	s.log.Infof(ctx, "stock updated product=%s quantity=%d sessions=%d", ev.ID, *ev.Quantity, updated)
	return nil
}
