package kafka

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/segmentio/kafka-go"

	"github.com/Gunvolt24/wb_cart/internal/domain"
	"github.com/Gunvolt24/wb_cart/internal/kafka/mocks"
	"github.com/Gunvolt24/wb_cart/pkg/ctxmeta"
)

type nopLogger struct{}

func (nopLogger) Debugf(context.Context, string, ...any) {}
func (nopLogger) Infof(context.Context, string, ...any)  {}
func (nopLogger) Warnf(context.Context, string, ...any)  {}
func (nopLogger) Errorf(context.Context, string, ...any) {}

var testReaderConfig = kafka.ReaderConfig{Topic: "stock", GroupID: "g1", Brokers: []string{"b:9092"}}

func runAsync(ctx context.Context, c *StockConsumer) <-chan error {
	errCh := make(chan error, 1)
	go func() { errCh <- c.Run(ctx) }()
	return errCh
}

func newTestConsumer(r reader, s stockSaver) *StockConsumer {
	return newStockConsumer(r, s, nopLogger{}, ConsumerConfig{
		ProcessTimeout: 30 * time.Millisecond,
		RetryInitial:   5 * time.Millisecond,
		RetryMax:       10 * time.Millisecond,
	}, rand.New(rand.NewSource(1)))
}

// blockUntilCancel — второй FetchMessage ждёт отмены контекста.
func blockUntilCancel(r *mocks.Mockreader) {
	r.EXPECT().FetchMessage(gomock.Any()).
		DoAndReturn(func(ctx context.Context) (kafka.Message, error) {
			<-ctx.Done()
			return kafka.Message{}, ctx.Err()
		})
}

func stopAndWait(t *testing.T, cancel context.CancelFunc, errCh <-chan error) {
	t.Helper()
	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("want context.Canceled, got %v", err)
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatal("timeout waiting for Run to stop")
	}
}

// Успешная обработка + коммит
func TestRun_OK_Commits(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	s := mocks.NewMockstockSaver(ctrl)

	r.EXPECT().Config().Return(testReaderConfig).AnyTimes()
	msg := kafka.Message{Topic: "stock", Offset: 1, Value: []byte(`{"id":"p1","quantity":2}`)}
	r.EXPECT().FetchMessage(gomock.Any()).Return(msg, nil)
	s.EXPECT().SaveStockFromMessage(gomock.Any(), msg.Value).Return(nil)
	r.EXPECT().CommitMessages(gomock.Any(), msg).Return(nil)
	blockUntilCancel(r)

	ctx, cancel := context.WithCancel(context.Background())
	stopAndWait(t, cancel, runAsync(ctx, newTestConsumer(r, s)))
}

// Невалидное событие остатков — коммитим, чтобы не крутить мусор
func TestRun_InvalidStockEvent_Commits(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	s := mocks.NewMockstockSaver(ctrl)

	r.EXPECT().Config().Return(testReaderConfig).AnyTimes()
	msg := kafka.Message{Topic: "stock", Offset: 7, Value: []byte("bad")}
	r.EXPECT().FetchMessage(gomock.Any()).Return(msg, nil)
	s.EXPECT().SaveStockFromMessage(gomock.Any(), msg.Value).
		Return(fmt.Errorf("%w: invalid json", domain.ErrInvalidStockEvent))
	r.EXPECT().CommitMessages(gomock.Any(), msg).Return(nil)
	blockUntilCancel(r)

	ctx, cancel := context.WithCancel(context.Background())
	stopAndWait(t, cancel, runAsync(ctx, newTestConsumer(r, s)))
}

// Временная ошибка — без коммита (лишний CommitMessages уронит тест как unexpected call)
func TestRun_TemporaryFailure_NoCommit(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	s := mocks.NewMockstockSaver(ctrl)

	r.EXPECT().Config().Return(testReaderConfig).AnyTimes()
	r.EXPECT().FetchMessage(gomock.Any()).
		Return(kafka.Message{Topic: "stock", Offset: 2, Value: []byte("x")}, nil)
	s.EXPECT().SaveStockFromMessage(gomock.Any(), []byte("x")).Return(errors.New("deadline"))
	blockUntilCancel(r)

	ctx, cancel := context.WithCancel(context.Background())
	stopAndWait(t, cancel, runAsync(ctx, newTestConsumer(r, s)))
}

// request id из заголовка сообщения доходит до обработчика
func TestRun_PropagatesRequestIDHeader(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	s := mocks.NewMockstockSaver(ctrl)

	r.EXPECT().Config().Return(testReaderConfig).AnyTimes()
	msg := kafka.Message{
		Topic:   "stock",
		Value:   []byte("{}"),
		Headers: []kafka.Header{{Key: HeaderRequestID, Value: []byte("req-42")}},
	}
	r.EXPECT().FetchMessage(gomock.Any()).Return(msg, nil)
	s.EXPECT().SaveStockFromMessage(gomock.Any(), msg.Value).
		DoAndReturn(func(ctx context.Context, _ []byte) error {
			if rid, _ := ctxmeta.RequestIDFromContext(ctx); rid != "req-42" {
				t.Errorf("request id: got %q", rid)
			}
			if _, ok := ctx.Deadline(); !ok {
				t.Errorf("process context must have a deadline")
			}
			return nil
		})
	r.EXPECT().CommitMessages(gomock.Any(), gomock.Any()).Return(nil)
	blockUntilCancel(r)

	ctx, cancel := context.WithCancel(context.Background())
	stopAndWait(t, cancel, runAsync(ctx, newTestConsumer(r, s)))
}

// Ошибки FetchMessage ретраятся до отмены контекста
func TestRun_FetchError_RetryThenStopOnCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	s := mocks.NewMockstockSaver(ctrl)

	r.EXPECT().Config().Return(testReaderConfig).AnyTimes()
	r.EXPECT().FetchMessage(gomock.Any()).
		Return(kafka.Message{}, errors.New("broker error")).AnyTimes()

	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()

	if err := newTestConsumer(r, s).Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("want DeadlineExceeded, got %v", err)
	}
}

// Ошибка коммита — только предупреждение, цикл продолжается
func TestRun_CommitWarnOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	s := mocks.NewMockstockSaver(ctrl)

	r.EXPECT().Config().Return(testReaderConfig).AnyTimes()
	r.EXPECT().FetchMessage(gomock.Any()).
		Return(kafka.Message{Topic: "stock", Offset: 3, Value: []byte("ok")}, nil)
	s.EXPECT().SaveStockFromMessage(gomock.Any(), []byte("ok")).Return(nil)
	r.EXPECT().CommitMessages(gomock.Any(), gomock.Any()).Return(errors.New("temporary"))
	blockUntilCancel(r)

	ctx, cancel := context.WithCancel(context.Background())
	stopAndWait(t, cancel, runAsync(ctx, newTestConsumer(r, s)))
}

func TestClose_DelegatesToReaderOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	s := mocks.NewMockstockSaver(ctrl)

	r.EXPECT().Close().Return(nil).Times(1)

	c := newTestConsumer(r, s)
	if err := c.Close(); err != nil {
		t.Fatalf("expected nil from Close, got %v", err)
	}
	_ = c.Close()
}

func TestBackoff_GrowsAndResets(t *testing.T) {
	b := newBackoff(10*time.Millisecond, 40*time.Millisecond, rand.New(rand.NewSource(1)))

	for i, wantMax := range []time.Duration{10, 20, 40, 40} {
		d := b.Next()
		if d < wantMax*time.Millisecond/2 || d > wantMax*time.Millisecond {
			t.Fatalf("step %d: delay %s out of [%s, %s]", i, d, wantMax*time.Millisecond/2, wantMax*time.Millisecond)
		}
	}

	b.Reset()
	if d := b.Next(); d > 10*time.Millisecond {
		t.Fatalf("after reset delay must start from initial, got %s", d)
	}
}
