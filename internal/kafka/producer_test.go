package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/wb_cart/internal/domain"
	"github.com/Gunvolt24/wb_cart/internal/kafka/mocks"
	"github.com/Gunvolt24/wb_cart/pkg/ctxmeta"
)

func testEvent() *domain.OrderPlacedEvent {
	return &domain.OrderPlacedEvent{
		Reference:    "ref-1",
		SessionID:    "s1",
		Customer:     domain.Customer{Name: "Ann", Email: "ann@example.com"},
		CartProducts: domain.Snapshot{"p1", "p1"},
		Total:        decimal.RequireFromString("25.00"),
		PlacedAt:     time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestOrderProducer_Publish_KeyHeadersPayload(t *testing.T) {
	ctrl := gomock.NewController(t)
	w := mocks.NewMockwriter(ctrl)

	w.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, msgs ...kafka.Message) error {
			require.Len(t, msgs, 1)
			m := msgs[0]
			require.Equal(t, "ref-1", string(m.Key))
			require.Equal(t, "req-1", headerValue(&m, HeaderRequestID))
			require.Equal(t, "order.placed", headerValue(&m, HeaderEventType))

			var got domain.OrderPlacedEvent
			require.NoError(t, json.Unmarshal(m.Value, &got))
			require.Equal(t, domain.Snapshot{"p1", "p1"}, got.CartProducts)
			require.True(t, decimal.RequireFromString("25").Equal(got.Total))

			_, hasDeadline := ctx.Deadline()
			require.True(t, hasDeadline)
			return nil
		})

	p := newOrderProducer(w, ProducerConfig{Topic: "orders", WriteTimeout: time.Second}, nopLogger{})
	ctx := ctxmeta.WithRequestID(context.Background(), "req-1")
	require.NoError(t, p.PublishOrderPlaced(ctx, testEvent()))
}

func TestOrderProducer_Publish_WriteError(t *testing.T) {
	ctrl := gomock.NewController(t)
	w := mocks.NewMockwriter(ctrl)

	boom := errors.New("leader not available")
	w.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(boom)

	p := newOrderProducer(w, ProducerConfig{Topic: "orders"}, nopLogger{})
	err := p.PublishOrderPlaced(context.Background(), testEvent())
	require.ErrorIs(t, err, boom)
}

func TestOrderProducer_NilEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := newOrderProducer(mocks.NewMockwriter(ctrl), ProducerConfig{Topic: "orders"}, nopLogger{})
	require.Error(t, p.PublishOrderPlaced(context.Background(), nil))
}

func TestOrderProducer_CloseOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	w := mocks.NewMockwriter(ctrl)
	w.EXPECT().Close().Return(nil).Times(1)

	p := newOrderProducer(w, ProducerConfig{Topic: "orders"}, nopLogger{})
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
}
