package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Gunvolt24/wb_cart/internal/domain"
	"github.com/Gunvolt24/wb_cart/internal/ports"
)

// CheckoutFromJSON — строгий разбор тела оформления заказа и его валидация.
// Неизвестные поля и данные после объекта считаются ошибкой.
func CheckoutFromJSON(ctx context.Context, validator ports.CheckoutValidator, raw []byte) (*domain.CheckoutRequest, error) {
	var req domain.CheckoutRequest
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	if err := dec.Decode(new(struct{})); err != io.EOF {
		return nil, fmt.Errorf("invalid json: trailing data")
	}
	if err := validator.Validate(ctx, &req); err != nil {
		return nil, err
	}
	return &req, nil
}
