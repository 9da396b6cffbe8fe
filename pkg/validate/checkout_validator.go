package validate

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/Gunvolt24/wb_cart/internal/domain"
	"github.com/Gunvolt24/wb_cart/internal/ports"
	"github.com/go-playground/validator/v10"
)

// Проверка, что CheckoutValidator удовлетворяет интерфейсу ports.CheckoutValidator.
var _ ports.CheckoutValidator = (*CheckoutValidator)(nil)

// CheckoutValidator — проверка данных покупателя и корзины перед оформлением.
// Все проблемы собираются в одну *domain.ValidationError (errors.Is(err, domain.ErrValidation)).
type CheckoutValidator struct {
	v *validator.Validate
}

// NewCheckoutValidator — конструктор; имена полей в ошибках берутся из json-тегов.
func NewCheckoutValidator() *CheckoutValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &CheckoutValidator{v: v}
}

// Validate — проверяет все семь полей покупателя и непустую корзину.
func (c *CheckoutValidator) Validate(_ context.Context, req *domain.CheckoutRequest) error {
	if req == nil {
		return fmt.Errorf("%w: request is nil", domain.ErrValidation)
	}

	err := c.v.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field())
	}
	return &domain.ValidationError{Fields: fields}
}
