package domain

import (
	"errors"
	"strings"
)

var (
	// ErrValidation — неполные данные покупателя; без побочных эффектов.
	ErrValidation = errors.New("checkout validation failed")

	// ErrNetwork — сбой поиска цен или оформления заказа; можно повторить.
	ErrNetwork = errors.New("collaborator unavailable")

	// ErrMalformedResponse — коллаборатор ответил без URL перенаправления.
	ErrMalformedResponse = errors.New("malformed collaborator response")

	// ErrInsufficientStock — коллаборатор отказал: в заказе больше единиц, чем на складе.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidStockEvent — невалидное сообщение фида остатков (повторять бессмысленно).
	ErrInvalidStockEvent = errors.New("invalid stock event")
)

// ValidationError — одна агрегированная ошибка по всем незаполненным полям.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error() + ": missing " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
