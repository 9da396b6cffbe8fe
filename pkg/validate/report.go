package validate

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Gunvolt24/wb_cart/internal/domain"
)

// Report — итог проверки пакета запросов оформления.
type Report struct {
	Valid     int
	Invalid   int            // разобраны, но не прошли проверку полей
	Malformed int            // не разобраны как JSON
	Missing   map[string]int // поле → сколько запросов без него
}

// Rejected — всего отклонённых запросов.
func (r Report) Rejected() int { return r.Invalid + r.Malformed }

// String — "2 valid / 1 invalid; missing cartProducts=1, email=1".
func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d valid / %d invalid", r.Valid, r.Rejected())
	if r.Malformed > 0 {
		fmt.Fprintf(&b, " (%d malformed)", r.Malformed)
	}
	if len(r.Missing) == 0 {
		return b.String()
	}
	fields := make([]string, 0, len(r.Missing))
	for f := range r.Missing {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	b.WriteString("; missing ")
	for i, f := range fields {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%d", f, r.Missing[f])
	}
	return b.String()
}

// reject — учесть отклонённый запрос по виду ошибки.
func (r *Report) reject(err error) {
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		r.Malformed++
		return
	}
	r.Invalid++
	if r.Missing == nil {
		r.Missing = make(map[string]int)
	}
	for _, f := range vErr.Fields {
		r.Missing[f]++
	}
}

// CheckoutLine — принятый запрос в виде, который видит платёжный коллаборатор:
// покупатель и количества по товарам в порядке первого появления.
type CheckoutLine struct {
	domain.Customer
	Items []LineItem `json:"items"`
	Units int        `json:"units"`
}

type LineItem struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

func newCheckoutLine(req *domain.CheckoutRequest) CheckoutLine {
	tally := req.CartProducts.Tally()
	ids := req.CartProducts.Distinct()
	line := CheckoutLine{Customer: req.Customer, Items: make([]LineItem, 0, len(ids)), Units: len(req.CartProducts)}
	for _, id := range ids {
		line.Items = append(line.Items, LineItem{ID: id, Quantity: tally[id]})
	}
	return line
}
