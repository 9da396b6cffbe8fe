package validate_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Gunvolt24/wb_cart/internal/domain"
	"github.com/Gunvolt24/wb_cart/pkg/validate"
	"github.com/stretchr/testify/require"
)

func validRequest() *domain.CheckoutRequest {
	return &domain.CheckoutRequest{
		Customer: domain.Customer{
			Name:          "Ada Lovelace",
			Email:         "ada@example.com",
			Phone:         "+44 20 0000 0000",
			City:          "London",
			PostalCode:    "W1",
			StreetAddress: "12 St James's Square",
			Country:       "GB",
		},
		CartProducts: domain.Snapshot{"p1", "p1", "p2"},
	}
}

func TestCheckoutValidator_Valid(t *testing.T) {
	v := validate.NewCheckoutValidator()
	require.NoError(t, v.Validate(context.Background(), validRequest()))
}

func TestCheckoutValidator_SingleMissingField(t *testing.T) {
	v := validate.NewCheckoutValidator()
	ctx := context.Background()

	cases := []struct {
		name  string
		clear func(c *domain.Customer)
		field string
	}{
		{"name", func(c *domain.Customer) { c.Name = "" }, "name"},
		{"email", func(c *domain.Customer) { c.Email = "" }, "email"},
		{"phone", func(c *domain.Customer) { c.Phone = "" }, "phone"},
		{"city", func(c *domain.Customer) { c.City = "" }, "city"},
		{"postal code", func(c *domain.Customer) { c.PostalCode = "" }, "postalCode"},
		{"street address", func(c *domain.Customer) { c.StreetAddress = "" }, "streetAddress"},
		{"country", func(c *domain.Customer) { c.Country = "" }, "country"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.clear(&req.Customer)

			err := v.Validate(ctx, req)
			require.Error(t, err)
			require.True(t, errors.Is(err, domain.ErrValidation))

			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve))
			require.Equal(t, []string{tc.field}, ve.Fields)
		})
	}
}

func TestCheckoutValidator_AggregatesAllProblems(t *testing.T) {
	v := validate.NewCheckoutValidator()

	req := validRequest()
	req.Email = ""
	req.Country = ""
	req.CartProducts = nil

	err := v.Validate(context.Background(), req)

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	require.Equal(t, []string{"email", "country", "cartProducts"}, ve.Fields)
	require.Contains(t, err.Error(), "missing email, country, cartProducts")
}

func TestCheckoutValidator_EmptyCart(t *testing.T) {
	v := validate.NewCheckoutValidator()

	req := validRequest()
	req.CartProducts = domain.Snapshot{}

	err := v.Validate(context.Background(), req)
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	require.Equal(t, []string{"cartProducts"}, ve.Fields)
}

func TestCheckoutValidator_NilRequest(t *testing.T) {
	v := validate.NewCheckoutValidator()
	err := v.Validate(context.Background(), nil)
	require.ErrorIs(t, err, domain.ErrValidation)
}
