package testhelpers

import (
	"testing"
	"time"

	"github.com/DanielPopoola/gst-checkout/internal/domain"
	"github.com/DanielPopoola/gst-checkout/internal/gst"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// Karnataka to Karnataka, so intra-state tax applies.
var (
	ShippingAddress = domain.Address{
		Name:       "Asha Rao",
		Street:     "12 MG Road",
		City:       "Bengaluru",
		State:      "Karnataka",
		PostalCode: "560001",
		Country:    domain.DefaultCountry,
		Phone:      "9876543210",
	}
	BillingAddress = ShippingAddress
)

// NewOrder returns a pending single line order of 1180.00 at 18%.
func NewOrder(t *testing.T, userID string) *domain.Order {
	t.Helper()

	rate := decimal.NewFromInt(18)
	total := decimal.RequireFromString("1180.00")
	b, err := gst.Compute(total, rate, false)
	require.NoError(t, err)

	order, err := domain.NewOrder(
		"ORD_"+uuid.NewString(),
		userID,
		[]domain.OrderItem{{
			ProductID:      "SKU-1",
			Name:           "Cotton kurta",
			Quantity:       1,
			UnitPrice:      total,
			LineTotal:      total,
			TaxRatePercent: rate,
		}},
		domain.Pricing{Subtotal: b.TaxableAmount, TaxAmount: b.TaxAmount, TotalAmount: b.TotalAmount},
		b.TaxDetails(rate, ""),
		ShippingAddress,
		BillingAddress,
		domain.MethodUPI,
		time.Now().UTC().Truncate(time.Microsecond),
	)
	require.NoError(t, err)
	return order
}

// NewPayment returns a pending 1180.00 payment carrying a provider order id.
func NewPayment(t *testing.T, orderID string, method domain.PaymentMethod) *domain.Payment {
	t.Helper()

	payment, err := domain.NewPayment(
		"PAY_"+uuid.NewString(),
		orderID,
		"user-1",
		decimal.RequireFromString("1180.00"),
		method,
		time.Now().UTC().Truncate(time.Microsecond),
	)
	require.NoError(t, err)

	b, err := gst.Compute(payment.Amount, gst.DefaultRate, false)
	require.NoError(t, err)
	payment.TaxDetails = b.TaxDetails(gst.DefaultRate, "")
	payment.BillingAddress = BillingAddress
	payment.DeliveryAddress = ShippingAddress
	if method != domain.MethodCashOnDelivery {
		payment.ProviderRef.OrderID = "order_" + uuid.NewString()[:14]
	}
	return payment
}
