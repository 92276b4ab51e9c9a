// Package gst computes the Indian Goods and Services Tax split for GST-inclusive amounts.
package gst

import (
	"regexp"
	"strings"

	"github.com/DanielPopoola/gst-checkout/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	two     = decimal.NewFromInt(2)

	// DefaultRate is the standard GST slab applied when a line carries no rate of its own.
	DefaultRate = decimal.NewFromInt(18)
)

// Breakdown is the tax split of one GST-inclusive amount.
type Breakdown struct {
	TaxableAmount decimal.Decimal
	TaxAmount     decimal.Decimal
	CGST          decimal.Decimal
	SGST          decimal.Decimal
	IGST          decimal.Decimal
	TotalAmount   decimal.Decimal
}

// Compute splits a GST-inclusive amount into its taxable part and tax.
//
// Outputs are rounded to two places, half away from zero. The tax is taken as the
// rounded amount minus the rounded taxable amount, and SGST as tax minus CGST, so the
// parts always add up exactly.
func Compute(amount, ratePercent decimal.Decimal, interState bool) (Breakdown, error) {
	if !amount.IsPositive() {
		return Breakdown{}, domain.NewInvalidAmountError("%s must be greater than zero", amount.String())
	}
	if ratePercent.IsNegative() {
		return Breakdown{}, domain.NewInvalidRateError(ratePercent.String())
	}

	divisor := decimal.NewFromInt(1).Add(ratePercent.Div(hundred))
	taxable := amount.Div(divisor).Round(2)
	tax := amount.Round(2).Sub(taxable)

	b := Breakdown{
		TaxableAmount: taxable,
		TaxAmount:     tax,
		CGST:          decimal.Zero,
		SGST:          decimal.Zero,
		IGST:          decimal.Zero,
		TotalAmount:   amount,
	}
	if interState {
		b.IGST = tax
		return b, nil
	}
	b.CGST = tax.Div(two).Round(2)
	b.SGST = tax.Sub(b.CGST)
	return b, nil
}

// Add sums two breakdowns component-wise.
func (b Breakdown) Add(other Breakdown) Breakdown {
	return Breakdown{
		TaxableAmount: b.TaxableAmount.Add(other.TaxableAmount),
		TaxAmount:     b.TaxAmount.Add(other.TaxAmount),
		CGST:          b.CGST.Add(other.CGST),
		SGST:          b.SGST.Add(other.SGST),
		IGST:          b.IGST.Add(other.IGST),
		TotalAmount:   b.TotalAmount.Add(other.TotalAmount),
	}
}

// TaxDetails converts the breakdown into the snapshot stored on orders and payments.
func (b Breakdown) TaxDetails(ratePercent decimal.Decimal, registrationNumber string) domain.TaxDetails {
	return domain.TaxDetails{
		RegistrationNumber: registrationNumber,
		IsRegistered:       registrationNumber != "",
		RatePercent:        ratePercent,
		TaxableAmount:      b.TaxableAmount,
		CGST:               b.CGST,
		SGST:               b.SGST,
		IGST:               b.IGST,
		TotalTax:           b.TaxAmount,
	}
}

// Engine carries the immutable tax configuration shared by the ledgers.
type Engine struct {
	defaultRate     decimal.Decimal
	normalizeStates bool
}

// NewEngine returns an engine. A negative default rate falls back to DefaultRate.
func NewEngine(defaultRate decimal.Decimal, normalizeStates bool) *Engine {
	if defaultRate.IsNegative() {
		defaultRate = DefaultRate
	}
	return &Engine{defaultRate: defaultRate, normalizeStates: normalizeStates}
}

func (e *Engine) DefaultRate() decimal.Decimal {
	return e.defaultRate
}

// RateOrDefault returns rate unless it is nil, in which case the engine default applies.
func (e *Engine) RateOrDefault(rate *decimal.Decimal) decimal.Decimal {
	if rate == nil {
		return e.defaultRate
	}
	return *rate
}

// IsInterState reports whether billing and shipping are in different states.
//
// States are compared as exact strings unless normalization is enabled, so "Karnataka"
// and "karnataka " count as different states by default.
func (e *Engine) IsInterState(billing, shipping domain.Address) bool {
	if e.normalizeStates {
		return !strings.EqualFold(strings.TrimSpace(billing.State), strings.TrimSpace(shipping.State))
	}
	return billing.State != shipping.State
}

func (e *Engine) Compute(amount, ratePercent decimal.Decimal, interState bool) (Breakdown, error) {
	return Compute(amount, ratePercent, interState)
}

// Slab is one published GST rate.
type Slab struct {
	Rate        decimal.Decimal `json:"rate"`
	Description string          `json:"description"`
}

// Rates lists the GST slabs.
func Rates() []Slab {
	return []Slab{
		{Rate: decimal.NewFromInt(0), Description: "Essential items (food grains, fresh vegetables)"},
		{Rate: decimal.NewFromInt(5), Description: "Household necessities (sugar, tea, edible oil)"},
		{Rate: decimal.NewFromInt(12), Description: "Processed food, computers"},
		{Rate: decimal.NewFromInt(18), Description: "Most goods and services (standard rate)"},
		{Rate: decimal.NewFromInt(28), Description: "Luxury items (cars, tobacco, aerated drinks)"},
	}
}

var registrationPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

// ValidateRegistration checks the shape of a 15 character GSTIN. It does not verify the checksum.
func ValidateRegistration(gstin string) bool {
	return registrationPattern.MatchString(gstin)
}
