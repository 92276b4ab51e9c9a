package domain

import "github.com/shopspring/decimal"

const (
	CurrencyINR    = "INR"
	DefaultCountry = "India"
)

type Address struct {
	Name       string `json:"name"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

// WithDefaults fills the country when the caller left it blank.
func (a Address) WithDefaults() Address {
	if a.Country == "" {
		a.Country = DefaultCountry
	}
	return a
}

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// TaxDetails is the GST snapshot attached to orders and payments.
// Either CGST and SGST are set, or IGST is; never both.
type TaxDetails struct {
	RegistrationNumber string          `json:"registrationNumber,omitempty"`
	IsRegistered       bool            `json:"isRegistered"`
	RatePercent        decimal.Decimal `json:"ratePercent"`
	TaxableAmount      decimal.Decimal `json:"taxableAmount"`
	CGST               decimal.Decimal `json:"cgst"`
	SGST               decimal.Decimal `json:"sgst"`
	IGST               decimal.Decimal `json:"igst"`
	TotalTax           decimal.Decimal `json:"totalTax"`
}

// IsInterState reports whether the snapshot was computed as an inter-state supply.
func (t TaxDetails) IsInterState() bool {
	return !t.IGST.IsZero()
}

// ProviderReference holds the opaque identifiers a payment provider hands back.
// The fields are merged on transitions and frozen once the payment completes.
type ProviderReference struct {
	OrderID          string `json:"orderId,omitempty"`
	PaymentID        string `json:"paymentId,omitempty"`
	Signature        string `json:"signature,omitempty"`
	UPITransactionID string `json:"upiTransactionId,omitempty"`
	UPIID            string `json:"upiId,omitempty"`
	UPIApp           string `json:"upiApp,omitempty"`
	CardLast4        string `json:"cardLast4,omitempty"`
	CardBrand        string `json:"cardBrand,omitempty"`
	CardType         string `json:"cardType,omitempty"`
}

// Merge copies every non-empty field of other over r.
func (r ProviderReference) Merge(other ProviderReference) ProviderReference {
	set := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	set(&r.OrderID, other.OrderID)
	set(&r.PaymentID, other.PaymentID)
	set(&r.Signature, other.Signature)
	set(&r.UPITransactionID, other.UPITransactionID)
	set(&r.UPIID, other.UPIID)
	set(&r.UPIApp, other.UPIApp)
	set(&r.CardLast4, other.CardLast4)
	set(&r.CardBrand, other.CardBrand)
	set(&r.CardType, other.CardType)
	return r
}
