package checkout

import (
	"net/url"
	"strconv"
	"strings"
)

// Payee identifies who gets paid: the shop's UPI handle and display name,
// plus the ISO currency code (INR in production).
type Payee struct {
	Address  string
	Name     string
	Currency string
}

// UPIParams carries everything a payment app needs to prefill a transfer.
type UPIParams struct {
	Payee  Payee
	Amount float64
	Note   string
	TxnRef string
}

func (p UPIParams) query() string {
	v := url.Values{}
	v.Set("pa", p.Payee.Address)
	v.Set("pn", p.Payee.Name)
	v.Set("am", strconv.FormatFloat(p.Amount, 'f', 2, 64))
	v.Set("cu", p.Payee.Currency)
	if p.Note != "" {
		v.Set("tn", p.Note)
	}
	if p.TxnRef != "" {
		v.Set("tr", p.TxnRef)
	}
	// Payment apps expect %20 for spaces, not the form-encoding plus.
	return strings.ReplaceAll(v.Encode(), "+", "%20")
}

// GenericURI is the provider-neutral upi:// link, used for QR codes and as
// the deep-link fallback.
func (p UPIParams) GenericURI() string {
	return "upi://pay?" + p.query()
}

// Provider is a payment app with its own URI scheme. Every provider link
// carries the same query as the generic one.
type Provider struct {
	Name   string
	scheme string
}

func (pr Provider) URI(params UPIParams) string {
	return pr.scheme + "?" + params.query()
}

// Providers lists the payment apps offered on mobile-class devices.
var Providers = []Provider{
	{Name: "Google Pay", scheme: "tez://upi/pay"},
	{Name: "PhonePe", scheme: "phonepe://pay"},
	{Name: "Paytm", scheme: "paytmmp://pay"},
}
