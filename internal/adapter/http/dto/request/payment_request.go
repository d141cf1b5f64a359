package request

import "strings"

// PaymentCreateRequest is the payload of the payment form, accepted as JSON or form data.
//
// Amount is in minor units (cents). Card values are passed through as typed; the
// gateway does the card validation.
type PaymentCreateRequest struct {
	Amount     *int64 `json:"amount" form:"amount" binding:"required,min=0"`
	CardNumber string `json:"card_number" form:"card_number" binding:"required"`
	CardExpiry string `json:"card_expiry" form:"card_expiry" binding:"required,len=4"`
}

func (r PaymentCreateRequest) AmountMinorUnits() int64 {
	if r.Amount == nil {
		return 0
	}
	return *r.Amount
}

// ResolveCardNumber drops the spaces people type between digit groups.
func (r PaymentCreateRequest) ResolveCardNumber() string {
	return strings.Join(strings.Fields(r.CardNumber), "")
}

func (r PaymentCreateRequest) ResolveCardExpiry() string {
	return strings.TrimSpace(r.CardExpiry)
}
