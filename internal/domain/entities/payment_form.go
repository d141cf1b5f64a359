package entities

// PaymentForm holds the values a payment page is prefilled with.
//
// PayStation test accounts map the cents part of the amount to a response code:
//   - 00 => 0 (approved)
//   - 51 => 5 (insufficient funds)
//   - 12 => 8 (invalid transaction)
//   - 54 => 4 (expired card)
//   - 91 => 6 (error communicating with bank)
//
// Test cards: 5123456789012346 (Mastercard), 4987654321098769 (Visa).

type PaymentForm struct {
	AmountMinorUnits int64
	CardNumber       string
	CardExpiry       string
}

const (
	DefaultFormAmount     int64 = 100
	DefaultFormCardNumber       = "5123456789012346"
	DefaultFormCardExpiry       = "2105"
)

func DefaultPaymentForm() PaymentForm {
	return PaymentForm{
		AmountMinorUnits: DefaultFormAmount,
		CardNumber:       DefaultFormCardNumber,
		CardExpiry:       DefaultFormCardExpiry,
	}
}
