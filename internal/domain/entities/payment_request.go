package entities

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidAmount = errors.New("invalid amount: must be a non-negative number of minor units")

// PaymentRequest is a single PayStation two-party transaction attempt.
//
// Values are built through NewPaymentRequest and passed by value; nothing mutates
// a request after it is built.
//
// Field notes:
//   - AmountMinorUnits is in cents (800 == $8.00).
//   - CardNumber / CardExpiry are forwarded untouched. CardExpiry is YYMM.
//   - MerchantID (pstn_pi) and GatewayID (pstn_gi) come from configuration. Empty values
//     are sent as-is and rejected by PayStation, not here.
//   - MerchantSessionID is derived from the clock and SessionToken (see BuildMerchantSessionID).
type PaymentRequest struct {
	AmountMinorUnits  int64
	CardNumber        string
	CardExpiry        string
	MerchantID        string
	GatewayID         string
	SessionToken      string
	MerchantSessionID string
}

func NewPaymentRequest(amountMinorUnits int64, cardNumber, cardExpiry, merchantID, gatewayID, sessionToken string, now time.Time) (PaymentRequest, error) {
	if amountMinorUnits < 0 {
		return PaymentRequest{}, ErrInvalidAmount
	}
	return PaymentRequest{
		AmountMinorUnits:  amountMinorUnits,
		CardNumber:        cardNumber,
		CardExpiry:        cardExpiry,
		MerchantID:        merchantID,
		GatewayID:         gatewayID,
		SessionToken:      sessionToken,
		MerchantSessionID: BuildMerchantSessionID(sessionToken, now),
	}, nil
}

// BuildMerchantSessionID concatenates year, month, day, hour, minute, second and
// millisecond of now (local time) followed by sessionToken.
//
// Components are NOT zero padded: 2024-01-02 03:04:05.006 renders as "2024123456",
// so the prefix cannot be split back into fields. PayStation only
// uses the value for uniqueness, which holds as long as one session never submits
// twice within the same millisecond.
func BuildMerchantSessionID(sessionToken string, now time.Time) string {
	t := now.Local()
	var b strings.Builder
	for _, part := range []int{
		t.Year(),
		int(t.Month()),
		t.Day(),
		t.Hour(),
		t.Minute(),
		t.Second(),
		t.Nanosecond() / int(time.Millisecond),
	} {
		b.WriteString(strconv.Itoa(part))
	}
	b.WriteString(sessionToken)
	return b.String()
}

// Serialize renders the request body PayStation expects. Key order and names are
// fixed and values are written raw (no URL encoding).
func (r PaymentRequest) Serialize() string {
	var b strings.Builder
	b.WriteString("?paystation=_empty")
	b.WriteString("&pstn_pi=" + r.MerchantID)
	b.WriteString("&pstn_gi=" + r.GatewayID)
	b.WriteString("&pstn_cn=" + r.CardNumber)
	b.WriteString("&pstn_ex=" + r.CardExpiry)
	b.WriteString("&pstn_am=" + strconv.FormatInt(r.AmountMinorUnits, 10))
	b.WriteString("&pstn_ms=" + r.MerchantSessionID)
	// two-party, no redirect, test mode
	b.WriteString("&pstn_2p=t&pstn_nr=t&pstn_tm=t")
	return b.String()
}

// LogRef is MerchantSessionID with the session token part redacted.
func (r PaymentRequest) LogRef() string {
	return strings.TrimSuffix(r.MerchantSessionID, r.SessionToken) + RedactToken(r.SessionToken)
}

// MaskedCardNumber returns the card number with everything but the last four digits hidden.
func (r PaymentRequest) MaskedCardNumber() string {
	n := len(r.CardNumber)
	if n <= 4 {
		return strings.Repeat("*", n)
	}
	return strings.Repeat("*", n-4) + r.CardNumber[n-4:]
}
