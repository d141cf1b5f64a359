package payments

import (
	"encoding/xml"
	"strconv"
	"time"

	"paystation_two_party/internal/domain/entities"
)

// mockResponse mirrors the subset of PayStation's two-party reply the parser and
// the UI care about.
type mockResponse struct {
	XMLName                xml.Name `xml:"response"`
	ErrorCode              string   `xml:"ec"`
	ErrorMessage           string   `xml:"em"`
	TransactionID          string   `xml:"ti"`
	TransactionMode        string   `xml:"tm"`
	MerchantSession        string   `xml:"MerchantSession"`
	PurchaseAmount         int64    `xml:"PurchaseAmount"`
	TransactionTime        string   `xml:"TransactionTime"`
	PaystationErrorCode    string   `xml:"PaystationErrorCode"`
	PaystationErrorMessage string   `xml:"PaystationErrorMessage"`
}

type mockOutcome struct {
	code    string
	message string
}

// Test account outcomes keyed by the cents part of the amount.
var mockOutcomes = map[int64]mockOutcome{
	0:  {"0", "Transaction successful"},
	51: {"5", "Insufficient Funds"},
	12: {"8", "Invalid Transaction"},
	54: {"4", "Expired Card"},
	91: {"6", "Error communicating with Bank"},
}

func mockOutcomeFor(amountMinorUnits int64) mockOutcome {
	if o, ok := mockOutcomes[amountMinorUnits%100]; ok {
		return o
	}
	return mockOutcomes[0]
}

func mockResponseBody(req entities.PaymentRequest) ([]byte, error) {
	o := mockOutcomeFor(req.AmountMinorUnits)
	now := time.Now()
	b, err := xml.Marshal(mockResponse{
		ErrorCode:              o.code,
		ErrorMessage:           o.message,
		TransactionID:          strconv.FormatInt(now.UTC().UnixNano(), 10),
		TransactionMode:        "T",
		MerchantSession:        req.MerchantSessionID,
		PurchaseAmount:         req.AmountMinorUnits,
		TransactionTime:        now.Format("2006-01-02 15:04:05"),
		PaystationErrorCode:    o.code,
		PaystationErrorMessage: o.message,
	})
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), b...), nil
}
