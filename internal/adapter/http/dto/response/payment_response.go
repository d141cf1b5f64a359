package response

import "paystation_two_party/internal/domain/entities"

// PaymentResponse is what the result page renders.
//
// ResponseXML is the gateway reply with one tag per line; it is empty when the
// gateway could not be reached or answered with something that is not XML.
type PaymentResponse struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	ResponseXML string `json:"response_xml"`
	IsError     bool   `json:"is_error"`
	Approved    bool   `json:"approved"`
}

func FromPaymentResult(r entities.PaymentResult) PaymentResponse {
	return PaymentResponse{
		Code:        r.Code,
		Message:     r.Message,
		ResponseXML: r.RawResponse,
		IsError:     r.IsError,
		Approved:    r.Approved(),
	}
}

type PaymentFormResponse struct {
	Amount     int64  `json:"amount"`
	CardNumber string `json:"card_number"`
	CardExpiry string `json:"card_expiry"`
}

func FromPaymentForm(f entities.PaymentForm) PaymentFormResponse {
	return PaymentFormResponse{
		Amount:     f.AmountMinorUnits,
		CardNumber: f.CardNumber,
		CardExpiry: f.CardExpiry,
	}
}

type ErrorResponse struct {
	RequestID     string `json:"request_id"`
	ShowRequestID bool   `json:"show_request_id"`
}

func NewErrorResponse(requestID string) ErrorResponse {
	return ErrorResponse{RequestID: requestID, ShowRequestID: requestID != ""}
}
