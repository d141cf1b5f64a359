package entities

// Messages returned to the end user when a transaction could not be completed.
const (
	MessageUnableToConnect = "Unable to connect to PayStation."
	MessageMalformedXML    = "The XML file is not well formed."
)

// PaymentResult is the parsed outcome of a PayStation submission.
//
// Gateway declines are not errors: they come back with IsError=false and the
// decline reason in Code/Message. IsError is only set when the gateway could not
// be reached or its reply could not be read.

type PaymentResult struct {
	Code        string
	Message     string
	RawResponse string
	IsError     bool
}

func NewTransportErrorResult() PaymentResult {
	return PaymentResult{Message: MessageUnableToConnect, IsError: true}
}

func NewMalformedResponseResult() PaymentResult {
	return PaymentResult{Message: MessageMalformedXML, IsError: true}
}

// Approved reports whether PayStation accepted the transaction (code "0").
func (r PaymentResult) Approved() bool {
	return !r.IsError && r.Code == "0"
}
