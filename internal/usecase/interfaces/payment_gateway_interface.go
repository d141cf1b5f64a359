package interfaces

//go:generate mockgen -source=payment_gateway_interface.go -destination=mocks/payment_gateway_interface_mock.go -package=mock_interfaces

import (
	"context"

	"paystation_two_party/internal/domain/entities"
)

// IPaymentGateway abstracts the PayStation two-party endpoint.
//
// Submit returns a result for every outcome the caller can show to the end user
// (approved, declined, unreachable gateway, unreadable reply). A non-nil error
// means the reply could not be interpreted at all and the request should fail.
type IPaymentGateway interface {
	Submit(ctx context.Context, req entities.PaymentRequest) (entities.PaymentResult, error)
}
