package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"paystation_two_party/internal/domain/entities"
	"paystation_two_party/internal/usecase/interfaces"
	"paystation_two_party/pkg/metrics"
)

var ErrPaymentGatewayNotConfigured = errors.New("payment gateway not configured")

// IPaymentUseCase is the caller-facing payment API.
//
// Submit returns a PaymentResult for every outcome the end user should see,
// including an unreachable gateway or an unreadable reply (IsError=true). A
// non-nil error means the request itself was invalid or the reply was well
// formed but unusable; the HTTP layer turns those into generic failures.

type IPaymentUseCase interface {
	Submit(ctx context.Context, amountMinorUnits int64, cardNumber, cardExpiry, merchantID, gatewayID, sessionToken string) (entities.PaymentResult, error)
	DefaultForm() entities.PaymentForm
}

type PaymentUseCase struct {
	gateway interfaces.IPaymentGateway
	now     func() time.Time
}

var _ IPaymentUseCase = (*PaymentUseCase)(nil)

func NewPaymentUseCase(gateway interfaces.IPaymentGateway) *PaymentUseCase {
	return NewPaymentUseCaseWithClock(gateway, time.Now)
}

func NewPaymentUseCaseWithClock(gateway interfaces.IPaymentGateway, now func() time.Time) *PaymentUseCase {
	if now == nil {
		now = time.Now
	}
	return &PaymentUseCase{gateway: gateway, now: now}
}

func (u *PaymentUseCase) Submit(ctx context.Context, amountMinorUnits int64, cardNumber, cardExpiry, merchantID, gatewayID, sessionToken string) (entities.PaymentResult, error) {
	log.Printf("[payment][usecase] submit start amount=%d session=%s", amountMinorUnits, entities.RedactToken(sessionToken))
	if u.gateway == nil {
		log.Printf("[payment][usecase] gateway not configured")
		return entities.PaymentResult{}, ErrPaymentGatewayNotConfigured
	}

	req, err := entities.NewPaymentRequest(amountMinorUnits, cardNumber, cardExpiry, merchantID, gatewayID, sessionToken, u.now())
	if err != nil {
		log.Printf("[payment][usecase] invalid request amount=%d err=%v", amountMinorUnits, err)
		return entities.PaymentResult{}, err
	}
	if merchantID == "" || gatewayID == "" {
		log.Printf("[payment][usecase] merchant or gateway id empty; PayStation will reject merchant_session_id=%s", req.LogRef())
	}

	start := time.Now()
	result, err := u.gateway.Submit(ctx, req)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		metrics.ObserveSubmission(metrics.OutcomeFailed, "", elapsed)
		log.Printf("[payment][usecase] submit failed merchant_session_id=%s err=%v", req.LogRef(), err)
		return entities.PaymentResult{}, err
	}

	outcome := classify(result)
	metrics.ObserveSubmission(outcome, result.Code, elapsed)
	log.Printf("[payment][usecase] submit done merchant_session_id=%s outcome=%s code=%s", req.LogRef(), outcome, result.Code)
	return result, nil
}

func (u *PaymentUseCase) DefaultForm() entities.PaymentForm {
	return entities.DefaultPaymentForm()
}

func classify(r entities.PaymentResult) string {
	switch {
	case r.IsError && r.Message == entities.MessageUnableToConnect:
		return metrics.OutcomeTransport
	case r.IsError:
		return metrics.OutcomeMalformed
	case r.Approved():
		return metrics.OutcomeApproved
	default:
		return metrics.OutcomeDeclined
	}
}
