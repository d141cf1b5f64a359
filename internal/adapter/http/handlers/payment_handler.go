package handlers

import (
	"errors"
	"log"
	"net/http"

	request "paystation_two_party/internal/adapter/http/dto/request"
	response "paystation_two_party/internal/adapter/http/dto/response"
	"paystation_two_party/internal/adapter/http/middleware"
	"paystation_two_party/internal/domain/entities"
	"paystation_two_party/internal/infrastructure/config"
	"paystation_two_party/internal/usecase"
	"paystation_two_party/pkg"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidPaymentPayload = pkg.NewDomainErrorSimple("INVALID_PAYMENT_INPUT", "Invalid payment payload", http.StatusBadRequest)
)

// PaymentHandler serves the payment form and submits payments to PayStation.
type PaymentHandler struct {
	usecase    usecase.IPaymentUseCase
	payStation config.PayStation
}

func NewPaymentHandler(uc usecase.IPaymentUseCase, ps config.PayStation) *PaymentHandler {
	return &PaymentHandler{usecase: uc, payStation: ps}
}

// GetPaymentForm godoc
// @Summary      Default payment form values
// @Tags         payments
// @Produce      json
// @Success      200  {object}  response.PaymentFormResponse
// @Router       /payments/form [get]
func (h *PaymentHandler) GetPaymentForm(c *gin.Context) {
	c.JSON(http.StatusOK, response.FromPaymentForm(h.usecase.DefaultForm()))
}

// CreatePayment godoc
// @Summary      Submit a two-party payment
// @Description  Declines, an unreachable gateway and unreadable replies are all answered with 200 and is_error/code set accordingly.
// @Tags         payments
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        payment  body      request.PaymentCreateRequest  true  "Payment"
// @Success      200      {object}  response.PaymentResponse
// @Failure      400      {object}  pkg.HTTPError
// @Failure      500      {object}  pkg.HTTPError
// @Router       /payments [post]
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var payload request.PaymentCreateRequest
	if err := c.ShouldBind(&payload); err != nil {
		log.Printf("[payment][handler] invalid payload err=%v", err)
		c.JSON(errInvalidPaymentPayload.HTTPStatus, errInvalidPaymentPayload.ToHTTPError())
		return
	}

	sessionID := middleware.SessionID(c)
	log.Printf("[payment][handler] create start amount=%d session=%s", payload.AmountMinorUnits(), entities.RedactToken(sessionID))

	result, err := h.usecase.Submit(
		c.Request.Context(),
		payload.AmountMinorUnits(),
		payload.ResolveCardNumber(),
		payload.ResolveCardExpiry(),
		h.payStation.MerchantID,
		h.payStation.GatewayID,
		sessionID,
	)
	if err != nil {
		log.Printf("[payment][handler] create failed session=%s err=%v", entities.RedactToken(sessionID), err)
		appErr := mapPaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[payment][handler] create done session=%s code=%s is_error=%t", entities.RedactToken(sessionID), result.Code, result.IsError)

	c.JSON(http.StatusOK, response.FromPaymentResult(result))
}

func mapPaymentError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, entities.ErrInvalidAmount):
		return pkg.NewDomainErrorSimple("INVALID_AMOUNT", "Amount must not be negative", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentGatewayNotConfigured):
		return pkg.NewDomainError("PAYMENT_GATEWAY_UNAVAILABLE", "Payment gateway unavailable", err, http.StatusServiceUnavailable)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
