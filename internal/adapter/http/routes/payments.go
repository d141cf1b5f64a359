package routes

import (
	"paystation_two_party/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathPing     = "/ping"
	PathError    = "/error"
	PathPayments = "/payments"
)

func addPingRoutes(rg *gin.RouterGroup) {
	rg.GET(PathPing, handlers.Ping)
}

func addErrorRoutes(rg *gin.RouterGroup) {
	rg.GET(PathError, handlers.GetError)
}

func addPaymentRoutes(rg *gin.RouterGroup, session gin.HandlerFunc, paymentHandler *handlers.PaymentHandler) {
	payments := rg.Group(PathPayments, session)
	{
		payments.GET("/form", paymentHandler.GetPaymentForm)
		payments.POST("", paymentHandler.CreatePayment)
	}
}
