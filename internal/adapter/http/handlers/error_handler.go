package handlers

import (
	"log"
	"net/http"
	"strings"

	response "paystation_two_party/internal/adapter/http/dto/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-Id"

// GetError godoc
// @Summary      Error page model
// @Tags         errors
// @Produce      json
// @Success      200  {object}  response.ErrorResponse
// @Router       /error [get]
func GetError(c *gin.Context) {
	requestID := strings.TrimSpace(c.GetHeader(RequestIDHeader))
	if requestID == "" {
		requestID = uuid.NewString()
	}
	log.Printf("[error][handler] error page request_id=%s", requestID)
	c.JSON(http.StatusOK, response.NewErrorResponse(requestID))
}

// Ping godoc
// @Summary  Liveness check
// @Tags     health
// @Produce  json
// @Success  200  {object}  map[string]string
// @Router   /ping [get]
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
