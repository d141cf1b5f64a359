package payments

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"paystation_two_party/internal/domain/entities"
	"paystation_two_party/internal/usecase/interfaces"
)

const (
	DefaultPayStationURL = "https://www.paystation.co.nz/direct/paystation.dll"
	formContentType      = "application/x-www-form-urlencoded"
)

var ErrPayStationGatewayNotConfigured = errors.New("paystation gateway not configured")

// PayStationGateway posts two-party transactions to PayStation and parses the XML reply.
//
// Each Submit owns its request and response buffers, so one gateway can be shared
// by concurrent HTTP handlers. There are no retries and no client timeout: a call
// blocks until PayStation answers, the transport fails, or ctx is cancelled.
type PayStationGateway struct {
	endpoint string
	client   *http.Client
	mockMode bool
}

var _ interfaces.IPaymentGateway = (*PayStationGateway)(nil)

func NewPayStationGateway(endpoint string, mockMode bool) *PayStationGateway {
	if mockMode {
		log.Printf("[payment][gateway] mock mode enabled")
		return &PayStationGateway{mockMode: true}
	}
	if strings.TrimSpace(endpoint) == "" {
		endpoint = DefaultPayStationURL
	}
	log.Printf("[payment][gateway] PayStation client initialized endpoint=%s", endpoint)
	return &PayStationGateway{endpoint: endpoint, client: &http.Client{}}
}

// NewPayStationGatewayWithClient is NewPayStationGateway with a caller supplied http.Client.
func NewPayStationGatewayWithClient(endpoint string, client *http.Client) *PayStationGateway {
	g := NewPayStationGateway(endpoint, false)
	if client != nil {
		g.client = client
	}
	return g
}

func (g *PayStationGateway) Submit(ctx context.Context, req entities.PaymentRequest) (entities.PaymentResult, error) {
	if g != nil && g.mockMode {
		log.Printf("[payment][gateway] mock submit start merchant_session_id=%s amount=%d card=%s", req.LogRef(), req.AmountMinorUnits, req.MaskedCardNumber())
		body, err := mockResponseBody(req)
		if err != nil {
			log.Printf("[payment][gateway] mock response marshal failed err=%v", err)
			return entities.PaymentResult{}, err
		}
		return parseResponse(body)
	}

	if g == nil || g.client == nil {
		log.Printf("[payment][gateway] gateway not configured")
		return entities.PaymentResult{}, ErrPayStationGatewayNotConfigured
	}
	log.Printf("[payment][gateway] submit start merchant_session_id=%s amount=%d card=%s", req.LogRef(), req.AmountMinorUnits, req.MaskedCardNumber())

	payload := toASCII(req.Serialize())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, strings.NewReader(payload))
	if err != nil {
		log.Printf("[payment][gateway] request build failed err=%v", err)
		return entities.PaymentResult{}, fmt.Errorf("build paystation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", formContentType)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		log.Printf("[payment][gateway] transport failed merchant_session_id=%s err=%v", req.LogRef(), err)
		return entities.NewTransportErrorResult(), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[payment][gateway] unexpected status merchant_session_id=%s status=%d", req.LogRef(), resp.StatusCode)
		return entities.NewTransportErrorResult(), nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("[payment][gateway] response read failed merchant_session_id=%s err=%v", req.LogRef(), err)
		return entities.NewTransportErrorResult(), nil
	}

	result, err := parseResponse(body)
	if err != nil {
		log.Printf("[payment][gateway] response not usable merchant_session_id=%s body_len=%d err=%v", req.LogRef(), len(body), err)
		return entities.PaymentResult{}, err
	}
	if result.IsError {
		log.Printf("[payment][gateway] malformed response merchant_session_id=%s body_len=%d", req.LogRef(), len(body))
		return result, nil
	}
	log.Printf("[payment][gateway] submit done merchant_session_id=%s code=%s", req.LogRef(), result.Code)
	return result, nil
}

// toASCII replaces every rune outside 7-bit ASCII with '?'.
func toASCII(s string) string {
	return strings.Map(func(r rune) rune {
		if r > 0x7f {
			return '?'
		}
		return r
	}, s)
}
