package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

const (
	SessionStoreDynamoDB = "dynamodb"
	SessionStoreRedis    = "redis"
)

// PayStation holds the merchant credentials and gateway settings.
//
// It is loaded once at startup and only read afterwards; handlers receive it by value.
//
// Supported env vars:
//   - PAYSTATION_ID (pstn_pi), GATEWAY_ID (pstn_gi)
//   - PAYSTATION_URL (optional; defaults to the live two-party endpoint)
//   - PAYMENT_GATEWAY_MOCK / PAYSTATION_MOCK (1, true, yes, on, mock)
type PayStation struct {
	MerchantID string
	GatewayID  string
	URL        string
	MockMode   bool
}

// App is the process level configuration.
type App struct {
	Port           int
	PayStation     PayStation
	SessionStore   string
	SessionsTable  string
	RedisAddr      string
	RedisPassword  string
	SessionIdleMin int
}

func Load() App {
	cfg := App{
		Port:           getenvInt("PORT", 8080),
		PayStation:     LoadPayStationConfig(),
		SessionStore:   strings.ToLower(getenvDefault("SESSION_STORE", SessionStoreDynamoDB)),
		SessionsTable:  getenvDefault("SESSIONS_TABLE", "sessions"),
		RedisAddr:      getenvDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		SessionIdleMin: getenvInt("SESSION_IDLE_MINUTES", 20),
	}
	if cfg.SessionStore != SessionStoreDynamoDB && cfg.SessionStore != SessionStoreRedis {
		log.Printf("[config] unknown SESSION_STORE=%q; using %s", cfg.SessionStore, SessionStoreDynamoDB)
		cfg.SessionStore = SessionStoreDynamoDB
	}

	log.Printf("[config] loaded port=%d session_store=%s paystation_id=%s gateway_id=%s mock=%t",
		cfg.Port, cfg.SessionStore, cfg.PayStation.MerchantID, cfg.PayStation.GatewayID, cfg.PayStation.MockMode)
	return cfg
}

func LoadPayStationConfig() PayStation {
	ps := PayStation{
		MerchantID: strings.TrimSpace(os.Getenv("PAYSTATION_ID")),
		GatewayID:  strings.TrimSpace(os.Getenv("GATEWAY_ID")),
		URL:        strings.TrimSpace(os.Getenv("PAYSTATION_URL")),
		MockMode:   isMockEnabled(),
	}
	if ps.MerchantID == "" {
		log.Printf("[config] missing PAYSTATION_ID; PayStation will reject payments")
	}
	if ps.GatewayID == "" {
		log.Printf("[config] missing GATEWAY_ID; PayStation will reject payments")
	}
	return ps
}

func isMockEnabled() bool {
	for _, key := range []string{"PAYMENT_GATEWAY_MOCK", "PAYSTATION_MOCK"} {
		v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
		switch v {
		case "1", "true", "yes", "on", "mock":
			return true
		}
	}
	return false
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("[config] invalid %s=%q; using %d", key, v, def)
		return def
	}
	return n
}
