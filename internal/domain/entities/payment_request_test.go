package entities

import (
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestBuildMerchantSessionID(t *testing.T) {
	t.Run("single digit fields are not padded", func(t *testing.T) {
		now := time.Date(2024, time.January, 2, 3, 4, 5, 6*int(time.Millisecond), time.Local)
		if got := BuildMerchantSessionID("abc", now); got != "2024123456abc" {
			t.Fatalf("expected 2024123456abc, got %q", got)
		}
	})

	t.Run("two and three digit fields", func(t *testing.T) {
		now := time.Date(2025, time.December, 31, 23, 59, 58, 999*int(time.Millisecond)+123456, time.Local)
		if got := BuildMerchantSessionID("s1", now); got != "20251231235958999s1" {
			t.Fatalf("expected 20251231235958999s1, got %q", got)
		}
	})

	t.Run("ambiguous boundaries", func(t *testing.T) {
		a := time.Date(2024, time.March, 4, 1, 23, 0, 0, time.Local)
		b := time.Date(2024, time.March, 4, 12, 3, 0, 0, time.Local)
		if BuildMerchantSessionID("x", a) != BuildMerchantSessionID("x", b) {
			t.Fatalf("expected unpadded ids to collide for 01:23 and 12:03")
		}
	})

	t.Run("numeric prefix and literal suffix", func(t *testing.T) {
		digits := regexp.MustCompile(`^[0-9]+$`)
		token := "9f1c-session&token"
		for _, now := range []time.Time{
			time.Date(1999, time.February, 28, 0, 0, 0, 0, time.Local),
			time.Date(2030, time.October, 10, 10, 10, 10, 100*int(time.Millisecond), time.Local),
			time.Now(),
		} {
			got := BuildMerchantSessionID(token, now)
			if !strings.HasSuffix(got, token) {
				t.Fatalf("expected suffix %q, got %q", token, got)
			}
			if prefix := strings.TrimSuffix(got, token); !digits.MatchString(prefix) {
				t.Fatalf("expected numeric prefix, got %q", prefix)
			}
		}
	})
}

func TestNewPaymentRequest(t *testing.T) {
	now := time.Date(2024, time.June, 15, 9, 30, 45, 120*int(time.Millisecond), time.Local)

	t.Run("negative amount", func(t *testing.T) {
		_, err := NewPaymentRequest(-1, "5123456789012346", "2105", "pi", "gi", "sess", now)
		if !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("expected ErrInvalidAmount, got %v", err)
		}
	})

	t.Run("zero amount and empty ids are accepted", func(t *testing.T) {
		req, err := NewPaymentRequest(0, "5123456789012346", "2105", "", "", "sess", now)
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if req.MerchantID != "" || req.GatewayID != "" || req.AmountMinorUnits != 0 {
			t.Fatalf("unexpected request: %+v", req)
		}
	})

	t.Run("derives merchant session id", func(t *testing.T) {
		req, err := NewPaymentRequest(800, "5123456789012346", "2105", "pi", "gi", "sess", now)
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if req.MerchantSessionID != "202461593045120sess" {
			t.Fatalf("unexpected merchant session id: %q", req.MerchantSessionID)
		}
	})
}

func TestPaymentRequest_Serialize(t *testing.T) {
	req := PaymentRequest{
		AmountMinorUnits:  800,
		CardNumber:        "5123456789012346",
		CardExpiry:        "2105",
		MerchantID:        "607113",
		GatewayID:         "DEVELOPMENT",
		SessionToken:      "sess",
		MerchantSessionID: "202461593045120sess",
	}
	want := "?paystation=_empty&pstn_pi=607113&pstn_gi=DEVELOPMENT&pstn_cn=5123456789012346&pstn_ex=2105&pstn_am=800&pstn_ms=202461593045120sess&pstn_2p=t&pstn_nr=t&pstn_tm=t"

	t.Run("exact layout", func(t *testing.T) {
		if got := req.Serialize(); got != want {
			t.Fatalf("unexpected body:\n got %s\nwant %s", got, want)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		if req.Serialize() != req.Serialize() {
			t.Fatalf("expected identical output on repeated calls")
		}
	})

	t.Run("values are not url encoded", func(t *testing.T) {
		r := req
		r.MerchantID = "a b&c"
		if got := r.Serialize(); !strings.Contains(got, "&pstn_pi=a b&c&pstn_gi=") {
			t.Fatalf("expected raw merchant id, got %s", got)
		}
	})
}

func TestPaymentRequest_MaskedCardNumber(t *testing.T) {
	if got := (PaymentRequest{CardNumber: "5123456789012346"}).MaskedCardNumber(); got != "************2346" {
		t.Fatalf("unexpected mask: %s", got)
	}
	if got := (PaymentRequest{CardNumber: "123"}).MaskedCardNumber(); got != "***" {
		t.Fatalf("unexpected mask: %s", got)
	}
}

func TestRedactToken(t *testing.T) {
	cases := map[string]string{
		"":                                     "",
		"abc":                                  "***",
		"12345678":                             "********",
		"7c9e6679-7425-40de-944b-e07fc1f90ae7": "7c9e6679***",
	}
	for in, want := range cases {
		if got := RedactToken(in); got != want {
			t.Fatalf("RedactToken(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestPaymentRequest_LogRef(t *testing.T) {
	token := "7c9e6679-7425-40de-944b-e07fc1f90ae7"
	now := time.Date(2024, time.January, 2, 3, 4, 5, 6*int(time.Millisecond), time.Local)
	req, err := NewPaymentRequest(100, "5123456789012346", "2105", "pi", "gi", token, now)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if got := req.LogRef(); got != "20241234567c9e6679***" {
		t.Fatalf("unexpected log ref %q", got)
	}
	if strings.Contains(req.LogRef(), token) {
		t.Fatalf("token leaked: %s", req.LogRef())
	}
}
