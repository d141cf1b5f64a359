package payments

import (
	"context"
	"errors"
	"strings"
	"testing"

	"paystation_two_party/internal/domain/entities"
)

func TestParseResponse(t *testing.T) {
	t.Run("first element wins", func(t *testing.T) {
		body := `<r><PaystationErrorCode>4</PaystationErrorCode><PaystationErrorCode>9</PaystationErrorCode><PaystationErrorMessage>Expired Card</PaystationErrorMessage><PaystationErrorMessage>other</PaystationErrorMessage></r>`
		res, err := parseResponse([]byte(body))
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if res.Code != "4" || res.Message != "Expired Card" {
			t.Fatalf("unexpected result: %+v", res)
		}
	})

	t.Run("nested elements are found", func(t *testing.T) {
		body := `<r><a><b><PaystationErrorMessage>deep</PaystationErrorMessage></b></a><PaystationErrorCode>0</PaystationErrorCode></r>`
		res, err := parseResponse([]byte(body))
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if res.Code != "0" || res.Message != "deep" {
			t.Fatalf("unexpected result: %+v", res)
		}
	})

	t.Run("inner xml is kept raw", func(t *testing.T) {
		body := `<r><PaystationErrorCode>0</PaystationErrorCode><PaystationErrorMessage>Fish &amp; Chips</PaystationErrorMessage></r>`
		res, err := parseResponse([]byte(body))
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if res.Message != "Fish &amp; Chips" {
			t.Fatalf("unexpected message: %q", res.Message)
		}
	})

	t.Run("declared latin1 encoding", func(t *testing.T) {
		body := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><r><PaystationErrorCode>0</PaystationErrorCode><PaystationErrorMessage>Caf\xe9</PaystationErrorMessage></r>"
		res, err := parseResponse([]byte(body))
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if res.IsError || res.Message != "Café" {
			t.Fatalf("unexpected result: %+v", res)
		}
	})

	t.Run("stray byte without declared encoding", func(t *testing.T) {
		body := "<r><PaystationErrorCode>0</PaystationErrorCode><PaystationErrorMessage>Caf\xe9</PaystationErrorMessage></r>"
		res, err := parseResponse([]byte(body))
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if res.IsError || res.Code != "0" || res.Message != "Caf\uFFFD" {
			t.Fatalf("unexpected result: %+v", res)
		}
	})

	t.Run("stray byte in declared utf-8", func(t *testing.T) {
		body := "<?xml version=\"1.0\" encoding=\"UTF-8\"?><r><PaystationErrorCode>0</PaystationErrorCode><PaystationErrorMessage>ok\xff</PaystationErrorMessage></r>"
		res, err := parseResponse([]byte(body))
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if res.IsError || res.Code != "0" || res.Message != "ok\uFFFD" {
			t.Fatalf("unexpected result: %+v", res)
		}
	})

	t.Run("unknown declared encoding", func(t *testing.T) {
		body := "<?xml version=\"1.0\" encoding=\"x-no-such-charset\"?><r><PaystationErrorCode>0</PaystationErrorCode><PaystationErrorMessage>ok</PaystationErrorMessage></r>"
		res, err := parseResponse([]byte(body))
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if !res.IsError || res.Message != entities.MessageMalformedXML {
			t.Fatalf("unexpected result: %+v", res)
		}
	})

	t.Run("prefixed elements are other elements", func(t *testing.T) {
		body := `<r xmlns:p="urn:p"><p:PaystationErrorCode>9</p:PaystationErrorCode><PaystationErrorCode>0</PaystationErrorCode><PaystationErrorMessage>ok</PaystationErrorMessage></r>`
		res, err := parseResponse([]byte(body))
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if res.Code != "0" {
			t.Fatalf("unexpected code: %q", res.Code)
		}
	})

	t.Run("only prefixed code element", func(t *testing.T) {
		body := `<r xmlns:p="urn:p"><p:PaystationErrorCode>0</p:PaystationErrorCode><PaystationErrorMessage>ok</PaystationErrorMessage></r>`
		_, err := parseResponse([]byte(body))
		if !errors.Is(err, ErrMissingResponseElement) {
			t.Fatalf("expected ErrMissingResponseElement, got %v", err)
		}
	})

	t.Run("default namespace still matches", func(t *testing.T) {
		body := `<r xmlns="urn:ps"><PaystationErrorCode>0</PaystationErrorCode><PaystationErrorMessage>ok</PaystationErrorMessage></r>`
		res, err := parseResponse([]byte(body))
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if res.IsError || res.Code != "0" {
			t.Fatalf("unexpected result: %+v", res)
		}
	})

	t.Run("code nested in message", func(t *testing.T) {
		body := `<r><PaystationErrorMessage>a<PaystationErrorCode>7</PaystationErrorCode></PaystationErrorMessage><PaystationErrorCode>0</PaystationErrorCode></r>`
		res, err := parseResponse([]byte(body))
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if res.Code != "7" || res.Message != "a<PaystationErrorCode>7</PaystationErrorCode>" {
			t.Fatalf("unexpected result: %+v", res)
		}
	})

	t.Run("empty element", func(t *testing.T) {
		res, err := parseResponse([]byte(`<r><PaystationErrorCode/><PaystationErrorMessage></PaystationErrorMessage></r>`))
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if res.IsError || res.Code != "" || res.Message != "" {
			t.Fatalf("unexpected result: %+v", res)
		}
	})

	t.Run("byte order mark", func(t *testing.T) {
		body := "\xef\xbb\xbf<r><PaystationErrorCode>0</PaystationErrorCode><PaystationErrorMessage>ok</PaystationErrorMessage></r>"
		res, err := parseResponse([]byte(body))
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if res.IsError || !strings.HasPrefix(res.RawResponse, "<r>") {
			t.Fatalf("unexpected result: %+v", res)
		}
	})

	t.Run("missing message", func(t *testing.T) {
		_, err := parseResponse([]byte(`<r><PaystationErrorCode>0</PaystationErrorCode></r>`))
		if !errors.Is(err, ErrMissingResponseElement) || !strings.Contains(err.Error(), messageElement) {
			t.Fatalf("expected missing message error, got %v", err)
		}
	})

	t.Run("missing code", func(t *testing.T) {
		_, err := parseResponse([]byte(`<r><PaystationErrorMessage>x</PaystationErrorMessage></r>`))
		if !errors.Is(err, ErrMissingResponseElement) || !strings.Contains(err.Error(), codeElement) {
			t.Fatalf("expected missing code error, got %v", err)
		}
	})

	malformed := map[string]string{
		"empty body":                     "",
		"plain text":                     "not xml",
		"unclosed root":                  "<r><PaystationErrorCode>0</PaystationErrorCode>",
		"mismatched tags":                "<r><a></b></r>",
		"two roots":                      "<a></a><b></b>",
		"trailing text":                  "<r><PaystationErrorCode>0</PaystationErrorCode><PaystationErrorMessage>x</PaystationErrorMessage></r>junk",
		"html error page":                "<html><body><p>Service Unavailable<br></body></html>",
		"broken inside code":             "<r><PaystationErrorCode><x></PaystationErrorCode></r>",
		"duplicate attribute":            `<r a="1" a="2"><PaystationErrorCode>0</PaystationErrorCode><PaystationErrorMessage>x</PaystationErrorMessage></r>`,
		"duplicate namespaced attribute": `<r xmlns:p="urn:x" xmlns:q="urn:x" p:a="1" q:a="2"><PaystationErrorCode>0</PaystationErrorCode><PaystationErrorMessage>x</PaystationErrorMessage></r>`,
		"undeclared element prefix":      `<r><q:PaystationErrorCode>0</q:PaystationErrorCode><PaystationErrorCode>0</PaystationErrorCode><PaystationErrorMessage>x</PaystationErrorMessage></r>`,
		"undeclared attribute prefix":    `<r q:a="1"><PaystationErrorCode>0</PaystationErrorCode><PaystationErrorMessage>x</PaystationErrorMessage></r>`,
		"prefix out of scope":            `<r><a xmlns:p="urn:p"></a><p:b/></r>`,
		"empty prefix declaration":       `<r xmlns:p=""><PaystationErrorCode>0</PaystationErrorCode><PaystationErrorMessage>x</PaystationErrorMessage></r>`,
		"declaration after root":         `<r><PaystationErrorCode>0</PaystationErrorCode><PaystationErrorMessage>x</PaystationErrorMessage></r><?xml version="1.0"?>`,
		"declaration after whitespace":   " <?xml version=\"1.0\"?><r><PaystationErrorCode>0</PaystationErrorCode><PaystationErrorMessage>x</PaystationErrorMessage></r>",
		"cdata outside root":             "<r><PaystationErrorCode>0</PaystationErrorCode><PaystationErrorMessage>x</PaystationErrorMessage></r><![CDATA[ ]]>",
	}
	for name, body := range malformed {
		t.Run("malformed "+name, func(t *testing.T) {
			res, err := parseResponse([]byte(body))
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if !res.IsError || res.Message != "The XML file is not well formed." || res.Code != "" || res.RawResponse != "" {
				t.Fatalf("unexpected result: %+v", res)
			}
		})
	}
}

func rawResponseOf(t *testing.T, doc string) string {
	t.Helper()
	scan, err := scanResponse([]byte(doc))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	return formatRawResponse([]byte(doc), scan.ignorable)
}

func TestFormatRawResponse(t *testing.T) {
	t.Run("compact document", func(t *testing.T) {
		got := rawResponseOf(t, `<a><b>1</b><c>2</c></a>`)
		if got != "<a>\n<b>1</b>\n<c>2</c>\n</a>" {
			t.Fatalf("unexpected output: %q", got)
		}
	})

	t.Run("indented document", func(t *testing.T) {
		got := rawResponseOf(t, "<?xml version=\"1.0\"?>\n<a>\n  <b>1</b>\n</a>\n")
		if got != "<?xml version=\"1.0\"?>\n<a>\n<b>1</b>\n</a>" {
			t.Fatalf("unexpected output: %q", got)
		}
	})

	t.Run("text with spaces untouched", func(t *testing.T) {
		got := rawResponseOf(t, `<a>x y</a>`)
		if got != "<a>x y</a>" {
			t.Fatalf("unexpected output: %q", got)
		}
	})

	t.Run("cdata keeps its whitespace", func(t *testing.T) {
		got := rawResponseOf(t, "<a>\n  <b><![CDATA[a>  <b]]></b>\n</a>")
		if got != "<a>\n<b><![CDATA[a>  <b]]>\n</b>\n</a>" {
			t.Fatalf("unexpected output: %q", got)
		}
	})

	t.Run("text next to markup keeps its whitespace", func(t *testing.T) {
		got := rawResponseOf(t, "<a><b>x  </b>  <c/></a>")
		if got != "<a>\n<b>x  </b>\n<c/>\n</a>" {
			t.Fatalf("unexpected output: %q", got)
		}
	})

	t.Run("whitespace written as a character reference is content", func(t *testing.T) {
		got := rawResponseOf(t, "<a><b/>&#32;<c/></a>")
		if got != "<a>\n<b/>&#32;<c/>\n</a>" {
			t.Fatalf("unexpected output: %q", got)
		}
	})
}

func TestPayStationGateway_MockMode(t *testing.T) {
	cases := []struct {
		amount  int64
		code    string
		message string
	}{
		{800, "0", "Transaction successful"},
		{1051, "5", "Insufficient Funds"},
		{12, "8", "Invalid Transaction"},
		{254, "4", "Expired Card"},
		{391, "6", "Error communicating with Bank"},
		{799, "0", "Transaction successful"},
	}

	g := NewPayStationGateway("", true)
	for _, tc := range cases {
		req := testRequest(t)
		req.AmountMinorUnits = tc.amount

		res, err := g.Submit(context.Background(), req)
		if err != nil {
			t.Fatalf("amount=%d unexpected err: %v", tc.amount, err)
		}
		if res.IsError || res.Code != tc.code || res.Message != tc.message {
			t.Fatalf("amount=%d unexpected result: %+v", tc.amount, res)
		}
		if !strings.Contains(res.RawResponse, "<MerchantSession>"+req.MerchantSessionID+"</MerchantSession>") {
			t.Fatalf("amount=%d raw response missing merchant session: %s", tc.amount, res.RawResponse)
		}
		if strings.Contains(res.RawResponse, "><") {
			t.Fatalf("amount=%d raw response not split: %s", tc.amount, res.RawResponse)
		}
	}
}
