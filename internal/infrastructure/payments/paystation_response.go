package payments

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html/charset"

	"paystation_two_party/internal/domain/entities"
)

const (
	codeElement    = "PaystationErrorCode"
	messageElement = "PaystationErrorMessage"
)

var ErrMissingResponseElement = errors.New("paystation response missing expected element")

var errMalformedXML = errors.New("malformed xml")

var (
	utf8BOM      = []byte{0xef, 0xbb, 0xbf}
	cdataPrefix  = []byte("<![CDATA[")
	xmlSpace     = " \t\r\n"
	declEncoding = regexp.MustCompile(`^<\?xml\s[^?]*?encoding\s*=\s*["']([A-Za-z0-9._:-]+)["']`)
)

// parseResponse turns a PayStation reply into a PaymentResult.
//
//   - not well formed => malformed result, nil error
//   - well formed but missing code/message => ErrMissingResponseElement
//   - otherwise => Code/Message from the first matching elements, IsError=false
func parseResponse(body []byte) (entities.PaymentResult, error) {
	doc, err := decodeDocument(body)
	if err != nil {
		return entities.NewMalformedResponseResult(), nil
	}
	scan, err := scanResponse(doc)
	if errors.Is(err, errMalformedXML) {
		return entities.NewMalformedResponseResult(), nil
	}
	if err != nil {
		return entities.PaymentResult{}, err
	}

	code, ok := scan.fields[codeElement]
	if !ok {
		return entities.PaymentResult{}, fmt.Errorf("%w: %s", ErrMissingResponseElement, codeElement)
	}
	message, ok := scan.fields[messageElement]
	if !ok {
		return entities.PaymentResult{}, fmt.Errorf("%w: %s", ErrMissingResponseElement, messageElement)
	}

	return entities.PaymentResult{
		Code:        code,
		Message:     message,
		RawResponse: formatRawResponse(doc, scan.ignorable),
	}, nil
}

// decodeDocument returns body as UTF-8. A declared non UTF-8 encoding is
// converted; otherwise invalid byte sequences become U+FFFD so one bad byte in
// a text node does not turn an answered payment into a parse failure.
func decodeDocument(body []byte) ([]byte, error) {
	body = bytes.TrimPrefix(body, utf8BOM)
	m := declEncoding.FindSubmatch(body)
	if m == nil || isUTF8Label(string(m[1])) {
		return bytes.ToValidUTF8(body, []byte("\uFFFD")), nil
	}

	r, err := charset.NewReaderLabel(string(m[1]), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformedXML, err)
	}
	return io.ReadAll(r)
}

func isUTF8Label(label string) bool {
	return strings.EqualFold(label, "utf-8") || strings.EqualFold(label, "utf8")
}

type span struct{ start, end int64 }

type responseScan struct {
	// inner XML of the first code and message elements, keyed by qualified name
	fields map[string]string
	// whitespace-only text between markup, dropped from RawResponse
	ignorable []span
}

type openElement struct {
	name       xml.Name
	capture    string
	innerStart int64
	namespaces map[string]string
}

// scanResponse walks the whole document with raw tokens, so trailing garbage is
// reported even after both fields were found. Element names are matched by
// qualified name: a prefixed <p:PaystationErrorCode> is a different element.
//
// doc must already be UTF-8; the encoding declaration is only validated here.
func scanResponse(doc []byte) (responseScan, error) {
	dec := xml.NewDecoder(bytes.NewReader(doc))
	dec.CharsetReader = func(_ string, r io.Reader) (io.Reader, error) { return r, nil }

	scan := responseScan{fields: make(map[string]string, 2)}
	pending := make(map[string]bool, 2)
	var stack []openElement
	roots := 0

	for n := 0; ; n++ {
		start := dec.InputOffset()
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return responseScan{}, fmt.Errorf("%w: %v", errMalformedXML, err)
		}
		end := dec.InputOffset()

		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) == 0 {
				roots++
				if roots > 1 {
					return responseScan{}, fmt.Errorf("%w: multiple root elements", errMalformedXML)
				}
			}
			el, err := openScope(t, stack)
			if err != nil {
				return responseScan{}, err
			}
			name := t.Name.Local
			if t.Name.Space == "" && (name == codeElement || name == messageElement) && !pending[name] {
				pending[name] = true
				el.capture = name
				el.innerStart = end
			}
			stack = append(stack, el)

		case xml.EndElement:
			if len(stack) == 0 || stack[len(stack)-1].name != t.Name {
				return responseScan{}, fmt.Errorf("%w: unexpected end element </%s>", errMalformedXML, qualified(t.Name))
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if top.capture != "" {
				scan.fields[top.capture] = string(doc[top.innerStart:start])
			}

		case xml.CharData:
			raw := doc[start:end]
			isCDATA := bytes.HasPrefix(raw, cdataPrefix)
			blank := !isCDATA && len(bytes.Trim(raw, xmlSpace)) == 0
			if len(stack) == 0 && !blank {
				return responseScan{}, fmt.Errorf("%w: text outside root element", errMalformedXML)
			}
			if blank {
				scan.ignorable = append(scan.ignorable, span{start, end})
			}

		case xml.ProcInst:
			if strings.EqualFold(t.Target, "xml") && n != 0 {
				return responseScan{}, fmt.Errorf("%w: xml declaration is not the first token", errMalformedXML)
			}

		case xml.Directive:
			if roots > 0 {
				return responseScan{}, fmt.Errorf("%w: directive after root element", errMalformedXML)
			}
		}
	}
	if len(stack) > 0 {
		return responseScan{}, fmt.Errorf("%w: unclosed element <%s>", errMalformedXML, qualified(stack[len(stack)-1].name))
	}
	if roots == 0 {
		return responseScan{}, fmt.Errorf("%w: root element is missing", errMalformedXML)
	}
	return scan, nil
}

// openScope checks the attributes and prefixes of t against the namespaces in
// scope and returns the element with its own declarations applied.
func openScope(t xml.StartElement, stack []openElement) (openElement, error) {
	var parent map[string]string
	if len(stack) > 0 {
		parent = stack[len(stack)-1].namespaces
	}
	el := openElement{name: t.Name, namespaces: parent}

	// unprefixed names never need resolving, so only prefix declarations are kept
	declared := false
	for _, a := range t.Attr {
		if a.Name.Space != "xmlns" {
			continue
		}
		if a.Name.Local == "xmlns" || a.Value == "" {
			return openElement{}, fmt.Errorf("%w: invalid namespace declaration xmlns:%s", errMalformedXML, a.Name.Local)
		}
		if !declared {
			el.namespaces = make(map[string]string, len(parent)+1)
			for k, v := range parent {
				el.namespaces[k] = v
			}
			declared = true
		}
		el.namespaces[a.Name.Local] = a.Value
	}

	if !prefixBound(t.Name.Space, el.namespaces) {
		return openElement{}, fmt.Errorf("%w: undeclared prefix %q", errMalformedXML, t.Name.Space)
	}

	seen := make(map[xml.Name]bool, len(t.Attr))
	for _, a := range t.Attr {
		if a.Name.Space != "" && a.Name.Space != "xmlns" && !prefixBound(a.Name.Space, el.namespaces) {
			return openElement{}, fmt.Errorf("%w: undeclared prefix %q", errMalformedXML, a.Name.Space)
		}
		key := a.Name
		if uri, ok := el.namespaces[a.Name.Space]; ok && a.Name.Space != "xmlns" {
			key.Space = uri
		}
		if seen[key] {
			return openElement{}, fmt.Errorf("%w: duplicate attribute %s", errMalformedXML, qualified(a.Name))
		}
		seen[key] = true
	}
	return el, nil
}

func prefixBound(prefix string, namespaces map[string]string) bool {
	if prefix == "" || prefix == "xml" {
		return true
	}
	_, ok := namespaces[prefix]
	return ok
}

func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// formatRawResponse drops whitespace-only text between markup and puts each tag
// boundary on its own line. Text content and CDATA sections are left as they are.
func formatRawResponse(doc []byte, ignorable []span) string {
	var b strings.Builder
	b.Grow(len(doc))
	var at int64
	for _, s := range ignorable {
		b.Write(doc[at:s.start])
		at = s.end
	}
	b.Write(doc[at:])
	return strings.ReplaceAll(b.String(), "><", ">\n<")
}
