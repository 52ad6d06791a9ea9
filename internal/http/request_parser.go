package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"ledger/internal/services"
)

// maxBodyBytes caps form and JSON bodies.
const maxBodyBytes = 64 << 10

// RequestBodyParser reads a form-encoded or JSON body once.
type RequestBodyParser struct {
	body     []byte
	jsonData map[string]any
	formData url.Values
	parsed   bool
	err      error
}

func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{}
	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	return p
}

// Parse decodes the body, as JSON when it looks like an object.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true
	if p.err != nil {
		return p.err
	}

	body := strings.TrimSpace(string(p.body))
	if strings.HasPrefix(body, "{") {
		p.jsonData = make(map[string]any)
		p.err = json.Unmarshal(p.body, &p.jsonData)
		return p.err
	}
	p.formData, p.err = url.ParseQuery(body)
	return p.err
}

// Get returns a trimmed, sanitized string value from the parsed data.
func (p *RequestBodyParser) Get(key string) string {
	return strings.TrimSpace(p.Text(key))
}

// Text returns a value with control characters removed but spacing kept.
func (p *RequestBodyParser) Text(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return stripControl(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return stripControl(p.formData.Get(key))
	}
	return ""
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// ParseAddRequest reads the add-transaction fields from the body.
func ParseAddRequest(r *http.Request) (services.AddRequest, error) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		return services.AddRequest{}, err
	}
	return services.AddRequest{
		Date:        p.Get("date"),
		Amount:      p.Get("amount"),
		Category:    p.Get("category"),
		Description: p.Text("description"),
	}, nil
}

// RangeParams are the raw query bounds of a view request.
type RangeParams struct {
	Start string
	End   string
}

func ParseRangeParams(query url.Values) RangeParams {
	return RangeParams{
		Start: sanitizeInput(query.Get("start")),
		End:   sanitizeInput(query.Get("end")),
	}
}

// Encode renders the bounds back as a query string.
func (p RangeParams) Encode() string {
	return url.Values{"start": {p.Start}, "end": {p.End}}.Encode()
}

// sanitizeInput drops control characters other than tab and trims whitespace.
func sanitizeInput(s string) string {
	return strings.TrimSpace(stripControl(s))
}

func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' {
			return -1
		}
		return r
	}, s)
}
