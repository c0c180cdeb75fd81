package trends

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// MaxKeywords is the number of terms the explore endpoint compares at once.
const MaxKeywords = 5

// DefaultTimeframe matches the web UI default.
const DefaultTimeframe = "today 5-y"

var (
	ErrNoKeywords = errors.New("at least one keyword is required")
	// ErrInvalidPayload wraps every other payload validation failure.
	ErrInvalidPayload = errors.New("invalid payload")
)

// validProperties are the gprop values the explore endpoint understands.
var validProperties = map[string]bool{
	"":        true,
	"images":  true,
	"news":    true,
	"youtube": true,
	"froogle": true,
}

// Payload describes one explore request. It is a plain value: callers build
// a fresh one per request instead of mutating shared client state.
type Payload struct {
	Keywords  []string
	Geo       string
	Timeframe string
	Category  int
	Property  string
}

type PayloadOption func(*Payload)

func WithTimeframe(timeframe string) PayloadOption {
	return func(p *Payload) {
		p.Timeframe = timeframe
	}
}

func WithCategory(category int) PayloadOption {
	return func(p *Payload) {
		p.Category = category
	}
}

// WithProperty restricts the search property: images, news, youtube or
// froogle. Empty means web search.
func WithProperty(property string) PayloadOption {
	return func(p *Payload) {
		p.Property = property
	}
}

// BuildPayload validates keywords and options and returns the request payload.
func BuildPayload(keywords []string, geo string, opts ...PayloadOption) (Payload, error) {
	if len(keywords) == 0 {
		return Payload{}, ErrNoKeywords
	}
	if len(keywords) > MaxKeywords {
		return Payload{}, fmt.Errorf("%w: too many keywords: %d (max %d)", ErrInvalidPayload, len(keywords), MaxKeywords)
	}
	seen := make(map[string]bool, len(keywords))
	for i, kw := range keywords {
		if strings.TrimSpace(kw) == "" {
			return Payload{}, fmt.Errorf("%w: keyword %d is blank", ErrInvalidPayload, i)
		}
		if seen[kw] {
			return Payload{}, fmt.Errorf("%w: keyword %q repeated", ErrInvalidPayload, kw)
		}
		seen[kw] = true
	}

	p := Payload{
		Keywords:  append([]string(nil), keywords...),
		Geo:       strings.ToUpper(strings.TrimSpace(geo)),
		Timeframe: DefaultTimeframe,
	}
	for _, opt := range opts {
		opt(&p)
	}

	if p.Timeframe == "" {
		p.Timeframe = DefaultTimeframe
	}
	if !validProperties[p.Property] {
		return Payload{}, fmt.Errorf("%w: unknown property %q", ErrInvalidPayload, p.Property)
	}
	if p.Category < 0 {
		return Payload{}, fmt.Errorf("%w: invalid category %d", ErrInvalidPayload, p.Category)
	}
	return p, nil
}

type comparisonItem struct {
	Keyword string `json:"keyword"`
	Time    string `json:"time"`
	Geo     string `json:"geo"`
}

type exploreRequest struct {
	ComparisonItem []comparisonItem `json:"comparisonItem"`
	Category       int              `json:"category"`
	Property       string           `json:"property"`
}

// requestJSON renders the "req" query parameter of the explore call.
func (p Payload) requestJSON() (string, error) {
	req := exploreRequest{
		ComparisonItem: make([]comparisonItem, 0, len(p.Keywords)),
		Category:       p.Category,
		Property:       p.Property,
	}
	for _, kw := range p.Keywords {
		req.ComparisonItem = append(req.ComparisonItem, comparisonItem{
			Keyword: kw,
			Time:    p.Timeframe,
			Geo:     p.Geo,
		})
	}
	data, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to encode explore request: %w", err)
	}
	return string(data), nil
}
