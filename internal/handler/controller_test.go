package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"gtrends-go/internal/service"
	"gtrends-go/pkg/chart"
	"gtrends-go/pkg/interest"
	"gtrends-go/pkg/logger"
	"gtrends-go/pkg/trends"
)

type fakeProvider struct {
	records []trends.RegionRecord
	points  []trends.TimelinePoint
	topics  []trends.Topic
	err     error

	regionOpts trends.RegionOptions
	historical trends.HistoricalRequest
}

func (f *fakeProvider) InterestByRegion(ctx context.Context, payload trends.Payload, opts trends.RegionOptions) ([]trends.RegionRecord, error) {
	f.regionOpts = opts
	return f.records, f.err
}

func (f *fakeProvider) HistoricalInterest(ctx context.Context, req trends.HistoricalRequest) ([]trends.TimelinePoint, error) {
	f.historical = req
	return f.points, f.err
}

func (f *fakeProvider) Suggestions(ctx context.Context, keyword string) ([]trends.Topic, error) {
	return f.topics, f.err
}

func newTestApp(p *fakeProvider) *fiber.App {
	opts := chart.DefaultOptions()
	opts.WidthInches = 6
	opts.HeightInches = 3
	svc := service.New(p, service.WithLogger(logger.Nop()), service.WithChartOptions(opts))
	return NewApp(NewController(svc, logger.Nop()), AppConfig{})
}

func doGet(t *testing.T, app *fiber.App, target string) (*http.Response, []byte) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
	if err != nil {
		t.Fatalf("Request %s failed: %v", target, err)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read body: %v", err)
	}
	resp.Body.Close()
	return resp, body
}

func TestHealth(t *testing.T) {
	resp, body := doGet(t, newTestApp(&fakeProvider{}), "/health")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	var status StatusResponse
	if err := json.Unmarshal(body, &status); err != nil || status.Status != "ok" {
		t.Errorf("Unexpected body %s (%v)", body, err)
	}
	if resp.Header.Get(fiber.HeaderXRequestID) == "" {
		t.Error("Expected request id header")
	}
}

func TestInterest_JSON(t *testing.T) {
	p := &fakeProvider{records: interest.RecordsFromMap(map[string]string{
		"Alabama": "[12,0]",
		"Texas":   "[45,3]",
	})}
	resp, body := doGet(t, newTestApp(p), "/api/v1/interest?keywords=Voting,Census&resolution=metro")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", resp.StatusCode, body)
	}

	var table struct {
		Keywords []string                 `json:"keywords"`
		Rows     []map[string]interface{} `json:"rows"`
	}
	if err := json.Unmarshal(body, &table); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if len(table.Rows) != 2 || table.Rows[1]["region"] != "Texas" || table.Rows[1]["Census"] != float64(3) {
		t.Errorf("Unexpected table %+v", table)
	}
	if p.regionOpts.Resolution != trends.ResolutionMetro {
		t.Errorf("Expected DMA resolution, got %s", p.regionOpts.Resolution)
	}
}

func TestInterest_CSV(t *testing.T) {
	p := &fakeProvider{records: interest.RecordsFromMap(map[string]string{"Texas": "[45]"})}
	resp, body := doGet(t, newTestApp(p), "/api/v1/interest?keywords=Voting&format=csv")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", resp.StatusCode, body)
	}
	if !strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), "text/csv") {
		t.Errorf("Unexpected content type %q", resp.Header.Get(fiber.HeaderContentType))
	}
	if string(body) != "Region,Voting\nTexas,45\n" {
		t.Errorf("Unexpected body %q", body)
	}
}

func TestInterest_Errors(t *testing.T) {
	tests := []struct {
		name     string
		provider *fakeProvider
		target   string
		expected int
	}{
		{"missing keywords", &fakeProvider{}, "/api/v1/interest", http.StatusBadRequest},
		{"bad resolution", &fakeProvider{}, "/api/v1/interest?keywords=a&resolution=county", http.StatusBadRequest},
		{"bad format", &fakeProvider{}, "/api/v1/interest?keywords=a&format=parquet", http.StatusBadRequest},
		{"too many keywords", &fakeProvider{}, "/api/v1/interest?keywords=a,b,c,d,e,f", http.StatusBadRequest},
		{"malformed", &fakeProvider{records: []trends.RegionRecord{{RegionName: "Texas", RawValue: "[abc]"}}},
			"/api/v1/interest?keywords=a", http.StatusBadGateway},
		{"rate limited", &fakeProvider{err: &trends.ProviderError{Op: "explore", StatusCode: 429}},
			"/api/v1/interest?keywords=a", http.StatusTooManyRequests},
		{"provider down", &fakeProvider{err: &trends.ProviderError{Op: "explore", StatusCode: 503}},
			"/api/v1/interest?keywords=a", http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := doGet(t, newTestApp(tt.provider), tt.target)
			if resp.StatusCode != tt.expected {
				t.Fatalf("Expected %d, got %d: %s", tt.expected, resp.StatusCode, body)
			}
			var errResp ErrorResponse
			if err := json.Unmarshal(body, &errResp); err != nil || errResp.Status != tt.expected || errResp.Error == "" {
				t.Errorf("Unexpected error body %s (%v)", body, err)
			}
		})
	}
}

func TestChart(t *testing.T) {
	p := &fakeProvider{records: interest.RecordsFromMap(map[string]string{
		"Alabama": "[12]",
		"Texas":   "[45]",
		"Wyoming": "[0]",
	})}
	resp, body := doGet(t, newTestApp(p), "/api/v1/chart?keyword=Voting&format=svg")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", resp.StatusCode, body)
	}
	if resp.Header.Get(fiber.HeaderContentType) != "image/svg+xml" {
		t.Errorf("Unexpected content type %q", resp.Header.Get(fiber.HeaderContentType))
	}
	if !strings.Contains(string(body), "<svg") {
		t.Error("Expected svg body")
	}

	resp, _ = doGet(t, newTestApp(p), "/api/v1/chart")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 without keyword, got %d", resp.StatusCode)
	}
}

func TestChart_UnknownKeyword(t *testing.T) {
	p := &fakeProvider{records: interest.RecordsFromMap(map[string]string{"Texas": "[45,3]"})}
	resp, body := doGet(t, newTestApp(p), "/api/v1/chart?keyword=Elections&keywords=Voting,Census&format=svg")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d: %s", resp.StatusCode, body)
	}
}

func TestHourly(t *testing.T) {
	p := &fakeProvider{points: []trends.TimelinePoint{{FormattedTime: "Jan 1, 2018 at 12:00 AM", Values: []int{50}}}}
	resp, body := doGet(t, newTestApp(p), "/api/v1/hourly?keywords=Voting&start=2018-01-01&end=2018-01-02T06&sleep=1s")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", resp.StatusCode, body)
	}

	var out HourlyResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if len(out.Points) != 1 || out.Points[0].Values[0] != 50 {
		t.Errorf("Unexpected points %+v", out.Points)
	}
	if p.historical.End.Hour() != 6 || p.historical.Sleep.Seconds() != 1 {
		t.Errorf("Unexpected request %+v", p.historical)
	}

	resp, _ = doGet(t, newTestApp(p), "/api/v1/hourly?keywords=Voting&start=yesterday&end=2018-01-02")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad start, got %d", resp.StatusCode)
	}
}

func TestRelated(t *testing.T) {
	p := &fakeProvider{topics: []trends.Topic{{Mid: "/m/07gvx", Title: "Voting", Type: "Topic"}}}
	resp, body := doGet(t, newTestApp(p), "/api/v1/related?keyword=Voting")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", resp.StatusCode, body)
	}
	if strings.Contains(string(body), "/m/07gvx") {
		t.Errorf("Expected mid to be dropped, got %s", body)
	}
	var out RelatedResponse
	if err := json.Unmarshal(body, &out); err != nil || len(out.Terms) != 1 || out.Terms[0].Title != "Voting" {
		t.Errorf("Unexpected body %s (%v)", body, err)
	}
}
