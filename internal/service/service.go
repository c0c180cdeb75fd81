// Package service is the public entry point: it builds payloads, calls the
// Trends provider and hands raw responses to the reshaper and renderer.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"gtrends-go/pkg/chart"
	"gtrends-go/pkg/interest"
	"gtrends-go/pkg/logger"
	"gtrends-go/pkg/trends"
)

const (
	DefaultCountry    = "US"
	DefaultResolution = trends.ResolutionRegion
)

// RelatedTerm is a suggestion with the provider's opaque identifier removed.
type RelatedTerm struct {
	Title string `json:"title" yaml:"title"`
	Type  string `json:"type" yaml:"type"`
}

// RegionQuery is the full form of an interest-by-region request.
type RegionQuery struct {
	Keywords         []string
	Country          string
	Resolution       trends.Resolution
	Timeframe        string
	Category         int
	IncludeLowVolume bool
	IncludeGeoCode   bool
}

type Service struct {
	provider   trends.Provider
	chartOpts  chart.Options
	country    string
	resolution trends.Resolution
	sleep      time.Duration
	log        *logger.Logger
}

type Option func(*Service)

func WithChartOptions(opts chart.Options) Option {
	return func(s *Service) {
		s.chartOpts = opts
	}
}

// WithDefaults replaces the country and resolution used when a query
// leaves them empty.
func WithDefaults(country string, resolution trends.Resolution) Option {
	return func(s *Service) {
		if country != "" {
			s.country = strings.ToUpper(country)
		}
		if resolution != "" {
			s.resolution = resolution
		}
	}
}

// WithHourlySleep sets the pause between weekly windows for hourly
// requests that do not carry their own.
func WithHourlySleep(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.sleep = d
		}
	}
}

func WithLogger(l *logger.Logger) Option {
	return func(s *Service) {
		s.log = l
	}
}

// New wraps provider. The provider handle is used as-is for every call.
func New(provider trends.Provider, opts ...Option) *Service {
	s := &Service{
		provider:   provider,
		chartOpts:  chart.DefaultOptions(),
		country:    DefaultCountry,
		resolution: DefaultResolution,
		log:        logger.GetLogger().WithField("component", "service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// InterestByRegion returns one row per region and one column per keyword.
// An empty country means the configured default ("US" unless overridden);
// an empty resolution means REGION.
func (s *Service) InterestByRegion(ctx context.Context, keywords []string, country string, resolution trends.Resolution) (*interest.Table, error) {
	return s.QueryRegions(ctx, RegionQuery{
		Keywords:   keywords,
		Country:    country,
		Resolution: resolution,
	})
}

// QueryRegions is InterestByRegion with every request knob exposed.
func (s *Service) QueryRegions(ctx context.Context, q RegionQuery) (*interest.Table, error) {
	country := q.Country
	if country == "" {
		country = s.country
	}
	resolution := q.Resolution
	if resolution == "" {
		resolution = s.resolution
	}
	if !resolution.Valid() {
		return nil, fmt.Errorf("%w: unknown resolution %q", trends.ErrInvalidPayload, resolution)
	}

	var payloadOpts []trends.PayloadOption
	if q.Timeframe != "" {
		payloadOpts = append(payloadOpts, trends.WithTimeframe(q.Timeframe))
	}
	if q.Category != 0 {
		payloadOpts = append(payloadOpts, trends.WithCategory(q.Category))
	}
	payload, err := trends.BuildPayload(q.Keywords, country, payloadOpts...)
	if err != nil {
		return nil, err
	}

	log := s.log.WithFields(map[string]interface{}{
		"request_id": uuid.NewString(),
		"keywords":   payload.Keywords,
		"geo":        payload.Geo,
		"resolution": resolution.Name(),
	})
	started := time.Now()

	table, err := interest.ByRegion(ctx, s.provider, payload,
		trends.RegionOptions{Resolution: resolution, IncludeLowVolume: q.IncludeLowVolume},
		interest.Options{IncludeGeoCode: q.IncludeGeoCode})
	if err != nil {
		log.WithError(err).Debug("Interest by region failed")
		return nil, err
	}

	log.WithFields(map[string]interface{}{
		"regions":  table.Len(),
		"duration": time.Since(started).String(),
	}).Debug("Interest by region reshaped")
	return table, nil
}

// HourlyInterest returns hourly interest points for req, walking the range
// in weekly windows. A zero req.Sleep takes the configured pause.
func (s *Service) HourlyInterest(ctx context.Context, req trends.HistoricalRequest) ([]trends.TimelinePoint, error) {
	if len(req.Keywords) == 0 {
		return nil, trends.ErrNoKeywords
	}
	if req.Sleep == 0 {
		req.Sleep = s.sleep
	}

	log := s.log.WithFields(map[string]interface{}{
		"request_id": uuid.NewString(),
		"keywords":   req.Keywords,
		"start":      req.Start.Format(time.RFC3339),
		"end":        req.End.Format(time.RFC3339),
	})

	points, err := s.provider.HistoricalInterest(ctx, req)
	if err != nil {
		log.WithError(err).Debug("Hourly interest failed")
		return nil, fmt.Errorf("hourly interest: %w", err)
	}
	log.WithField("points", len(points)).Debug("Hourly interest fetched")
	return points, nil
}

// PlotTermFreq charts the keyword column of table. It does not display
// anything; callers render or save the returned figure.
func (s *Service) PlotTermFreq(keyword string, table *interest.Table) (*chart.Figure, error) {
	if table == nil {
		return nil, fmt.Errorf("plot %q: no table", keyword)
	}
	fig, err := chart.FromTable(keyword, table, s.chartOpts)
	if err != nil {
		return nil, fmt.Errorf("plot %q: %w", keyword, err)
	}
	s.log.WithFields(map[string]interface{}{
		"keyword": keyword,
		"bars":    len(fig.Points),
	}).Debug("Figure built")
	return fig, nil
}

// RelatedTerms returns the provider's suggestions for keyword without their
// opaque identifiers, in provider order.
func (s *Service) RelatedTerms(ctx context.Context, keyword string) ([]RelatedTerm, error) {
	topics, err := s.provider.Suggestions(ctx, keyword)
	if err != nil {
		return nil, err
	}

	terms := make([]RelatedTerm, len(topics))
	for i, t := range topics {
		terms[i] = RelatedTerm{Title: t.Title, Type: t.Type}
	}
	return terms, nil
}
