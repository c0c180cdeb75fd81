package trends

import (
	"context"
	"encoding/json"
	"time"
)

// RegionRecord is one geographic entry of an interest-by-region response.
// RawValue is the provider's value list exactly as sent, e.g. "[12,0]",
// one token per requested keyword.
type RegionRecord struct {
	RegionName string `json:"region_name"`
	GeoCode    string `json:"geo_code,omitempty"`
	RawValue   string `json:"raw_value"`
}

// RegionOptions tunes the interest-by-region widget request.
type RegionOptions struct {
	Resolution       Resolution
	IncludeLowVolume bool
}

// TimelinePoint is one time bucket of an interest-over-time response.
// Values are aligned with the payload keywords.
type TimelinePoint struct {
	Time          time.Time `json:"time"`
	FormattedTime string    `json:"formatted_time"`
	Values        []int     `json:"values"`
	Partial       bool      `json:"partial,omitempty"`
}

// Topic is one autocomplete suggestion. Mid is the provider's opaque
// knowledge-graph identifier.
type Topic struct {
	Mid   string `json:"mid"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

// HistoricalRequest asks for hourly interest between Start and End.
// Sleep is the pause between consecutive one-week windows.
type HistoricalRequest struct {
	Keywords []string
	Start    time.Time
	End      time.Time
	Geo      string
	Category int
	Property string
	Sleep    time.Duration
}

// Provider is the Trends collaborator the rest of the module depends on.
type Provider interface {
	InterestByRegion(ctx context.Context, payload Payload, opts RegionOptions) ([]RegionRecord, error)
	HistoricalInterest(ctx context.Context, req HistoricalRequest) ([]TimelinePoint, error)
	Suggestions(ctx context.Context, keyword string) ([]Topic, error)
}

// wire formats

type exploreResponse struct {
	Widgets []widget `json:"widgets"`
}

type widget struct {
	ID      string          `json:"id"`
	Token   string          `json:"token"`
	Request json.RawMessage `json:"request"`
}

type geoMapResponse struct {
	Default struct {
		GeoMapData []geoMapEntry `json:"geoMapData"`
	} `json:"default"`
}

type geoMapEntry struct {
	GeoCode string          `json:"geoCode"`
	GeoName string          `json:"geoName"`
	Value   json.RawMessage `json:"value"`
}

type timelineResponse struct {
	Default struct {
		TimelineData []timelineEntry `json:"timelineData"`
	} `json:"default"`
}

type timelineEntry struct {
	Time          string `json:"time"`
	FormattedTime string `json:"formattedTime"`
	Value         []int  `json:"value"`
	IsPartial     bool   `json:"isPartial"`
}

type suggestionsResponse struct {
	Default struct {
		Topics []Topic `json:"topics"`
	} `json:"default"`
}
