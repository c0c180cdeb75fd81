package trends

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Widget ids in the explore response.
const (
	widgetTimeseries = "TIMESERIES"
	widgetGeoMap     = "GEO_MAP"
)

var xssiPrefix = []byte(")]}'")

// trimXSSI strips the anti-hijacking prefix the endpoints put in front of
// their JSON (")]}'" for explore, ")]}'," for widget data).
func trimXSSI(body []byte) []byte {
	body = bytes.TrimPrefix(bytes.TrimSpace(body), xssiPrefix)
	return bytes.TrimLeft(body, ", \t\r\n")
}

func decodeJSON(body []byte, dest interface{}) error {
	body = trimXSSI(body)
	if len(body) == 0 {
		return fmt.Errorf("empty response body")
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to decode response: %w (response: %s)", err, snippet(body))
	}
	return nil
}

func decodeWidgets(body []byte) ([]widget, error) {
	var resp exploreResponse
	if err := decodeJSON(body, &resp); err != nil {
		return nil, err
	}
	return resp.Widgets, nil
}

func findWidget(widgets []widget, id string) (widget, bool) {
	for _, w := range widgets {
		if w.ID == id {
			return w, true
		}
	}
	return widget{}, false
}

// decodeRegions keeps each entry's value list as raw JSON text so the
// reshaper sees exactly what the provider sent.
func decodeRegions(body []byte) ([]RegionRecord, error) {
	var resp geoMapResponse
	if err := decodeJSON(body, &resp); err != nil {
		return nil, err
	}

	records := make([]RegionRecord, 0, len(resp.Default.GeoMapData))
	for _, entry := range resp.Default.GeoMapData {
		raw := ""
		if len(entry.Value) > 0 && !bytes.Equal(entry.Value, []byte("null")) {
			var buf bytes.Buffer
			if err := json.Compact(&buf, entry.Value); err != nil {
				return nil, fmt.Errorf("bad value for region %q: %w", entry.GeoName, err)
			}
			raw = buf.String()
		}
		records = append(records, RegionRecord{
			RegionName: entry.GeoName,
			GeoCode:    entry.GeoCode,
			RawValue:   raw,
		})
	}
	return records, nil
}

func decodeTimeline(body []byte) ([]TimelinePoint, error) {
	var resp timelineResponse
	if err := decodeJSON(body, &resp); err != nil {
		return nil, err
	}

	points := make([]TimelinePoint, 0, len(resp.Default.TimelineData))
	for _, entry := range resp.Default.TimelineData {
		sec, err := strconv.ParseInt(entry.Time, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad timeline timestamp %q: %w", entry.Time, err)
		}
		points = append(points, TimelinePoint{
			Time:          time.Unix(sec, 0).UTC(),
			FormattedTime: entry.FormattedTime,
			Values:        entry.Value,
			Partial:       entry.IsPartial,
		})
	}
	return points, nil
}

func decodeTopics(body []byte) ([]Topic, error) {
	var resp suggestionsResponse
	if err := decodeJSON(body, &resp); err != nil {
		return nil, err
	}
	return resp.Default.Topics, nil
}

// regionRequest rewrites the GEO_MAP widget request with the wanted
// resolution. The endpoint only honours sub-national resolutions for a
// worldwide query or for US CITY/DMA/REGION; otherwise the widget default
// is kept.
func regionRequest(raw json.RawMessage, geo string, opts RegionOptions) (string, error) {
	var req map[string]interface{}
	if err := json.Unmarshal(raw, &req); err != nil {
		return "", fmt.Errorf("bad geo widget request: %w", err)
	}

	res := opts.Resolution
	if res == "" {
		res = ResolutionCountry
	}
	switch {
	case geo == "":
		req["resolution"] = string(res)
	case geo == "US" && (res == ResolutionCity || res == ResolutionMetro || res == ResolutionRegion):
		req["resolution"] = string(res)
	}
	req["includeLowSearchVolumeGeos"] = opts.IncludeLowVolume

	data, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to encode geo widget request: %w", err)
	}
	return string(data), nil
}

func snippet(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max])
	}
	return string(body)
}
