package interest

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"gtrends-go/pkg/trends"
)

// Options controls optional reshaping output.
type Options struct {
	// IncludeGeoCode fills Row.GeoCode from the record's geo code, or from
	// the first surplus token when the record has none.
	IncludeGeoCode bool
}

// Reshape turns raw region records into a Table with one integer column per
// keyword, named after the keyword and bound by position. Rows come out
// sorted by region name. Any malformed record fails the whole call.
func Reshape(records []trends.RegionRecord, keywords []string, opts Options) (*Table, error) {
	if len(keywords) == 0 {
		return nil, ErrNoKeywords
	}
	kwSeen := make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		if kwSeen[kw] {
			return nil, fmt.Errorf("%w: keyword %q repeated", trends.ErrInvalidPayload, kw)
		}
		kwSeen[kw] = true
	}

	table := &Table{
		Keywords:   append([]string(nil), keywords...),
		Rows:       make([]Row, 0, len(records)),
		HasGeoCode: opts.IncludeGeoCode,
	}
	if len(records) == 0 {
		return table, nil
	}

	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if _, dup := seen[rec.RegionName]; dup {
			return nil, &MalformedResponseError{
				Region:   rec.RegionName,
				Position: -1,
				Reason:   "region appears more than once",
			}
		}
		seen[rec.RegionName] = struct{}{}

		tokens, err := tokenizeExpect(rec.RegionName, rec.RawValue, len(keywords))
		if err != nil {
			return nil, err
		}

		row := Row{
			Region: rec.RegionName,
			Values: make([]int, len(keywords)),
		}
		for i := range keywords {
			v, err := strconv.Atoi(tokens[i])
			if err != nil {
				return nil, &MalformedResponseError{
					Region:   rec.RegionName,
					Position: i,
					Token:    tokens[i],
					Reason:   "token is not an integer",
					Err:      err,
				}
			}
			row.Values[i] = v
		}

		if opts.IncludeGeoCode {
			row.GeoCode = rec.GeoCode
			if row.GeoCode == "" && len(tokens) > len(keywords) {
				row.GeoCode = tokens[len(keywords)]
			}
		}
		table.Rows = append(table.Rows, row)
	}

	sort.Slice(table.Rows, func(i, j int) bool {
		return table.Rows[i].Region < table.Rows[j].Region
	})
	return table, nil
}

// RecordsFromMap builds records from the region -> raw value shape.
func RecordsFromMap(m map[string]string) []trends.RegionRecord {
	records := make([]trends.RegionRecord, 0, len(m))
	for region, raw := range m {
		records = append(records, trends.RegionRecord{RegionName: region, RawValue: raw})
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].RegionName < records[j].RegionName
	})
	return records
}

// RegionSource is the provider call ByRegion wraps.
type RegionSource interface {
	InterestByRegion(ctx context.Context, payload trends.Payload, opts trends.RegionOptions) ([]trends.RegionRecord, error)
}

// ByRegion fetches interest by region from src and reshapes it against the
// payload keywords.
func ByRegion(ctx context.Context, src RegionSource, payload trends.Payload, regionOpts trends.RegionOptions, opts Options) (*Table, error) {
	records, err := src.InterestByRegion(ctx, payload, regionOpts)
	if err != nil {
		return nil, fmt.Errorf("interest by region: %w", err)
	}
	return Reshape(records, payload.Keywords, opts)
}
