package interest

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gtrends-go/pkg/trends"
)

// Row holds one region's interest values, aligned with Table.Keywords.
// Encoded rows carry the values keyed by keyword; see Table.MarshalJSON.
type Row struct {
	Region  string
	GeoCode string
	Values  []int
}

// Table is the reshaped interest-by-region result: one row per region
// sorted by region name, one column per keyword in request order.
type Table struct {
	Keywords   []string
	Rows       []Row
	HasGeoCode bool
}

// RegionCount is one (region, value) pair of a single keyword column.
type RegionCount struct {
	Region string
	Count  int
}

func (t *Table) Len() int {
	return len(t.Rows)
}

func (t *Table) Empty() bool {
	return len(t.Rows) == 0
}

// Columns returns the header: Region, GeoCode when present, then keywords.
func (t *Table) Columns() []string {
	cols := make([]string, 0, len(t.Keywords)+2)
	cols = append(cols, "Region")
	if t.HasGeoCode {
		cols = append(cols, "GeoCode")
	}
	return append(cols, t.Keywords...)
}

func (t *Table) keywordIndex(keyword string) int {
	for i, kw := range t.Keywords {
		if kw == keyword {
			return i
		}
	}
	return -1
}

// Value looks up the count for region and keyword.
func (t *Table) Value(region, keyword string) (int, bool) {
	col := t.keywordIndex(keyword)
	if col < 0 {
		return 0, false
	}
	i := sort.Search(len(t.Rows), func(i int) bool {
		return t.Rows[i].Region >= region
	})
	if i == len(t.Rows) || t.Rows[i].Region != region {
		return 0, false
	}
	return t.Rows[i].Values[col], true
}

// Column projects one keyword into (region, count) pairs in row order.
func (t *Table) Column(keyword string) ([]RegionCount, error) {
	col := t.keywordIndex(keyword)
	if col < 0 {
		return nil, fmt.Errorf("%w: %q (have %s)", ErrUnknownKeyword, keyword, strings.Join(t.Keywords, ", "))
	}
	out := make([]RegionCount, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = RegionCount{Region: row.Region, Count: row.Values[col]}
	}
	return out, nil
}

// Map returns region -> keyword -> count.
func (t *Table) Map() map[string]map[string]int {
	out := make(map[string]map[string]int, len(t.Rows))
	for _, row := range t.Rows {
		m := make(map[string]int, len(t.Keywords))
		for i, kw := range t.Keywords {
			m[kw] = row.Values[i]
		}
		out[row.Region] = m
	}
	return out
}

// Head returns a table with at most the first n rows.
func (t *Table) Head(n int) *Table {
	if n < 0 {
		n = 0
	}
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return &Table{
		Keywords:   t.Keywords,
		Rows:       t.Rows[:n],
		HasGeoCode: t.HasGeoCode,
	}
}

// Records encodes the table back into the provider's raw shape.
func (t *Table) Records() []trends.RegionRecord {
	records := make([]trends.RegionRecord, len(t.Rows))
	for i, row := range t.Rows {
		tokens := make([]string, len(row.Values))
		for j, v := range row.Values {
			tokens[j] = strconv.Itoa(v)
		}
		rec := trends.RegionRecord{
			RegionName: row.Region,
			RawValue:   "[" + strings.Join(tokens, ",") + "]",
		}
		if t.HasGeoCode {
			rec.GeoCode = row.GeoCode
		}
		records[i] = rec
	}
	return records
}
