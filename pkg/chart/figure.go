// Package chart turns a (location, frequency) projection into a bar chart
// and renders it without a display.
package chart

import (
	"errors"
	"fmt"
	"sort"

	"gtrends-go/pkg/interest"
)

const (
	LocationColumn  = "Location"
	FrequencyColumn = "Keyword Frequency"
	XLabel          = "Location"
	YLabel          = "Freq relative to peak"
	KindBar         = "bar"
)

// Point is one bar: a location and its interest value.
type Point struct {
	Location  string `json:"location"`
	Frequency int    `json:"frequency"`
}

// Options sizes the canvas and picks tick label fonts.
type Options struct {
	WidthInches     float64 `mapstructure:"width_inches"`
	HeightInches    float64 `mapstructure:"height_inches"`
	DenseThreshold  int     `mapstructure:"dense_threshold"`
	DenseFontSize   float64 `mapstructure:"dense_font_size"`
	DefaultFontSize float64 `mapstructure:"default_font_size"` // 0 keeps the renderer default
}

// DefaultOptions gives a very wide canvas so that hundreds of metro labels
// fit side by side.
func DefaultOptions() Options {
	return Options{
		WidthInches:    120,
		HeightInches:   10,
		DenseThreshold: 50,
		DenseFontSize:  6,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.WidthInches <= 0 {
		o.WidthInches = def.WidthInches
	}
	if o.HeightInches <= 0 {
		o.HeightInches = def.HeightInches
	}
	if o.DenseThreshold <= 0 {
		o.DenseThreshold = def.DenseThreshold
	}
	if o.DenseFontSize <= 0 {
		o.DenseFontSize = def.DenseFontSize
	}
	return o
}

// Prepare returns the points sorted by frequency, largest first, without
// the zero-frequency ones. Ties keep their input order; the input is not
// modified.
func Prepare(points []Point) []Point {
	out := make([]Point, 0, len(points))
	for _, p := range points {
		if p.Frequency != 0 {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Frequency > out[j].Frequency
	})
	return out
}

// Figure is a configured bar chart ready to render.
type Figure struct {
	Keyword        string  `json:"keyword"`
	Kind           string  `json:"kind"`
	Title          string  `json:"title"`
	XLabel         string  `json:"x_label"`
	YLabel         string  `json:"y_label"`
	CategoryColumn string  `json:"category_column"`
	ValueColumn    string  `json:"value_column"`
	LabelRotation  float64 `json:"label_rotation"` // degrees
	TickFontSize   float64 `json:"tick_font_size"` // points, 0 = renderer default
	WidthInches    float64 `json:"width_inches"`
	HeightInches   float64 `json:"height_inches"`
	Points         []Point `json:"points"`
}

// Title builds the chart title for keyword.
func Title(keyword string) string {
	return fmt.Sprintf("Frequencies of keyword: '%s' by location", keyword)
}

// NewFigure prepares points and configures the chart for keyword.
func NewFigure(keyword string, points []Point, opts Options) *Figure {
	opts = opts.withDefaults()
	prepared := Prepare(points)

	fontSize := opts.DefaultFontSize
	if len(prepared) > opts.DenseThreshold {
		fontSize = opts.DenseFontSize
	}

	return &Figure{
		Keyword:        keyword,
		Kind:           KindBar,
		Title:          Title(keyword),
		XLabel:         XLabel,
		YLabel:         YLabel,
		CategoryColumn: LocationColumn,
		ValueColumn:    FrequencyColumn,
		LabelRotation:  90,
		TickFontSize:   fontSize,
		WidthInches:    opts.WidthInches,
		HeightInches:   opts.HeightInches,
		Points:         prepared,
	}
}

// FromTable charts one keyword column of table. A single-column table is
// charted whatever keyword is given; the keyword then only names the chart.
func FromTable(keyword string, table *interest.Table, opts Options) (*Figure, error) {
	if table == nil {
		return nil, errors.New("no interest table to chart")
	}
	column := keyword
	if len(table.Keywords) == 1 {
		column = table.Keywords[0]
	}
	counts, err := table.Column(column)
	if err != nil {
		return nil, err
	}

	points := make([]Point, len(counts))
	for i, c := range counts {
		points[i] = Point{Location: c.Region, Frequency: c.Count}
	}
	return NewFigure(keyword, points, opts), nil
}

// Labels returns the category labels in bar order.
func (f *Figure) Labels() []string {
	labels := make([]string, len(f.Points))
	for i, p := range f.Points {
		labels[i] = p.Location
	}
	return labels
}

// Values returns the bar heights in bar order.
func (f *Figure) Values() []float64 {
	values := make([]float64, len(f.Points))
	for i, p := range f.Points {
		values[i] = float64(p.Frequency)
	}
	return values
}
