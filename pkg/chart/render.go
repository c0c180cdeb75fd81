package chart

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var barColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}

var renderFormats = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"svg":  true,
	"pdf":  true,
	"eps":  true,
	"tif":  true,
	"tiff": true,
}

// ParseRenderFormat normalizes an image format name.
func ParseRenderFormat(s string) (string, error) {
	f := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	if f == "" {
		return "png", nil
	}
	if !renderFormats[f] {
		return "", fmt.Errorf("unsupported image format %q", s)
	}
	return f, nil
}

// Plot builds the gonum plot for the figure. An empty figure yields a plot
// with axes and title only.
func (f *Figure) Plot() (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = f.Title
	p.X.Label.Text = f.XLabel
	p.Y.Label.Text = f.YLabel
	p.Y.Min = 0

	if len(f.Points) > 0 {
		bars, err := plotter.NewBarChart(plotter.Values(f.Values()), f.barWidth())
		if err != nil {
			return nil, fmt.Errorf("failed to build bar chart: %w", err)
		}
		bars.Color = barColor
		bars.LineStyle.Width = 0
		p.Add(bars)
		p.NominalX(f.Labels()...)
	}

	p.X.Tick.Label.Rotation = f.LabelRotation * math.Pi / 180
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	if f.TickFontSize > 0 {
		p.X.Tick.Label.Font.Size = vg.Points(f.TickFontSize)
	}
	return p, nil
}

// barWidth gives each bar half of its slot on the canvas.
func (f *Figure) barWidth() vg.Length {
	n := len(f.Points)
	if n == 0 {
		n = 1
	}
	w := vg.Length(f.WidthInches) * vg.Inch * 0.9 / vg.Length(n) / 2
	if w < vg.Points(1) {
		w = vg.Points(1)
	}
	return w
}

// Render draws the figure to w in format (png, svg, pdf, ...).
func (f *Figure) Render(w io.Writer, format string) error {
	format, err := ParseRenderFormat(format)
	if err != nil {
		return err
	}
	p, err := f.Plot()
	if err != nil {
		return err
	}

	width := vg.Length(f.WidthInches) * vg.Inch
	height := vg.Length(f.HeightInches) * vg.Inch
	wt, err := p.WriterTo(width, height, format)
	if err != nil {
		return fmt.Errorf("failed to create %s writer: %w", format, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write %s chart: %w", format, err)
	}
	return nil
}

// Save renders the figure to path, choosing the format from its extension.
func (f *Figure) Save(path string) (err error) {
	format, err := ParseRenderFormat(filepath.Ext(path))
	if err != nil {
		return err
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	return f.Render(out, format)
}
