package chart

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"gtrends-go/pkg/interest"
)

func smallOptions() Options {
	opts := DefaultOptions()
	opts.WidthInches = 6
	opts.HeightInches = 3
	return opts
}

func TestPrepare(t *testing.T) {
	input := []Point{
		{"Alabama", 12},
		{"Texas", 45},
		{"Wyoming", 0},
	}
	original := append([]Point(nil), input...)

	got := Prepare(input)
	want := []Point{{"Texas", 45}, {"Alabama", 12}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
	if !reflect.DeepEqual(input, original) {
		t.Errorf("Input was modified: %v", input)
	}
}

func TestPrepare_StableTies(t *testing.T) {
	got := Prepare([]Point{
		{"b", 5},
		{"a", 5},
		{"c", 9},
		{"d", 5},
	})
	want := []string{"c", "b", "a", "d"}
	for i, loc := range want {
		if got[i].Location != loc {
			t.Errorf("Position %d: expected %s, got %s", i, loc, got[i].Location)
		}
	}
}

func TestPrepare_AllZero(t *testing.T) {
	if got := Prepare([]Point{{"a", 0}, {"b", 0}}); len(got) != 0 {
		t.Errorf("Expected no points, got %v", got)
	}
	if got := Prepare(nil); got == nil || len(got) != 0 {
		t.Errorf("Expected empty non-nil slice, got %#v", got)
	}
}

func TestNewFigure(t *testing.T) {
	fig := NewFigure("Voting", []Point{{"Alabama", 12}, {"Texas", 45}, {"Wyoming", 0}}, Options{})

	if fig.Title != "Frequencies of keyword: 'Voting' by location" {
		t.Errorf("Unexpected title %q", fig.Title)
	}
	if fig.XLabel != "Location" || fig.YLabel != "Freq relative to peak" {
		t.Errorf("Unexpected axis labels %q / %q", fig.XLabel, fig.YLabel)
	}
	if fig.CategoryColumn != "Location" || fig.ValueColumn != "Keyword Frequency" {
		t.Errorf("Unexpected columns %q / %q", fig.CategoryColumn, fig.ValueColumn)
	}
	if fig.Kind != KindBar || fig.LabelRotation != 90 {
		t.Errorf("Expected vertical bar chart labels, got %s at %v", fig.Kind, fig.LabelRotation)
	}
	if !reflect.DeepEqual(fig.Labels(), []string{"Texas", "Alabama"}) {
		t.Errorf("Unexpected labels %v", fig.Labels())
	}
	if !reflect.DeepEqual(fig.Values(), []float64{45, 12}) {
		t.Errorf("Unexpected values %v", fig.Values())
	}
	if fig.TickFontSize != 0 {
		t.Errorf("Expected default font for 2 points, got %v", fig.TickFontSize)
	}
	if fig.WidthInches != 120 || fig.HeightInches != 10 {
		t.Errorf("Expected default canvas, got %vx%v", fig.WidthInches, fig.HeightInches)
	}
}

func TestNewFigure_DenseLabels(t *testing.T) {
	points := func(n int) []Point {
		out := make([]Point, n)
		for i := range out {
			out[i] = Point{Location: strings.Repeat("x", i+1), Frequency: i + 1}
		}
		return out
	}

	tests := []struct {
		name     string
		n        int
		expected float64
	}{
		{"at threshold", 50, 0},
		{"above threshold", 51, 6},
		{"many metros", 210, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fig := NewFigure("kw", points(tt.n), Options{})
			if fig.TickFontSize != tt.expected {
				t.Errorf("Expected font size %v, got %v", tt.expected, fig.TickFontSize)
			}
		})
	}
}

func TestFromTable(t *testing.T) {
	table, err := interest.Reshape(interest.RecordsFromMap(map[string]string{
		"Alabama": "[12,0]",
		"Texas":   "[45,3]",
		"Wyoming": "[0,1]",
	}), []string{"Voting", "Census"}, interest.Options{})
	if err != nil {
		t.Fatalf("Reshape failed: %v", err)
	}

	fig, err := FromTable("Census", table, Options{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	want := []Point{{"Texas", 3}, {"Wyoming", 1}}
	if !reflect.DeepEqual(fig.Points, want) {
		t.Errorf("Expected %v, got %v", want, fig.Points)
	}

	if _, err := FromTable("Elections", table, Options{}); !errors.Is(err, interest.ErrUnknownKeyword) {
		t.Errorf("Expected ErrUnknownKeyword, got %v", err)
	}
}

func TestFromTable_SingleColumn(t *testing.T) {
	table, err := interest.Reshape(interest.RecordsFromMap(map[string]string{
		"Austin TX": "[100]",
	}), []string{"Voting"}, interest.Options{})
	if err != nil {
		t.Fatalf("Reshape failed: %v", err)
	}

	fig, err := FromTable("voting", table, Options{})
	if err != nil {
		t.Fatalf("Expected single column to be used, got: %v", err)
	}
	if fig.Keyword != "voting" || len(fig.Points) != 1 {
		t.Errorf("Unexpected figure %+v", fig)
	}
}

func TestFromTable_NilTable(t *testing.T) {
	fig, err := FromTable("Voting", nil, Options{})
	if err == nil {
		t.Fatal("Expected error for nil table")
	}
	if fig != nil {
		t.Errorf("Expected no figure, got %+v", fig)
	}
}

func TestFigure_RenderSVG(t *testing.T) {
	fig := NewFigure("Voting", []Point{{"Alabama", 12}, {"Texas", 45}}, smallOptions())

	var buf bytes.Buffer
	if err := fig.Render(&buf, "svg"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !strings.Contains(buf.String(), "<svg") {
		t.Error("Expected svg document")
	}
}

func TestFigure_RenderPNG(t *testing.T) {
	fig := NewFigure("Voting", []Point{{"Alabama", 12}, {"Texas", 45}}, smallOptions())

	var buf bytes.Buffer
	if err := fig.Render(&buf, "png"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Error("Expected png signature")
	}
}

func TestFigure_RenderEmpty(t *testing.T) {
	fig := NewFigure("Voting", []Point{{"Wyoming", 0}}, smallOptions())
	if len(fig.Points) != 0 {
		t.Fatalf("Expected no bars, got %v", fig.Points)
	}

	var buf bytes.Buffer
	if err := fig.Render(&buf, "svg"); err != nil {
		t.Fatalf("Expected empty chart to render, got: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("Expected output for empty chart")
	}
}

func TestFigure_RenderUnknownFormat(t *testing.T) {
	fig := NewFigure("Voting", nil, smallOptions())
	if err := fig.Render(&bytes.Buffer{}, "bmp"); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestFigure_Save(t *testing.T) {
	fig := NewFigure("Voting", []Point{{"Texas", 45}}, smallOptions())
	path := filepath.Join(t.TempDir(), "voting.svg")

	if err := fig.Save(path); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Expected file to exist: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Expected non-empty file")
	}

	if err := fig.Save(filepath.Join(t.TempDir(), "voting.txt")); err == nil {
		t.Error("Expected error for unsupported extension")
	}
}

func TestParseRenderFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "png"},
		{".SVG", "svg"},
		{"pdf", "pdf"},
		{"jpeg", "jpeg"},
	}
	for _, test := range tests {
		got, err := ParseRenderFormat(test.input)
		if err != nil || got != test.expected {
			t.Errorf("ParseRenderFormat(%q) = %q, %v; want %q", test.input, got, err, test.expected)
		}
	}
}
