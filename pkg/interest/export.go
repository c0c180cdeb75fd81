package interest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// Format selects how a Table is written out.
type Format string

const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatXLSX  Format = "xlsx"
)

const xlsxSheet = "Interest"

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatCSV, FormatJSON, FormatYAML, FormatXLSX:
		return f, nil
	case "":
		return FormatTable, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// Write renders the table to w in the given format.
func (t *Table) Write(w io.Writer, format Format) error {
	switch format {
	case FormatTable, "":
		return t.writeText(w)
	case FormatCSV:
		return t.writeCSV(w)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(t)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(t); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case FormatXLSX:
		return t.writeXLSX(w)
	}
	return fmt.Errorf("unknown output format %q", format)
}

// record returns one row as strings in Columns() order.
func (t *Table) record(row Row) []string {
	rec := make([]string, 0, len(row.Values)+2)
	rec = append(rec, row.Region)
	if t.HasGeoCode {
		rec = append(rec, row.GeoCode)
	}
	for _, v := range row.Values {
		rec = append(rec, strconv.Itoa(v))
	}
	return rec
}

func (t *Table) writeText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Columns(), "\t"))
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(t.record(row), "\t"))
	}
	return tw.Flush()
}

func (t *Table) writeCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns()); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := cw.Write(t.record(row)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (t *Table) writeXLSX(w io.Writer) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, 0, len(t.Keywords)+2)
	for _, col := range t.Columns() {
		header = append(header, col)
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range t.Rows {
		cells := make([]interface{}, 0, len(row.Values)+2)
		cells = append(cells, row.Region)
		if t.HasGeoCode {
			cells = append(cells, row.GeoCode)
		}
		for _, v := range row.Values {
			cells = append(cells, v)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
