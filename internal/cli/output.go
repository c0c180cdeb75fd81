package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"gtrends-go/internal/service"
	"gtrends-go/pkg/interest"
	"gtrends-go/pkg/trends"
)

// withOutput runs write against path, or against the command's stdout when
// path is empty or "-".
func withOutput(cmd *cobra.Command, path string, write func(io.Writer) error) (err error) {
	if path == "" || path == "-" {
		return write(cmd.OutOrStdout())
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return write(f)
}

func writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// timelineRecord is one timeline point flattened for yaml output.
type timelineRecord struct {
	Time    string         `yaml:"time"`
	Values  map[string]int `yaml:"values"`
	Partial bool           `yaml:"partial,omitempty"`
}

func writeTimeline(w io.Writer, keywords []string, points []trends.TimelinePoint, format interest.Format) error {
	switch format {
	case interest.FormatJSON:
		return writeJSON(w, points)
	case interest.FormatYAML:
		records := make([]timelineRecord, len(points))
		for i, p := range points {
			records[i] = timelineRecord{
				Time:    p.Time.Format(time.RFC3339),
				Values:  make(map[string]int, len(keywords)),
				Partial: p.Partial,
			}
			for j, kw := range keywords {
				if j < len(p.Values) {
					records[i].Values[kw] = p.Values[j]
				}
			}
		}
		return writeYAML(w, records)
	case interest.FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write(append([]string{"Time"}, keywords...)); err != nil {
			return err
		}
		for _, p := range points {
			if err := cw.Write(timelineRow(p)); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	case interest.FormatTable, "":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(append([]string{"Time"}, keywords...), "\t"))
		for _, p := range points {
			fmt.Fprintln(tw, strings.Join(timelineRow(p), "\t"))
		}
		return tw.Flush()
	}
	return fmt.Errorf("format %q is not supported for timelines", format)
}

func timelineRow(p trends.TimelinePoint) []string {
	row := make([]string, 0, len(p.Values)+1)
	row = append(row, p.Time.UTC().Format("2006-01-02T15:04Z"))
	for _, v := range p.Values {
		row = append(row, strconv.Itoa(v))
	}
	return row
}

func writeTerms(w io.Writer, terms []service.RelatedTerm, format interest.Format) error {
	switch format {
	case interest.FormatJSON:
		return writeJSON(w, terms)
	case interest.FormatYAML:
		return writeYAML(w, terms)
	case interest.FormatTable, "":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "Title\tType")
		for _, t := range terms {
			fmt.Fprintf(tw, "%s\t%s\n", t.Title, t.Type)
		}
		return tw.Flush()
	}
	return fmt.Errorf("format %q is not supported for related terms", format)
}
