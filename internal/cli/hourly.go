package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"gtrends-go/pkg/interest"
	"gtrends-go/pkg/trends"
)

var hourlyCmd = &cobra.Command{
	Use:   "hourly [keyword...]",
	Short: "Show hourly interest over a date range",
	Long: `Show hourly interest between two instants. Long ranges are fetched one
week at a time.

Examples:
  gtrends hourly Voting                                     # January 2018, US
  gtrends hourly Voting --start 2020-11-01 --end 2020-11-08 --geo ""
  gtrends hourly -k Voting,Census --sleep 2s -f csv`,
	RunE: runHourly,
}

var (
	hourlyKeywords []string
	hourlyStart    string
	hourlyEnd      string
	hourlyGeo      string
	hourlyCategory int
	hourlyProperty string
	hourlySleep    time.Duration
	hourlyFormat   string
	hourlyOutput   string
)

func init() {
	rootCmd.AddCommand(hourlyCmd)

	hourlyCmd.Flags().StringSliceVarP(&hourlyKeywords, "keywords", "k", nil, "Keywords (comma separated)")
	hourlyCmd.Flags().StringVar(&hourlyStart, "start", "2018-01-01T00", "Range start (RFC 3339, 2006-01-02T15 or 2006-01-02)")
	hourlyCmd.Flags().StringVar(&hourlyEnd, "end", "2018-02-01T00", "Range end")
	hourlyCmd.Flags().StringVar(&hourlyGeo, "geo", "US", "Two-letter country code, empty for worldwide")
	hourlyCmd.Flags().IntVar(&hourlyCategory, "category", 0, "Trends category id")
	hourlyCmd.Flags().StringVar(&hourlyProperty, "property", "", "Search property: images, news, youtube, froogle")
	hourlyCmd.Flags().DurationVar(&hourlySleep, "sleep", 0, "Pause between weekly requests (default trends.sleep from config)")
	hourlyCmd.Flags().StringVarP(&hourlyFormat, "format", "f", "table", "Output format: table, csv, json, yaml")
	hourlyCmd.Flags().StringVarP(&hourlyOutput, "output", "o", "", "Write to file instead of stdout")
}

func runHourly(cmd *cobra.Command, args []string) error {
	format, err := interest.ParseFormat(hourlyFormat)
	if err != nil {
		return err
	}
	req, err := historicalRequest(append(append([]string(nil), hourlyKeywords...), args...))
	if err != nil {
		return err
	}

	points, err := svc.HourlyInterest(cmd.Context(), req)
	if err != nil {
		return err
	}

	return withOutput(cmd, hourlyOutput, func(w io.Writer) error {
		return writeTimeline(w, req.Keywords, points, format)
	})
}

func historicalRequest(keywords []string) (trends.HistoricalRequest, error) {
	start, err := trends.ParseTime(hourlyStart)
	if err != nil {
		return trends.HistoricalRequest{}, fmt.Errorf("--start: %w", err)
	}
	end, err := trends.ParseTime(hourlyEnd)
	if err != nil {
		return trends.HistoricalRequest{}, fmt.Errorf("--end: %w", err)
	}
	return trends.HistoricalRequest{
		Keywords: keywords,
		Start:    start,
		End:      end,
		Geo:      hourlyGeo,
		Category: hourlyCategory,
		Property: hourlyProperty,
		Sleep:    hourlySleep,
	}, nil
}
