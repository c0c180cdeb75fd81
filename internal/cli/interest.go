package cli

import (
	"io"

	"github.com/spf13/cobra"

	"gtrends-go/internal/service"
	"gtrends-go/pkg/interest"
	"gtrends-go/pkg/trends"
)

var interestCmd = &cobra.Command{
	Use:   "interest [keyword...]",
	Short: "Show interest by region",
	Long: `Show interest by region for up to five keywords, one column per keyword.

Examples:
  gtrends interest Voting                          # US states
  gtrends interest -k Voting,Census -r metro       # US metro areas
  gtrends interest Voting --country CA -f csv      # Canadian provinces as csv
  gtrends interest Voting -f xlsx -o voting.xlsx   # Excel workbook`,
	RunE: runInterest,
}

var (
	interestKeywords   []string
	interestCountry    string
	interestResolution string
	interestTimeframe  string
	interestCategory   int
	interestLowVolume  bool
	interestGeoCode    bool
	interestFormat     string
	interestOutput     string
	interestHead       int
)

func init() {
	rootCmd.AddCommand(interestCmd)

	interestCmd.Flags().StringSliceVarP(&interestKeywords, "keywords", "k", nil, "Keywords to compare (comma separated)")
	interestCmd.Flags().StringVar(&interestCountry, "country", "", "Two-letter country code (default from config, US)")
	interestCmd.Flags().StringVarP(&interestResolution, "resolution", "r", "", "CITY, METRO, REGION or COUNTRY (default from config, REGION)")
	interestCmd.Flags().StringVarP(&interestTimeframe, "timeframe", "t", "", "Timeframe, e.g. 'today 12-m' (default 'today 5-y')")
	interestCmd.Flags().IntVar(&interestCategory, "category", 0, "Trends category id")
	interestCmd.Flags().BoolVar(&interestLowVolume, "low-volume", false, "Include low search volume regions")
	interestCmd.Flags().BoolVar(&interestGeoCode, "geo-code", false, "Add a GeoCode column")
	interestCmd.Flags().StringVarP(&interestFormat, "format", "f", "table", "Output format: table, csv, json, yaml, xlsx")
	interestCmd.Flags().StringVarP(&interestOutput, "output", "o", "", "Write to file instead of stdout")
	interestCmd.Flags().IntVar(&interestHead, "head", 0, "Only show the first N regions")
}

func runInterest(cmd *cobra.Command, args []string) error {
	format, err := interest.ParseFormat(interestFormat)
	if err != nil {
		return err
	}
	q, err := regionQueryFromFlags(append(append([]string(nil), interestKeywords...), args...),
		interestCountry, interestResolution)
	if err != nil {
		return err
	}
	q.Timeframe = interestTimeframe
	q.Category = interestCategory
	q.IncludeLowVolume = interestLowVolume
	q.IncludeGeoCode = interestGeoCode

	table, err := svc.QueryRegions(cmd.Context(), q)
	if err != nil {
		return err
	}
	if interestHead > 0 {
		table = table.Head(interestHead)
	}

	return withOutput(cmd, interestOutput, func(w io.Writer) error {
		return table.Write(w, format)
	})
}

func regionQueryFromFlags(keywords []string, country, resolution string) (service.RegionQuery, error) {
	q := service.RegionQuery{
		Keywords: keywords,
		Country:  country,
	}
	if resolution != "" {
		res, err := trends.ParseResolution(resolution)
		if err != nil {
			return q, err
		}
		q.Resolution = res
	}
	return q, nil
}
