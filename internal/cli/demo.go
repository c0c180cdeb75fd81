package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"gtrends-go/pkg/interest"
)

const demoHeadRows = 10

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Walk through every query for one keyword",
	Long: `Run interest by region, the location chart, hourly interest for January
2018 and related terms for one keyword, printing each result.`,
	RunE: runDemo,
}

var (
	demoKeyword  string
	demoChartDir string
	demoHourly   bool
)

func init() {
	rootCmd.AddCommand(demoCmd)

	demoCmd.Flags().StringVar(&demoKeyword, "keyword", "Voting", "Keyword to query")
	demoCmd.Flags().StringVar(&demoChartDir, "chart-dir", ".", "Directory for the rendered chart")
	demoCmd.Flags().BoolVar(&demoHourly, "hourly", true, "Include the hourly interest query")
}

func runDemo(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	kwd := demoKeyword

	table, err := svc.InterestByRegion(ctx, []string{kwd}, "", "")
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nFirst %d locations count for '%s':\n", demoHeadRows, kwd)
	if err := table.Head(demoHeadRows).Write(out, interest.FormatTable); err != nil {
		return err
	}

	if err := savePlot(cmd, kwd, table, filepath.Join(demoChartDir, chartFileName(kwd, "png"))); err != nil {
		return err
	}

	if demoHourly {
		// the hourly window defaults cover January 2018 in the US
		req, err := historicalRequest([]string{kwd})
		if err != nil {
			return err
		}
		points, err := svc.HourlyInterest(ctx, req)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nHourly interest for '%s': %d points\n", kwd, len(points))
	}

	terms, err := svc.RelatedTerms(ctx, kwd)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nTerms related to '%s':\n", kwd)
	return writeTerms(out, terms, interest.FormatTable)
}

func savePlot(cmd *cobra.Command, keyword string, table *interest.Table, path string) error {
	fig, err := svc.PlotTermFreq(keyword, table)
	if err != nil {
		return err
	}
	if err := fig.Save(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Chart written to %s (%d locations)\n", path, len(fig.Points))
	return nil
}
