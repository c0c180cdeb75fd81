package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var plotCmd = &cobra.Command{
	Use:   "plot <keyword>",
	Short: "Render a bar chart of interest by location",
	Long: `Render interest by location for one keyword as a bar chart, largest
first, leaving out locations with no interest.

Examples:
  gtrends plot Voting                              # Voting.png, US states
  gtrends plot Voting -r metro -o voting.svg       # US metro areas as svg
  gtrends plot Census -k Voting,Census -o census.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runPlot,
}

var (
	plotKeywords   []string
	plotCountry    string
	plotResolution string
	plotOutput     string
)

func init() {
	rootCmd.AddCommand(plotCmd)

	plotCmd.Flags().StringSliceVarP(&plotKeywords, "keywords", "k", nil, "Keywords to request (default: the plotted keyword)")
	plotCmd.Flags().StringVar(&plotCountry, "country", "", "Two-letter country code (default from config, US)")
	plotCmd.Flags().StringVarP(&plotResolution, "resolution", "r", "", "CITY, METRO, REGION or COUNTRY")
	plotCmd.Flags().StringVarP(&plotOutput, "output", "o", "", "Image path; the extension picks the format (default <keyword>.png)")
}

func runPlot(cmd *cobra.Command, args []string) error {
	keyword := args[0]
	keywords := plotKeywords
	if len(keywords) == 0 {
		keywords = []string{keyword}
	}

	q, err := regionQueryFromFlags(keywords, plotCountry, plotResolution)
	if err != nil {
		return err
	}
	table, err := svc.QueryRegions(cmd.Context(), q)
	if err != nil {
		return err
	}

	path := plotOutput
	if path == "" {
		path = chartFileName(keyword, "png")
	}
	return savePlot(cmd, keyword, table, path)
}

// chartFileName turns keyword into a file name safe on common filesystems.
func chartFileName(keyword, ext string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, keyword)
	return fmt.Sprintf("%s.%s", name, ext)
}
