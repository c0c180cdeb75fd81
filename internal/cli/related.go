package cli

import (
	"io"

	"github.com/spf13/cobra"

	"gtrends-go/pkg/interest"
)

var relatedCmd = &cobra.Command{
	Use:   "related <keyword>",
	Short: "List terms related to a keyword",
	Args:  cobra.ExactArgs(1),
	RunE:  runRelated,
}

var (
	relatedFormat string
	relatedOutput string
)

func init() {
	rootCmd.AddCommand(relatedCmd)

	relatedCmd.Flags().StringVarP(&relatedFormat, "format", "f", "table", "Output format: table, json, yaml")
	relatedCmd.Flags().StringVarP(&relatedOutput, "output", "o", "", "Write to file instead of stdout")
}

func runRelated(cmd *cobra.Command, args []string) error {
	format, err := interest.ParseFormat(relatedFormat)
	if err != nil {
		return err
	}

	terms, err := svc.RelatedTerms(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	return withOutput(cmd, relatedOutput, func(w io.Writer) error {
		return writeTerms(w, terms, format)
	})
}
