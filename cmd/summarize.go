package cmd

import (
	"fmt"
	"os"

	"db-compare/core/summary"

	"github.com/spf13/cobra"
)

var summaryFile string

// summarizeCmd prints per-table counts for a finished diff file.
var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize a diff file",
	Long:  `Reads a diff file written by "run" and prints, per table, how many rows were updated, deleted and created and which columns changed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		summaries, err := summary.ParseFile(summaryFile)
		if err != nil {
			return err
		}
		if len(summaries) == 0 {
			fmt.Fprintln(os.Stdout, "No table blocks found")
			return nil
		}
		return summary.Print(os.Stdout, summaries)
	},
}

func init() {
	summarizeCmd.Flags().StringVarP(&summaryFile, "file", "f", "", "Diff file to summarize")
	_ = summarizeCmd.MarkFlagRequired("file")

	RootCmd.AddCommand(summarizeCmd)
}
