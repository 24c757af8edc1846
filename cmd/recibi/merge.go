package main

import (
	"github.com/spf13/cobra"

	"github.com/brettviren/recibi/internal/pipeline"
)

var (
	mergeOut       outputFlags
	mergeSetFields []string
	mergeSetDelim  string
)

func init() {
	mergeOut.register(mergeCmd)
	mergeOut.registerSort(mergeCmd)
	mergeCmd.Flags().StringSliceVar(&mergeSetFields, "set-field", nil, "Field holding a token set (default keywords, repeatable)")
	mergeCmd.Flags().StringVar(&mergeSetDelim, "set-delim", "", "Token delimiter in set fields (default ,)")
	rootCmd.AddCommand(mergeCmd)
}

var mergeCmd = &cobra.Command{
	Use:   "merge [bibfiles...]",
	Short: "Merge bibliography files",
	Long: `Merge bibliography files into one.

Records sharing a key are combined: fields from later files replace those
of earlier files, fields missing from the later record are kept, and set
fields (keywords by default) become the sorted union of both.

Examples:
  recibi merge old.bib new.bib -o all.bib
  recibi merge a.bib b.json --set-field keywords --set-field groups -F json
  cat extra.bib | recibi merge main.bib - --sort`,
	RunE: runMerge,
}

func runMerge(cmd *cobra.Command, args []string) error {
	patcher := configuredPatcher()
	if cmd.Flags().Changed("set-field") {
		patcher.SetFields = mergeSetFields
	}
	if mergeSetDelim != "" {
		patcher.Delimiter = mergeSetDelim
	}

	c := loadRecords(args, pipeline.WithResolver(patcher.Resolve))
	exitOnError(mergeOut.write(c), "writing output")
	return nil
}
