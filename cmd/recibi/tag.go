package main

import (
	"github.com/spf13/cobra"

	"github.com/brettviren/recibi/internal/merge"
	"github.com/brettviren/recibi/internal/pipeline"
	"github.com/brettviren/recibi/internal/record"
)

var (
	tagOut  outputFlags
	tagTags []string
)

func init() {
	tagOut.register(tagCmd)
	tagOut.registerSort(tagCmd)
	tagCmd.Flags().StringArrayVarP(&tagTags, "tag", "t", nil, "A value to add to the keywords field (repeatable)")
	rootCmd.AddCommand(tagCmd)
}

var tagCmd = &cobra.Command{
	Use:   "tag [bibfiles...]",
	Short: "Add tags to the keywords field",
	Long: `Add one or more tags to the keywords field of every record.

The result is the sorted, de-duplicated union of existing and new tags.

Examples:
  recibi tag -t dune -t review refs.bib -o tagged.bib`,
	RunE: runTag,
}

// tagTransform adds tags to each record's keywords, joined with the
// patcher's delimiter.
func tagTransform(p merge.Patcher, tags []string) pipeline.Transform {
	delim := p.Delimiter
	if delim == "" {
		delim = merge.DefaultDelimiter
	}
	return func(key string, rec *record.Record) []pipeline.Entry {
		values := append([]string{rec.Get(merge.DefaultSetField)}, tags...)
		rec.Set(merge.DefaultSetField, merge.Union(delim, values...))
		return pipeline.Identity(key, rec)
	}
}

func runTag(cmd *cobra.Command, args []string) error {
	if len(tagTags) == 0 {
		exitWithError(ExitConfigError, "at least one tag is required (-t)")
	}

	c := loadRecords(args, pipeline.WithTransform(tagTransform(configuredPatcher(), tagTags)))
	exitOnError(tagOut.write(c), "writing output")
	return nil
}
