package main

import (
	"github.com/spf13/cobra"

	"github.com/brettviren/recibi/internal/export"
	"github.com/brettviren/recibi/internal/merge"
	"github.com/brettviren/recibi/internal/pipeline"
	"github.com/brettviren/recibi/internal/record"
)

// outputFlags are shared by every command that writes records.
type outputFlags struct {
	path   string
	format string
	sort   bool
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.path, "output", "o", "-", "Output file (- for stdout)")
	cmd.Flags().StringVarP(&o.format, "format", "F", "", "Output format: bibtex, json, jsonl, sqlite (default from -o extension)")
}

// registerSort adds --sort. Commands with their own sort flag skip it.
func (o *outputFlags) registerSort(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.sort, "sort", false, "Sort records by key")
}

// outputFormat picks the explicit format or guesses one from the path.
func outputFormat(flag, path string) (export.Format, error) {
	if flag == "" {
		return export.FormatFromPath(path), nil
	}
	return export.ParseFormat(flag)
}

// write stores c according to the flags.
func (o *outputFlags) write(c *record.Collection) error {
	f, err := outputFormat(o.format, o.path)
	if err != nil {
		return err
	}
	if o.sort {
		c.SortByKey()
	}
	logger.Debug().Str("output", o.path).Str("format", string(f)).Int("records", c.Len()).Msg("writing")
	return export.WriteFile(o.path, c, f)
}

// newPipeline builds a pipeline that logs through the command logger.
func newPipeline(opts ...pipeline.Option) *pipeline.Pipeline {
	return pipeline.New(logger, opts...)
}

// configuredPatcher returns the merge patcher from the config file.
func configuredPatcher() merge.Patcher {
	return merge.NewPatcher(settings.SetFields, settings.SetDelimiter)
}

// loadRecords runs the files through a pipeline, exiting on failure.
func loadRecords(paths []string, opts ...pipeline.Option) *record.Collection {
	c, err := newPipeline(opts...).LoadAndResolve(pipeline.FileSources(paths)...)
	exitOnError(err, "loading records")
	return c
}
