package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/brettviren/recibi/internal/export"
	"github.com/brettviren/recibi/internal/pipeline"
	"github.com/brettviren/recibi/internal/record"
	"github.com/brettviren/recibi/internal/tabular"
)

var (
	convertOut       outputFlags
	convertDelimiter string
	convertKind      string
)

func init() {
	convertOut.register(convertCmd)
	convertOut.registerSort(convertCmd)
	convertCmd.Flags().StringVar(&convertDelimiter, "delimiter", ",", "Cell delimiter (a single character or \"tab\")")
	convertCmd.Flags().StringVar(&convertKind, "kind", record.DefaultKind, "Entry type for rows without a type column")
	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert [tables...]",
	Short: "Convert CSV tables to records",
	Long: `Convert delimited tables into bibliographic records.

The header row names the fields. Optional "key" and "type" columns give
the record key and entry type; rows without a key get a generated one of
the form Surname:YEARabc. Empty cells are omitted. Records sharing a key
are merged as by the merge command.

Examples:
  recibi convert papers.csv -o papers.bib
  recibi convert --delimiter tab --kind techreport reports.tsv -F json`,
	RunE: runConvert,
}

// tableSource loads one table file, or stdin for "-".
type tableSource struct {
	path string
	opts tabular.Options
}

func (s tableSource) Name() string {
	if export.IsStdio(s.path) {
		return "<stdin>"
	}
	return s.path
}

func (s tableSource) Load() (*record.Collection, error) {
	if export.IsStdio(s.path) {
		return tabular.Read(os.Stdin, s.opts)
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return tabular.Read(f, s.opts)
}

// tableSources returns one source per path, or stdin when there are none.
func tableSources(paths []string, opts tabular.Options) []pipeline.Source {
	if len(paths) == 0 {
		paths = []string{"-"}
	}
	sources := make([]pipeline.Source, len(paths))
	for i, p := range paths {
		sources[i] = tableSource{path: p, opts: opts}
	}
	return sources
}

func runConvert(cmd *cobra.Command, args []string) error {
	delim, err := tabular.ParseDelimiter(convertDelimiter)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	opts := tabular.Options{Delimiter: delim, Kind: convertKind}

	p := newPipeline(pipeline.WithResolver(configuredPatcher().Resolve))
	c, err := p.LoadAndResolve(tableSources(args, opts)...)
	exitOnError(err, "converting")

	exitOnError(convertOut.write(c), "writing output")
	return nil
}
