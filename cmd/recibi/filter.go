package main

import (
	"github.com/spf13/cobra"

	"github.com/brettviren/recibi/internal/match"
	"github.com/brettviren/recibi/internal/pipeline"
	"github.com/brettviren/recibi/internal/record"
)

var (
	filterOut     outputFlags
	filterMatches []string
	filterNumbers []string
)

func init() {
	filterOut.register(filterCmd)
	filterOut.registerSort(filterCmd)
	registerPredicateFlags(filterCmd, &filterMatches, &filterNumbers)
	rootCmd.AddCommand(filterCmd)
}

func registerPredicateFlags(cmd *cobra.Command, matches, numbers *[]string) {
	cmd.Flags().StringArrayVarP(matches, "match", "m", nil, "Match <field>:<regex>, case insensitive (repeatable, AND)")
	cmd.Flags().StringArrayVarP(numbers, "number", "n", nil, "Compare <field>:<op><number>, e.g. year:>2018 (repeatable, AND)")
}

var filterCmd = &cobra.Command{
	Use:   "filter [bibfiles...]",
	Short: "Output records matching every test",
	Long: `Output the records that pass every test.

String tests (-m) are case-insensitive regular expressions searched for in
a field. Number tests (-n) compare a field against a number with one of
<, <=, >, >=, ==, !=. A record missing a tested field does not match. The
field name "key" tests the record key.

Examples:
  recibi filter -m collaboration:dune -n year:'>2018' refs.bib
  recibi filter -m key:'^Doe' -o doe.bib refs.bib`,
	RunE: runFilter,
}

// compilePredicate parses the flag values, exiting on a bad test.
func compilePredicate(matches, numbers []string) *match.Predicate {
	strTests, err := match.ParseTests(matches)
	exitOnError(err, "parsing --match")
	numTests, err := match.ParseTests(numbers)
	exitOnError(err, "parsing --number")

	pred, err := match.Compile(strTests, numTests)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	return pred
}

// filterTransform keeps the records pred accepts.
func filterTransform(pred *match.Predicate) pipeline.Transform {
	return func(key string, rec *record.Record) []pipeline.Entry {
		if !pred.Match(key, rec) {
			return nil
		}
		return pipeline.Identity(key, rec)
	}
}

func runFilter(cmd *cobra.Command, args []string) error {
	pred := compilePredicate(filterMatches, filterNumbers)
	c := loadRecords(args, pipeline.WithTransform(filterTransform(pred)))
	exitOnError(filterOut.write(c), "writing output")
	return nil
}
