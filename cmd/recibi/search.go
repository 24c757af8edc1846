package main

import (
	"github.com/spf13/cobra"

	"github.com/brettviren/recibi/internal/pipeline"
	"github.com/brettviren/recibi/internal/record"
)

var (
	searchMatches []string
	searchNumbers []string
	searchLimit   int
)

func init() {
	registerPredicateFlags(searchCmd, &searchMatches, &searchNumbers)
	searchCmd.Flags().IntVar(&searchLimit, "limit", DefaultSearchLimit, "Maximum results to return (0 for all)")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search [bibfiles...]",
	Short: "Summarize records matching every test",
	Long: `Search records with the same tests as filter, printing a summary of
each match instead of the records themselves.

Output is a JSON array by default; use --human for a listing.

Examples:
  recibi search -m title:neutrino refs.bib
  recibi search -n year:'>=2020' --limit 5 --human refs.bib`,
	RunE: runSearch,
}

// SearchResult summarizes one record.
type SearchResult struct {
	Key    string `json:"key"`
	Kind   string `json:"kind"`
	Title  string `json:"title,omitempty"`
	Author string `json:"author,omitempty"`
	Year   string `json:"year,omitempty"`
}

// summarize lists up to limit records in collection order. A limit of
// zero or less means all of them.
func summarize(c *record.Collection, limit int) []SearchResult {
	results := make([]SearchResult, 0, c.Len())
	c.Each(func(key string, rec *record.Record) error {
		if limit > 0 && len(results) >= limit {
			return nil
		}
		results = append(results, SearchResult{
			Key:    key,
			Kind:   rec.Kind,
			Title:  rec.Get("title"),
			Author: rec.Get("author"),
			Year:   rec.Get("year"),
		})
		return nil
	})
	return results
}

func printSearchResultsHuman(results []SearchResult) {
	if len(results) == 0 {
		outputHuman("No matching records\n")
		return
	}
	for i, r := range results {
		outputHuman("%d. %s [%s]\n", i+1, r.Key, r.Kind)
		if r.Title != "" {
			outputHuman("   %s\n", truncateString(r.Title, SearchTitleMaxLen))
		}
		if r.Author != "" || r.Year != "" {
			outputHuman("   %s (%s)\n", truncateString(r.Author, SearchAuthorMaxLen), r.Year)
		}
		outputHuman("\n")
	}
}

func runSearch(cmd *cobra.Command, args []string) error {
	pred := compilePredicate(searchMatches, searchNumbers)
	c := loadRecords(args, pipeline.WithTransform(filterTransform(pred)))

	results := summarize(c, searchLimit)
	if humanOutput {
		printSearchResultsHuman(results)
		return nil
	}
	return outputJSON(results)
}
