package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brettviren/recibi/internal/apis"
	"github.com/brettviren/recibi/internal/export"
	"github.com/brettviren/recibi/internal/inspire"
	"github.com/brettviren/recibi/internal/pipeline"
)

var (
	inspireOut       outputFlags
	inspireReq       inspire.Request
	inspireQueryFile []string
)

func init() {
	inspireOut.register(inspireCmd)
	inspireCmd.Flags().StringVarP(&inspireReq.Type, "type", "T", inspire.DefaultType, "Identifier type URL component")
	inspireCmd.Flags().StringVarP(&inspireReq.Value, "value", "V", "", "Identifier value URL component (optional)")
	inspireCmd.Flags().StringVar(&inspireReq.Format, "fetch-format", "bibtex", "Format requested from INSPIRE: bibtex or json")
	inspireCmd.Flags().StringArrayVarP(&inspireQueryFile, "queries", "q", nil, "File of q= search terms, one per line (repeatable)")
	inspireCmd.Flags().StringVarP(&inspireReq.Sort, "sort", "s", inspire.DefaultSort, "Sort order for search results")
	inspireCmd.Flags().IntVarP(&inspireReq.Size, "size", "S", inspire.DefaultSize, "Number of search results (max 1000)")
	inspireCmd.Flags().StringVar(&inspireReq.Join, "query-join", inspire.DefaultJoin, "Boolean operator joining multiple query terms")
	rootCmd.AddCommand(inspireCmd)
}

var inspireCmd = &cobra.Command{
	Use:   "inspire [query...]",
	Short: "Query the INSPIRE-HEP API",
	Long: `Query the INSPIRE-HEP web API and write the results.

Query terms from arguments and from -q files are joined with --query-join.
A query argument of "-" reads terms from stdin. Blank lines and lines
starting with # are skipped. One request is made; pagination is not
supported.

BibTeX results are cleaned and written like any other records, so -o and
-F behave as for merge. JSON results are written unchanged.

See https://github.com/inspirehep/rest-api-doc

Examples:
  recibi inspire arxiv:2404.01687 arxiv:2402.05383
  recibi parse paper.pdf | recibi inspire - -o refs.bib
  recibi inspire -T literature -V 1234567 --fetch-format json`,
	RunE: runInspire,
}

// readQueries collects query terms from args and files. "-" in args reads
// stdin as if it were a file.
func readQueries(args, files []string, stdin io.Reader) ([]string, error) {
	var queries []string
	readStdin := false
	for _, a := range args {
		if a == "-" {
			readStdin = true
			continue
		}
		queries = append(queries, a)
	}

	readLines := func(r io.Reader) error {
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			queries = append(queries, line)
		}
		return scanner.Err()
	}

	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		err = readLines(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	}
	if readStdin {
		if err := readLines(stdin); err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
	}
	return queries, nil
}

// newAPIClient builds a client from the configured rate and timeout.
func newAPIClient() *apis.Client {
	return apis.NewClient(
		apis.WithRateLimit(settings.RateLimit),
		apis.WithTimeout(settings.Timeout),
		apis.WithLogger(logger),
	)
}

// writeFetched writes a BibTeX response through the pipeline, or any other
// response verbatim.
func writeFetched(out *outputFlags, name, body string, isBibTeX bool) {
	if !isBibTeX {
		exitOnError(writeText(out.path, body), "writing output")
		return
	}
	src := pipeline.ReaderSource(name, strings.NewReader(body), export.BibTeX)
	c, err := newPipeline().LoadAndResolve(src)
	exitOnError(err, "reading response")
	exitOnError(out.write(c), "writing output")
}

func runInspire(cmd *cobra.Command, args []string) error {
	queries, err := readQueries(args, inspireQueryFile, os.Stdin)
	exitOnError(err, "reading queries")

	req := inspireReq
	req.Queries = queries
	if err := req.Normalize(); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	body, err := inspire.Fetch(cmd.Context(), newAPIClient(), settings.InspireURL, req)
	exitOnError(err, "querying INSPIRE")

	writeFetched(&inspireOut, "inspire", body, req.Format == "bibtex")
	return nil
}
