package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brettviren/recibi/internal/export"
	"github.com/brettviren/recibi/internal/pdf"
)

var (
	parseOutput   string
	parsePatterns []string
	parseMaxPages int
)

func init() {
	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "-", "Output file (- for stdout)")
	parseCmd.Flags().StringArrayVarP(&parsePatterns, "match", "m", nil, "Regex or named pattern (arxiv, doi); default arxiv (repeatable, OR)")
	parseCmd.Flags().IntVar(&parseMaxPages, "max-pages", 0, "Pages of a PDF to read (0 for all)")
	rootCmd.AddCommand(parseCmd)
}

var parseCmd = &cobra.Command{
	Use:   "parse TEXT",
	Short: "Print identifiers found in a text or PDF file",
	Long: `Print one line per match of each pattern found in TEXT.

When a pattern has capture groups the first group is printed, otherwise the
whole match. Files ending in .pdf have their text extracted first. TEXT may
be "-" for stdin.

Examples:
  recibi parse paper.pdf > ids.txt
  recibi parse -m doi -m arxiv notes.txt
  recibi parse paper.pdf | recibi inspire -T arxiv -`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

// readText returns the text of path, extracting it from PDFs.
func readText(path string, maxPages int) (string, error) {
	if export.IsStdio(path) {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return pdf.ExtractText(path, maxPages)
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

func runParse(cmd *cobra.Command, args []string) error {
	patterns, err := pdf.CompilePatterns(parsePatterns)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	text, err := readText(args[0], parseMaxPages)
	if err != nil {
		exitWithError(ExitDataError, "reading %s: %v", args[0], err)
	}

	var out strings.Builder
	for _, m := range pdf.FindMatches(text, patterns) {
		if m == "" {
			continue
		}
		out.WriteString(m)
		out.WriteString("\n")
	}
	logger.Debug().Str("input", args[0]).Int("bytes", len(text)).Msg("parsed")

	exitOnError(writeText(parseOutput, out.String()), "writing output")
	return nil
}
