package main

import (
	"github.com/spf13/cobra"

	"github.com/brettviren/recibi/internal/osti"
)

var (
	ostiOut         outputFlags
	ostiEndpoint    string
	ostiFetchFormat string
)

func init() {
	ostiOut.register(ostiCmd)
	ostiCmd.Flags().StringVarP(&ostiEndpoint, "endpoint", "E", osti.DefaultEndpoint, "API endpoint under the base URL")
	ostiCmd.Flags().StringVar(&ostiFetchFormat, "fetch-format", "bibtex", "Format requested from OSTI: bibtex, json or xml")
	rootCmd.AddCommand(ostiCmd)
}

var ostiCmd = &cobra.Command{
	Use:   "osti [name=value...]",
	Short: "Query the OSTI.GOV records API",
	Long: `Query the OSTI.GOV records API with name=value search terms.

BibTeX results are cleaned and written like any other records. JSON and
XML results are written unchanged.

Examples:
  recibi osti title="neutrino detector" rows=5
  recibi osti -E records/1234567 --fetch-format json`,
	RunE: runOsti,
}

func runOsti(cmd *cobra.Command, args []string) error {
	if _, err := osti.Accept(ostiFetchFormat); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if _, err := osti.ParseTerms(args); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	body, err := osti.Fetch(cmd.Context(), newAPIClient(), settings.OstiURL, ostiEndpoint, ostiFetchFormat, args)
	exitOnError(err, "querying OSTI")

	writeFetched(&ostiOut, "osti", body, ostiFetchFormat == "bibtex")
	return nil
}
