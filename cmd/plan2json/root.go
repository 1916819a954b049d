package main

import (
	"github.com/spf13/cobra"
)

var flags runOptions

var rootCmd = &cobra.Command{
	Use:   "plan2json --input <pdf|dir>",
	Short: "Extract curriculum plans from PDFs into JSON for the web frontend",
	Long: `plan2json reads curriculum PDFs, rebuilds their course tables and writes
<slug>.json (metadata and courses) and <slug>.materias.json (course list)
for every plan, then refreshes catalog.json in the output directory.

Exit status is 1 when the input is missing or holds no PDFs, and 2 when
any document fails; the catalog is left untouched in that case.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), flags, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&flags.input, "input", "", "PDF file or directory searched recursively for PDFs")
	f.StringVar(&flags.output, "output", "data/planes", "output directory")
	f.StringVar(&flags.split, "split", "", "first-half course count per year, e.g. 1:5,2:5")
	f.StringVar(&flags.profile, "profile", "", "YAML layout profile overriding column thresholds")
	f.IntVar(&flags.workers, "workers", 4, "documents processed in parallel")
	f.IntVar(&flags.maxPages, "max-pages", 200, "reject PDFs with more pages (0 disables)")
	f.BoolVar(&flags.strict, "strict", false, "fail documents that drop rows or prerequisites")
	f.BoolVar(&flags.verbose, "verbose", false, "log every document")
	f.BoolVar(&flags.prune, "prune", false, "delete JSON files not referenced by catalog.json")
	f.BoolVar(&flags.pdftotext, "pdftotext", true, "fall back to pdftotext when the PDF library fails")
	_ = rootCmd.MarkFlagRequired("input")
}
