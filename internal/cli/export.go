package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/grimstre/introspect/internal/history"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*HistoryOptions
	ExportFormat string
	Out          string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{HistoryOptions: &HistoryOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export records as CSV or JSON",
		Long: `Export the records matching a filter.

CSV output carries the fixed header
id,created_at,author,narrative,score_value,score_band,supporting_count,opposing_count
with RFC 4180 quoting. JSON output is a top-level array using the
persisted field names.

Example:
  introspect export --author alice --export-format csv --out alice.csv`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Author, "author", "", "restrict to one author (default all)")
	cmd.Flags().StringVar(&opts.Scheme, "scheme", "", "restrict to one scoring scheme")
	cmd.Flags().StringVar(&opts.From, "from", "", "earliest creation date")
	cmd.Flags().StringVar(&opts.To, "to", "", "latest creation date")
	cmd.Flags().StringVar(&opts.ExportFormat, "export-format", history.FormatJSON, "export format (csv|json)")
	cmd.Flags().StringVar(&opts.Out, "out", "", "output file (default stdout)")

	return cmd
}

func runExport(opts *ExportOptions, cmd *cobra.Command) error {
	if opts.ExportFormat != history.FormatCSV && opts.ExportFormat != history.FormatJSON {
		return &ExitError{
			Code:    ExitCommandError,
			Message: fmt.Sprintf("invalid export format %q: must be csv or json", opts.ExportFormat),
		}
	}
	filter, err := buildFilter(opts.HistoryOptions)
	if err != nil {
		return err
	}

	app, err := openApp(opts.RootOptions)
	if err != nil {
		return err
	}
	defer app.Close()
	f := app.newFormatter(opts.RootOptions, cmd)

	var w io.Writer = cmd.OutOrStdout()
	if opts.Out != "" {
		file, err := os.Create(opts.Out)
		if err != nil {
			return &ExitError{Code: ExitCommandError, Message: "create " + opts.Out, Err: err}
		}
		defer file.Close()
		w = file
	}

	if err := app.Service.Export(w, filter, opts.ExportFormat); err != nil {
		return fail(f, err)
	}
	if opts.Out != "" {
		f.VerboseLog("exported to %s", opts.Out)
	}
	return nil
}
