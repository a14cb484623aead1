package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/grimstre/introspect/internal/history"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Author    string
	Scheme    string
	From      string
	To        string
	Ascending bool
	Offset    int
	Limit     int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded analyses",
		Long: `Show recorded analyses, newest first.

Dates accept YYYY-MM-DD or a full RFC 3339 timestamp. --to with a bare
date includes the whole day.

Example:
  introspect history --author alice --from 2026-01-01 --limit 20`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Author, "author", "", "restrict to one author (default all)")
	cmd.Flags().StringVar(&opts.Scheme, "scheme", "", "restrict to one scoring scheme")
	cmd.Flags().StringVar(&opts.From, "from", "", "earliest creation date")
	cmd.Flags().StringVar(&opts.To, "to", "", "latest creation date")
	cmd.Flags().BoolVar(&opts.Ascending, "asc", false, "oldest first")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "rows to skip")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum rows (0 = all)")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	filter, err := buildFilter(opts)
	if err != nil {
		return err
	}

	app, err := openApp(opts.RootOptions)
	if err != nil {
		return err
	}
	defer app.Close()
	f := app.newFormatter(opts.RootOptions, cmd)

	recs, err := app.Service.List(filter)
	if err != nil {
		return fail(f, err)
	}
	rows := history.Rows(recs, app.Config.PreviewChars)
	f.VerboseLog("%d record(s) matched", len(rows))

	if f.Format == "json" {
		return f.Success(rows)
	}

	tw := tabwriter.NewWriter(f.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tAUTHOR\tNARRATIVE\tSCORE\tBAND\tFOR\tAGAINST")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
			r.When, r.Author, r.Preview, r.Score, r.Band, r.Supporting, r.Opposing)
	}
	return tw.Flush()
}

// buildFilter translates command flags into a history filter.
func buildFilter(opts *HistoryOptions) (history.Filter, error) {
	f := history.Filter{
		Author:    opts.Author,
		Scheme:    opts.Scheme,
		Ascending: opts.Ascending,
		Offset:    opts.Offset,
		Limit:     opts.Limit,
	}
	var err error
	if f.From, err = parseTimeFlag(opts.From, false); err != nil {
		return history.Filter{}, &ExitError{Code: ExitCommandError, Message: "invalid --from", Err: err}
	}
	if f.To, err = parseTimeFlag(opts.To, true); err != nil {
		return history.Filter{}, &ExitError{Code: ExitCommandError, Message: "invalid --to", Err: err}
	}
	return f, nil
}

// parseTimeFlag parses a date flag. Bare dates mark midnight; when end is
// set they extend to the last instant of the day so --to is inclusive.
func parseTimeFlag(val string, end bool) (time.Time, error) {
	if val == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", val, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected YYYY-MM-DD or RFC 3339, got %q", val)
	}
	if end {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return t, nil
}
