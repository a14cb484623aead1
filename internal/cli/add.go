package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grimstre/introspect/internal/record"
	"github.com/grimstre/introspect/internal/service"
)

// AddOptions holds flags for the add command.
type AddOptions struct {
	*RootOptions
	Narrative string
	For       []string
	Against   []string
	Scheme    string
	Image     string
	Audio     string
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new analysis",
		Long: `Record a new analysis: a narrative plus supporting and opposing elements.

The score and its interpretation band are derived from the element counts
by the selected scheme and stored with the record.

Example:
  introspect add --narrative "I smoke" --for "relaxing" --against "causes cancer" --against "expensive"`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Narrative, "narrative", "", "free-text narrative")
	cmd.Flags().StringArrayVar(&opts.For, "for", nil, "supporting (consonant) element, repeatable")
	cmd.Flags().StringArrayVar(&opts.Against, "against", nil, "opposing (dissonant) element, repeatable")
	cmd.Flags().StringVar(&opts.Scheme, "scheme", "", "scoring scheme (default from config)")
	cmd.Flags().StringVar(&opts.Image, "image", "", "image file to attach")
	cmd.Flags().StringVar(&opts.Audio, "audio", "", "audio file to attach")

	return cmd
}

func runAdd(opts *AddOptions, cmd *cobra.Command) error {
	app, err := openApp(opts.RootOptions)
	if err != nil {
		return err
	}
	defer app.Close()
	f := app.newFormatter(opts.RootOptions, cmd)

	author, err := app.requireLogin()
	if err != nil {
		return err
	}

	var media service.Media
	if opts.Image != "" {
		if media.ImageRef, err = app.Service.ImportMedia(opts.Image); err != nil {
			return fail(f, err)
		}
	}
	if opts.Audio != "" {
		if media.AudioRef, err = app.Service.ImportMedia(opts.Audio); err != nil {
			return fail(f, err)
		}
	}

	rec, err := app.Service.Create(author, opts.Narrative, opts.For, opts.Against, opts.Scheme, media)
	if err != nil {
		return fail(f, err)
	}
	return outputRecord(f, rec, "Recorded")
}

// outputRecord prints one record in the configured format.
func outputRecord(f *OutputFormatter, rec record.Record, verb string) error {
	if f.Format == "json" {
		return f.Success(rec)
	}
	fmt.Fprintf(f.Writer, "%s #%d by %s\n", verb, rec.ID, rec.Author)
	fmt.Fprintf(f.Writer, "  Score: %.3f (%s) via %s\n", rec.ScoreValue, rec.ScoreBand, rec.Scheme)
	fmt.Fprintf(f.Writer, "  Supporting: %d  Opposing: %d  Words: %d\n",
		len(rec.Supporting), len(rec.Opposing), rec.WordCount)
	return nil
}
