package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/grimstre/introspect/internal/service"
)

// EditOptions holds flags for the edit command.
type EditOptions struct {
	*RootOptions
	Narrative  string
	For        []string
	Against    []string
	Scheme     string
	Image      string
	Audio      string
	ClearImage bool
	ClearAudio bool
}

// NewEditCommand creates the edit command.
func NewEditCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EditOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit one of your records",
		Long: `Edit a record you authored. Only the flags you pass change; the score
is recomputed from the new state.

Example:
  introspect edit 3 --against "hurts my family" --against "expensive"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Narrative, "narrative", "", "replacement narrative")
	cmd.Flags().StringArrayVar(&opts.For, "for", nil, "replacement supporting elements, repeatable")
	cmd.Flags().StringArrayVar(&opts.Against, "against", nil, "replacement opposing elements, repeatable")
	cmd.Flags().StringVar(&opts.Scheme, "scheme", "", "replacement scoring scheme")
	cmd.Flags().StringVar(&opts.Image, "image", "", "replacement image file")
	cmd.Flags().StringVar(&opts.Audio, "audio", "", "replacement audio file")
	cmd.Flags().BoolVar(&opts.ClearImage, "clear-image", false, "detach the image")
	cmd.Flags().BoolVar(&opts.ClearAudio, "clear-audio", false, "detach the audio")

	return cmd
}

func runEdit(opts *EditOptions, idArg string, cmd *cobra.Command) error {
	id, err := strconv.ParseInt(idArg, 10, 64)
	if err != nil {
		return &ExitError{Code: ExitCommandError, Message: "invalid record id " + idArg, Err: err}
	}

	app, err := openApp(opts.RootOptions)
	if err != nil {
		return err
	}
	defer app.Close()
	f := app.newFormatter(opts.RootOptions, cmd)

	editor, err := app.requireLogin()
	if err != nil {
		return err
	}

	var patch service.Patch
	if cmd.Flags().Changed("narrative") {
		patch.Narrative = &opts.Narrative
	}
	if cmd.Flags().Changed("for") {
		patch.Supporting = &opts.For
	}
	if cmd.Flags().Changed("against") {
		patch.Opposing = &opts.Against
	}
	if cmd.Flags().Changed("scheme") {
		patch.Scheme = &opts.Scheme
	}
	empty := ""
	switch {
	case opts.ClearImage:
		patch.ImageRef = &empty
	case opts.Image != "":
		ref, err := app.Service.ImportMedia(opts.Image)
		if err != nil {
			return fail(f, err)
		}
		patch.ImageRef = &ref
	}
	switch {
	case opts.ClearAudio:
		patch.AudioRef = &empty
	case opts.Audio != "":
		ref, err := app.Service.ImportMedia(opts.Audio)
		if err != nil {
			return fail(f, err)
		}
		patch.AudioRef = &ref
	}

	rec, err := app.Service.Update(id, editor, patch)
	if err != nil {
		return fail(f, err)
	}
	return outputRecord(f, rec, "Updated")
}
