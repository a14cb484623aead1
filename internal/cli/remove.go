package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

// NewRemoveCommand creates the remove command.
func NewRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete one of your records",
		Long: `Delete a record you authored. Attached media owned by the store is
released with it.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runRemove(rootOpts *RootOptions, idArg string, cmd *cobra.Command) error {
	id, err := strconv.ParseInt(idArg, 10, 64)
	if err != nil {
		return &ExitError{Code: ExitCommandError, Message: "invalid record id " + idArg, Err: err}
	}

	app, err := openApp(rootOpts)
	if err != nil {
		return err
	}
	defer app.Close()
	f := app.newFormatter(rootOpts, cmd)

	editor, err := app.requireLogin()
	if err != nil {
		return err
	}

	if err := app.Service.Delete(id, editor); err != nil {
		return fail(f, err)
	}
	return f.Successf("Removed #%d", id)
}
