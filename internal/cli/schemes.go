package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grimstre/introspect/internal/score"
)

// NewSchemesCommand creates the schemes command.
func NewSchemesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schemes",
		Short: "List the available scoring schemes",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := &OutputFormatter{
				Format:    rootOpts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   rootOpts.Verbose,
			}
			names := score.Schemes()
			if f.Format == "json" {
				return f.Success(names)
			}
			for _, name := range names {
				fmt.Fprintln(f.Writer, name)
			}
			return nil
		},
	}
	return cmd
}
