package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/grimstre/introspect/internal/config"
	"github.com/grimstre/introspect/internal/identity"
	"github.com/grimstre/introspect/internal/service"
	"github.com/grimstre/introspect/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Dir     string // document directory; "" uses config/default
	Format  string // "json" | "text"
	Verbose bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the introspect CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "introspect",
		Short: "Analysis record log",
		Long:  "A log book for scored analysis records: narratives weighed by supporting and opposing elements.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.Dir, "dir", "", "document directory (default current directory)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	cmd.AddCommand(NewRegisterCommand(opts))
	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))
	cmd.AddCommand(NewWhoamiCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewEditCommand(opts))
	cmd.AddCommand(NewRemoveCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewSchemesCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// App bundles the wired engine components for one command invocation.
type App struct {
	Config   config.Config
	Store    *store.Store
	Service  *service.Service
	Registry *identity.Registry
	Warnings []store.Warning
}

// openApp loads configuration, the document, and wires the service and
// registry over it. Load warnings (corrupt files moved aside) are kept
// for the command to surface.
func openApp(opts *RootOptions) (*App, error) {
	cfg, err := config.Load(opts.Dir)
	if err != nil {
		return nil, &ExitError{Code: ExitCommandError, Message: "load configuration", Err: err}
	}

	st := store.New(cfg.DocumentPath)
	doc, warnings, err := st.Load()
	if err != nil {
		return nil, &ExitError{Code: ExitCommandError, Message: "load document", Err: err}
	}

	svc, err := service.New(cfg, st, doc, time.Now)
	if err != nil {
		return nil, &ExitError{Code: ExitCommandError, Message: "start service", Err: err}
	}

	return &App{
		Config:   cfg,
		Store:    st,
		Service:  svc,
		Registry: identity.NewRegistry(doc, svc.Save, time.Now),
		Warnings: warnings,
	}, nil
}

// Close releases the app's resources.
func (a *App) Close() {
	a.Service.Close()
}

// newFormatter builds the output formatter for a command, surfacing any
// load warnings on the diagnostic channel first.
func (a *App) newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	f := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	for _, w := range a.Warnings {
		fmt.Fprintf(f.ErrWriter, "warning: %s\n", w)
	}
	return f
}
