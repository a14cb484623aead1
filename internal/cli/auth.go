package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/grimstre/introspect/internal/identity"
)

// AuthOptions holds flags for the register and login commands.
type AuthOptions struct {
	*RootOptions
	Secret string
}

// NewRegisterCommand creates the register command.
func NewRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AuthOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "register <name>",
		Short: "Register a new principal",
		Long: `Register a new principal that can author records.

Names are unique ignoring case. The secret is stored as a bcrypt digest,
never in plaintext.

Example:
  introspect register alice --secret pw`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Secret, "secret", "", "credential for the new principal")
	cmd.MarkFlagRequired("secret")

	return cmd
}

func runRegister(opts *AuthOptions, name string, cmd *cobra.Command) error {
	app, err := openApp(opts.RootOptions)
	if err != nil {
		return err
	}
	defer app.Close()
	f := app.newFormatter(opts.RootOptions, cmd)

	p, err := app.Registry.Register(name, opts.Secret)
	if err != nil {
		return fail(f, err)
	}
	return f.Successf("Registered %s", p.Name)
}

// NewLoginCommand creates the login command.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AuthOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "login <name>",
		Short: "Log in as a principal",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Secret, "secret", "", "credential to authenticate with")
	cmd.MarkFlagRequired("secret")

	return cmd
}

func runLogin(opts *AuthOptions, name string, cmd *cobra.Command) error {
	app, err := openApp(opts.RootOptions)
	if err != nil {
		return err
	}
	defer app.Close()
	f := app.newFormatter(opts.RootOptions, cmd)

	p, err := app.Registry.Authenticate(name, opts.Secret)
	if err != nil {
		return fail(f, err)
	}
	if err := app.saveSession(identity.NewSession(p, time.Now())); err != nil {
		return &ExitError{Code: ExitCommandError, Message: "save session", Err: err}
	}
	return f.Successf("Logged in as %s", p.Name)
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Clear the current session",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()
			f := app.newFormatter(rootOpts, cmd)

			if err := app.clearSession(); err != nil {
				return &ExitError{Code: ExitCommandError, Message: "clear session", Err: err}
			}
			return f.Success("Logged out")
		},
	}
	return cmd
}

// NewWhoamiCommand creates the whoami command.
func NewWhoamiCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the current principal",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()
			f := app.newFormatter(rootOpts, cmd)

			if s := app.loadSession(); s != nil {
				return f.Success(s.Current())
			}
			return f.Success("not logged in")
		},
	}
	return cmd
}
