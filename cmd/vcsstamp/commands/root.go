// Package commands implements the CLI commands for vcsstamp.
package commands

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/vcsstamp/internal/adapters/detector" //nolint:depguard // CLI picks the log format
	"go.trai.ch/vcsstamp/internal/adapters/format"   //nolint:depguard // Flag help lists the formats
	"go.trai.ch/vcsstamp/internal/adapters/logger"   //nolint:depguard // CLI picks the log format
	"go.trai.ch/vcsstamp/internal/app"
	"go.trai.ch/vcsstamp/internal/build"
)

// CLI represents the command line interface for vcsstamp.
type CLI struct {
	app      *app.App
	console  *logger.Logger
	rootCmd  *cobra.Command
	shutdown func(context.Context) error
}

// New creates a new CLI instance with the given app and the logger it configures.
func New(a *app.App, console *logger.Logger) *CLI {
	rootCmd := &cobra.Command{
		Use:           "vcsstamp",
		Short:         "Stamp builds with the branch and revision of their source tree",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	flags := rootCmd.PersistentFlags()
	flags.StringP("dir", "C", ".", "Directory to resolve from")
	flags.String("cache-file", "", "Cache file, relative to the directory (default \"vcs_data\")")
	flags.String("branch-env", "", "Environment variable naming the branch when HEAD is detached (default \"GIT_BRANCH\")")
	flags.String("detached-policy", "", "What to do on a detached HEAD without branch variable: label or fallback")
	flags.String("git", "", "Git executable (default \"git\")")
	flags.String("log-format", string(detector.ModeAuto), "Log format: auto, pretty, plain or json")
	flags.BoolP("quiet", "q", false, "Only log warnings and errors")
	flags.Bool("trace", false, "Log a timing line for every resolution phase")

	c := &CLI{
		app:     a,
		console: console,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPreRunE = c.configure

	rootCmd.AddCommand(c.newResolveCmd())
	rootCmd.AddCommand(c.newShowCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	err := c.rootCmd.Execute()
	if c.shutdown != nil {
		_ = c.shutdown(context.WithoutCancel(ctx))
	}
	return err
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets where help and version text are written. Used for testing.
func (c *CLI) SetOutput(w io.Writer) {
	c.rootCmd.SetOut(w)
	c.rootCmd.SetErr(w)
}

// configure applies the logging and tracing flags before any command runs.
func (c *CLI) configure(cmd *cobra.Command, _ []string) error {
	flag, _ := cmd.Flags().GetString("log-format")
	user, err := detector.ParseMode(flag)
	if err != nil {
		return err
	}

	switch detector.ResolveMode(detector.DetectEnvironment(), user) {
	case detector.ModeJSON:
		c.console.SetFormat(logger.FormatJSON)
	case detector.ModePlain:
		c.console.SetFormat(logger.FormatPlain)
	default:
		c.console.SetFormat(logger.FormatPretty)
	}

	quiet, _ := cmd.Flags().GetBool("quiet")
	c.console.SetQuiet(quiet)

	if trace, _ := cmd.Flags().GetBool("trace"); trace {
		c.shutdown = c.app.EnableTracing()
	}
	return nil
}

// resolveOptions collects the flags shared by resolve, show, clean and watch.
func resolveOptions(cmd *cobra.Command) app.ResolveOptions {
	flags := cmd.Flags()

	opts := app.ResolveOptions{}
	opts.Dir, _ = flags.GetString("dir")
	opts.CacheFile, _ = flags.GetString("cache-file")
	opts.DetachedPolicy, _ = flags.GetString("detached-policy")
	opts.GitBinary, _ = flags.GetString("git")

	// An explicitly empty --branch-env disables the override.
	if flags.Changed("branch-env") {
		branchEnv, _ := flags.GetString("branch-env")
		opts.BranchEnv = &branchEnv
	}

	if flags.Lookup("format") != nil {
		opts.Format, _ = flags.GetString("format")
		opts.Output, _ = flags.GetString("output")
		opts.HeaderPrefix, _ = flags.GetString("header-prefix")
	}

	return opts
}

// addOutputFlags registers the flags of commands that print a snapshot.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", string(format.Text), "Output format: "+strings.Join(format.Names(), ", "))
	cmd.Flags().StringP("output", "o", "", "Write to this file instead of stdout, relative to the directory")
	cmd.Flags().String("header-prefix", "", "Macro prefix for the header format (default \"VCS\")")
}
