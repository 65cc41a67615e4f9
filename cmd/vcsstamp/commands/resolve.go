package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the branch and revision, refreshing the cache from git",
		Long: `Print the branch and revision of the source tree.

The repository is found by walking up from the directory. When git answers,
the snapshot is written to the cache file. Without a repository, or when git
fails, the cache file is used, and without a cache "undefined" is printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Resolve(cmd.Context(), resolveOptions(cmd))
		},
	}
	addOutputFlags(cmd)
	return cmd
}

func (c *CLI) newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the cached branch and revision without running git",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Show(cmd.Context(), resolveOptions(cmd))
		},
	}
	addOutputFlags(cmd)
	return cmd
}

func (c *CLI) newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Delete the cache file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Clean(cmd.Context(), resolveOptions(cmd))
		},
	}
}

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-resolve whenever HEAD or a ref changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Watch(cmd.Context(), resolveOptions(cmd))
		},
	}
	addOutputFlags(cmd)
	return cmd
}
