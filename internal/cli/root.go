// Package cli provides the Cobra command structure for gotat.
package cli

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gotat/internal/configloader"
	"github.com/yaklabco/gotat/internal/logging"
	"github.com/yaklabco/gotat/internal/ui/pretty"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root gotat command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "gotat",
		Short: "Rewrite Python code with syntax-aware match and replace rules",
		Long: `gotat rewrites Python source with rules written as code patterns.

A rule such as 'noop(_1) => _1' matches expressions by their syntax tree,
not their text, and the rewritten tree is turned back into source that
keeps the comments and formatting of everything it did not touch. Python
blocks fenced in Markdown files are rewritten the same way.

Files are only changed with --write; otherwise gotat prints a diff.` + environmentHelp(),
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if debug {
				logging.SetLevel("debug")
			}
			if !slices.Contains(pretty.ValidColorModes(), color) {
				return usageError(fmt.Errorf("invalid --color %q: valid values are %s",
					color, strings.Join(pretty.ValidColorModes(), ", ")))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	// Add subcommands.
	rootCmd.AddCommand(newRewriteCommand())
	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newInspectCommand())
	rootCmd.AddCommand(newRulesCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	// Apply styled help formatting.
	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}

// environmentHelp lists the GOTAT_* variables for the root help text.
func environmentHelp() string {
	vars := configloader.ListEnvVars()
	names := slices.Sorted(maps.Keys(vars))
	width := 0
	for _, name := range names {
		width = max(width, len(name))
	}

	var b strings.Builder
	b.WriteString("\n\nEnvironment:")
	for _, name := range names {
		fmt.Fprintf(&b, "\n  %s  %s", rpad(name, width), vars[name])
	}
	return b.String()
}
