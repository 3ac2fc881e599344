package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gotat/internal/configloader"
	"github.com/yaklabco/gotat/internal/logging"
)

// initFlags holds the flags for the init command.
type initFlags struct {
	force bool
	full  bool
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new gotat configuration file",
		Long: `Create a new .gotat.yml configuration file in the current directory
with an example rule. Edit the file to add your own rules.

If the file exists and the terminal is interactive, you are asked before
it is overwritten.

Examples:
  gotat init            Create a commented starter .gotat.yml
  gotat init --full     Write every setting with its default value
  gotat init --force    Overwrite an existing file without asking`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "Generate full template with every setting")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewInteractive(cmd.ErrOrStderr(), "info")

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	path, err := configloader.WriteProjectConfig(configloader.InitOptions{
		Dir:         workDir,
		Full:        flags.full,
		Force:       flags.force,
		Interactive: configloader.IsInteractive(),
		In:          cmd.InOrStdin(),
		Out:         cmd.ErrOrStderr(),
	})
	if err != nil {
		if errors.Is(err, configloader.ErrConfigExists) {
			return usageError(err)
		}
		return err
	}

	logger.Info("created configuration file", logging.FieldPath, path)
	logger.Info("customize your rules by editing the file")
	logger.Info("run 'gotat rules' to see the rules in effect")

	return nil
}
