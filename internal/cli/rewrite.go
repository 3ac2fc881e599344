package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gotat/internal/configloader"
	"github.com/yaklabco/gotat/internal/logging"
	"github.com/yaklabco/gotat/pkg/config"
	"github.com/yaklabco/gotat/pkg/pattern"
	"github.com/yaklabco/gotat/pkg/reporter"
	"github.com/yaklabco/gotat/pkg/rewrite"
	"github.com/yaklabco/gotat/pkg/runner"
)

type rewriteFlags struct {
	rules         []string
	deletes       []string
	write         bool
	backups       bool
	jobs          int
	format        string
	mark          bool
	indent        string
	ignore        []string
	noVerify      bool
	noMarkdown    bool
	showUnchanged bool
	compact       bool

	// check never writes and reports pending changes as a failure.
	check bool
}

func newRewriteCommand() *cobra.Command {
	flags := &rewriteFlags{}

	cmd := &cobra.Command{
		Use:   "rewrite [paths...]",
		Short: "Rewrite Python files with the configured rules",
		Long:  rewriteLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRewrite(cmd, args, flags)
		},
	}

	addRuleFlags(cmd, flags)
	cmd.Flags().BoolVarP(&flags.write, "write", "w", false, "rewrite files in place instead of printing a diff")
	cmd.Flags().BoolVar(&flags.backups, "backups", false, "keep a copy of every rewritten file")

	return cmd
}

const rewriteLongDescription = `Rewrite Python files with the configured rules.

By default, processes all .py and .pyi files and the python code blocks
of Markdown files in the current directory and subdirectories, and
prints the changes as a unified diff. Nothing is written without --write.

A rule is written as 'match => replacement'. In a pattern, _1 matches any
expression, __1 matches any number of list elements, and x._1 matches an
attribute name. Placeholders in the replacement are filled with what they
captured.

Examples:
  gotat rewrite                                   # Diff for current directory
  gotat rewrite --rule 'noop(_1) => _1' src/      # Ad-hoc rule
  gotat rewrite --delete 'debug(__1)' app.py      # Delete matching calls
  gotat rewrite --write --backups                 # Apply and keep copies
  gotat rewrite --format json                     # Output as JSON for CI`

func newCheckCommand() *cobra.Command {
	flags := &rewriteFlags{check: true}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Report files the rules would change",
		Long: `Report files the rules would change, without writing them.

Exits with status 1 when any file would change, so it can guard CI.

Examples:
  gotat check                         # Check current directory
  gotat check --format summary src/   # Per-rule counts only`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRewrite(cmd, args, flags)
		},
	}

	addRuleFlags(cmd, flags)

	return cmd
}

func addRuleFlags(cmd *cobra.Command, flags *rewriteFlags) {
	cmd.Flags().StringArrayVarP(&flags.rules, "rule", "r", nil, "rule 'match => replacement' applied after configured rules (repeatable)")
	cmd.Flags().StringArrayVarP(&flags.deletes, "delete", "d", nil, "delete statements matching a pattern (repeatable)")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringVar(&flags.format, "format", "", "output format: text, diff, json, summary (default diff)")
	cmd.Flags().BoolVar(&flags.mark, "mark", false, "add a marker comment above rewritten statements")
	cmd.Flags().StringVar(&flags.indent, "indent", "", "indentation for generated blocks (default four spaces)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().BoolVar(&flags.noVerify, "no-verify", false, "skip re-parsing rewritten files")
	cmd.Flags().BoolVar(&flags.noMarkdown, "no-markdown", false, "skip Markdown files")
	cmd.Flags().BoolVar(&flags.showUnchanged, "show-unchanged", false, "list unchanged files in text output")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output format")
}

// override applies the flags that were set on the command line.
func (f *rewriteFlags) override(cmd *cobra.Command) func(cfg *config.Config) {
	set := cmd.Flags().Changed
	return func(cfg *config.Config) {
		if set("jobs") {
			cfg.Jobs = f.jobs
		}
		if set("format") {
			cfg.Format = config.OutputFormat(f.format)
		}
		if set("mark") {
			cfg.Mark = f.mark
		}
		if set("indent") {
			cfg.Indent = f.indent
		}
		if set("ignore") {
			cfg.Ignore = append(cfg.Ignore, f.ignore...)
		}
		if f.noVerify {
			cfg.Verify = false
		}
		if f.noMarkdown {
			cfg.Markdown.Enabled = false
		}
		if set("backups") {
			cfg.Backups.Enabled = f.backups
		}

		if f.check {
			cfg.Write = false
			cfg.DryRun = true
		} else if set("write") {
			cfg.Write = f.write
		}
	}
}

// extraRules compiles the --rule and --delete flags.
func (f *rewriteFlags) extraRules() ([]pattern.Rule, error) {
	rules := make([]pattern.Rule, 0, len(f.rules)+len(f.deletes))
	var errs []error
	for _, spec := range f.rules {
		rule, err := pattern.ParseRuleSpec(spec)
		if err != nil {
			errs = append(errs, fmt.Errorf("--rule %q: %w", spec, err))
			continue
		}
		rules = append(rules, rule)
	}
	for _, match := range f.deletes {
		rule, err := pattern.NewDeleteRule("", match)
		if err != nil {
			errs = append(errs, fmt.Errorf("--delete %q: %w", match, err))
			continue
		}
		rules = append(rules, rule)
	}
	return rules, errors.Join(errs...)
}

func runRewrite(cmd *cobra.Command, args []string, flags *rewriteFlags) error {
	logger := logging.Default()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithLogger(ctx, logger)

	extra, err := flags.extraRules()
	if err != nil {
		return usageError(err)
	}
	if cmd.Flags().Changed("format") {
		if _, err := reporter.ParseFormat(flags.format); err != nil {
			return usageError(err)
		}
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	cfg, err := loadConfig(ctx, cmd, workDir, flags.override(cmd))
	if err != nil {
		return err
	}

	logger.Debug("configuration loaded",
		logging.FieldRules, len(cfg.Rules)+len(extra),
		logging.FieldWrite, cfg.Write,
		logging.FieldJobs, cfg.Jobs,
		logging.FieldFormat, cfg.Format,
	)

	format, err := reporter.ParseFormat(string(cfg.Format))
	if err != nil {
		return usageError(err)
	}

	engine, err := rewrite.NewEngineFromConfig(cfg, extra...)
	if err != nil {
		return configError(fmt.Errorf("compile rules: %w", err))
	}
	if engine.Table().Len() == 0 {
		return usageError(errors.New("no rules configured; add rules to .gotat.yml or pass --rule"))
	}

	runOpts := runner.OptionsFromConfig(cfg, args)
	runOpts.WorkingDir = workDir

	logger.Debug("starting rewrite run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
	)

	result, runErr := runner.New(rewrite.NewPipeline(engine)).Run(ctx, runOpts)
	if result == nil {
		return fmt.Errorf("rewrite run failed: %w", runErr)
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	rep, err := reporter.New(reporter.Options{
		Writer:        cmd.OutOrStdout(),
		ErrorWriter:   cmd.ErrOrStderr(),
		Format:        format,
		Color:         colorMode,
		ShowSummary:   true,
		ShowUnchanged: flags.showUnchanged,
		Compact:       flags.compact,
		WorkingDir:    workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		logger.Error("report failed", logging.FieldError, err)
		return fmt.Errorf("report results: %w", err)
	}

	if runErr != nil {
		return fmt.Errorf("rewrite run interrupted: %w", runErr)
	}

	logger.Debug("rewrite run finished",
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesChanged, result.Stats.FilesChanged,
		logging.FieldFilesFailed, result.Stats.FilesErrored+result.Stats.FilesSkipped,
	)

	switch ExitCodeFromResult(result, flags.check) {
	case ExitFilesFailed:
		return ErrFilesFailed
	case ExitChangesPending:
		return ErrChangesPending
	default:
		return nil
	}
}

// loadConfig resolves the configuration for a command and logs loader
// warnings. Failures are configuration errors.
func loadConfig(
	ctx context.Context, cmd *cobra.Command, workDir string, override func(*config.Config),
) (*config.Config, error) {
	logger := logging.FromContext(ctx)

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		Override:     override,
	})
	if err != nil {
		return nil, configError(fmt.Errorf("load configuration: %w", err))
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, loadResult.LoadedFrom)
	}

	return loadResult.Config, nil
}
