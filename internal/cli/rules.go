package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/gotat/internal/logging"
	"github.com/yaklabco/gotat/internal/ui/pretty"
	"github.com/yaklabco/gotat/pkg/rewrite"
)

type rulesFlags struct {
	format string
}

const formatJSON = "json"

// ruleInfo represents a rule in JSON output.
type ruleInfo struct {
	Name    string `json:"name"`
	Match   string `json:"match"`
	Replace string `json:"replace,omitempty"`
	Delete  bool   `json:"delete,omitempty"`
}

func newRulesCommand() *cobra.Command {
	flags := &rulesFlags{}

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the configured rewrite rules",
		Long: `List the rewrite rules in effect for the current directory, in the
order they are tried. Rules come from the user, project and --config files.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRules(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text",
		"output format: text, json")

	return cmd
}

func runRules(cmd *cobra.Command, flags *rulesFlags) error {
	if flags.format != "text" && flags.format != formatJSON {
		return usageError(fmt.Errorf("invalid format %q: must be text or json", flags.format))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithLogger(ctx, logging.Default())

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}
	cfg, err := loadConfig(ctx, cmd, workDir, nil)
	if err != nil {
		return err
	}

	engine, err := rewrite.NewEngineFromConfig(cfg)
	if err != nil {
		return configError(fmt.Errorf("compile rules: %w", err))
	}
	rows := pretty.RuleRows(engine.Table().Rules())

	out := cmd.OutOrStdout()
	if flags.format == formatJSON {
		return outputRulesJSON(out, rows)
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, out))
	formatter := pretty.NewTableFormatter(styles, terminalWidth(out))
	if _, err := io.WriteString(out, formatter.FormatRules(rows)); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// terminalWidth returns the width of w, or 0 when w is not a terminal.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

// outputRulesJSON outputs rules as a JSON array.
func outputRulesJSON(w io.Writer, rows []pretty.RuleRow) error {
	infos := make([]ruleInfo, 0, len(rows))
	for _, row := range rows {
		info := ruleInfo{Name: row.Name, Match: row.Match, Delete: row.Delete}
		if !row.Delete {
			info.Replace = row.Action
		}
		infos = append(infos, info)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(infos); err != nil {
		return fmt.Errorf("encoding rules: %w", err)
	}
	return nil
}
