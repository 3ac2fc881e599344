package cli

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/gotat/internal/ui/pretty"
)

// placeholderRe finds pattern placeholders such as _1 and __2 in help text.
var placeholderRe = regexp.MustCompile(`\b__?\d+\b`) //nolint:gochecknoglobals // compiled once

// minFlagGap is the number of spaces pflag puts between a flag and its usage.
const minFlagGap = 2

// HelpStyles contains Lipgloss styles for command help formatting.
type HelpStyles struct {
	Command     lipgloss.Style
	Heading     lipgloss.Style
	Subcommand  lipgloss.Style
	Flag        lipgloss.Style
	Description lipgloss.Style
	Example     lipgloss.Style
	Placeholder lipgloss.Style
	Dim         lipgloss.Style
}

// NewHelpStyles creates help styles based on color mode.
func NewHelpStyles(colorEnabled bool) *HelpStyles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return &HelpStyles{
			Command: plain, Heading: plain, Subcommand: plain, Flag: plain,
			Description: plain, Example: plain, Placeholder: plain, Dim: plain,
		}
	}
	return &HelpStyles{
		Command:     lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		Heading:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Subcommand:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Flag:        lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Description: lipgloss.NewStyle(),
		Example:     lipgloss.NewStyle(),
		Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true),
		Dim:         lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// HelpFormatter provides styled help output for Cobra commands.
type HelpFormatter struct {
	styles *HelpStyles
}

// NewHelpFormatter creates a new help formatter with the given color mode.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	return &HelpFormatter{styles: NewHelpStyles(pretty.IsColorEnabled(colorMode, writer))}
}

const usageTemplate = `{{ heading "Usage:" }}
{{- if .Runnable}}
  {{ command .UseLine }}{{end}}
{{- if .HasAvailableSubCommands}}
  {{ command .CommandPath }} [command]{{end}}

{{- if .HasAvailableSubCommands}}

{{ heading "Available Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ subcommand (rpad .Name .NamePadding) }} {{ .Short }}{{end}}{{end}}
{{- end}}

{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags }}
{{- end}}

{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags }}
{{- end}}

{{- if .HasAvailableSubCommands}}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

const helpTemplate = `{{with (or .Long .Short)}}{{ long . }}

{{end}}` + usageTemplate

func (h *HelpFormatter) funcs() template.FuncMap {
	return template.FuncMap{
		"heading":    h.styles.Heading.Render,
		"command":    h.styles.Command.Render,
		"subcommand": h.styles.Subcommand.Render,
		"flags":      h.flagUsages,
		"long":       h.long,
		"rpad":       rpad,
	}
}

// long styles a command description. The lines after an "Examples:" line
// are examples: their trailing "# comment" is dimmed, and pattern
// placeholders are highlighted everywhere.
func (h *HelpFormatter) long(text string) string {
	lines := strings.Split(strings.TrimRight(text, " \t\n"), "\n")
	inExamples := false
	for i, line := range lines {
		line = strings.TrimRight(line, " \t")
		switch {
		case line == "Examples:":
			inExamples = true
			lines[i] = h.styles.Heading.Render(line)
		case inExamples:
			lines[i] = h.example(line)
		default:
			lines[i] = h.placeholders(line, h.styles.Description)
		}
	}
	return strings.Join(lines, "\n")
}

func (h *HelpFormatter) example(line string) string {
	cmd, comment, ok := strings.Cut(line, "#")
	styled := h.placeholders(cmd, h.styles.Example)
	if ok {
		styled += h.styles.Dim.Render("#" + comment)
	}
	return styled
}

// placeholders renders line with base, and placeholders with their own style.
func (h *HelpFormatter) placeholders(line string, base lipgloss.Style) string {
	var b strings.Builder
	last := 0
	for _, loc := range placeholderRe.FindAllStringIndex(line, -1) {
		b.WriteString(base.Render(line[last:loc[0]]))
		b.WriteString(h.styles.Placeholder.Render(line[loc[0]:loc[1]]))
		last = loc[1]
	}
	b.WriteString(base.Render(line[last:]))
	return b.String()
}

// flagUsages styles pflag's usage block: flag names, then the value type
// dimmed, then the description.
func (h *HelpFormatter) flagUsages(set *pflag.FlagSet) string {
	usages := strings.TrimSuffix(set.FlagUsages(), "\n")
	if usages == "" {
		return ""
	}
	lines := strings.Split(usages, "\n")
	for i, line := range lines {
		lines[i] = h.flagLine(line)
	}
	return strings.Join(lines, "\n")
}

func (h *HelpFormatter) flagLine(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	indent := line[:len(line)-len(trimmed)]

	gap := strings.Index(trimmed, strings.Repeat(" ", minFlagGap))
	if gap < 0 {
		return line
	}
	names, desc := trimmed[:gap], strings.TrimLeft(trimmed[gap:], " ")
	padding := trimmed[gap : len(trimmed)-len(desc)]

	var b strings.Builder
	b.WriteString(indent)
	for i, token := range strings.Fields(names) {
		if i > 0 {
			b.WriteString(" ")
		}
		if name, comma := strings.CutSuffix(token, ","); strings.HasPrefix(token, "-") {
			b.WriteString(h.styles.Flag.Render(name))
			if comma {
				b.WriteString(",")
			}
		} else {
			b.WriteString(h.styles.Dim.Render(token))
		}
	}
	b.WriteString(padding)
	b.WriteString(h.placeholders(desc, h.styles.Description))
	return b.String()
}

// ApplyToCommand installs the styled help on cmd. Subcommands inherit it.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	funcs := h.funcs()
	render := func(w io.Writer, name, text string, command *cobra.Command) error {
		tmpl, err := template.New(name).Funcs(funcs).Parse(text)
		if err != nil {
			return fmt.Errorf("parse %s template: %w", name, err)
		}
		return tmpl.Execute(w, command)
	}

	cmd.SetUsageFunc(func(command *cobra.Command) error {
		return render(command.OutOrStderr(), "usage", usageTemplate, command)
	})
	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		if err := render(command.OutOrStdout(), "help", helpTemplate, command); err != nil {
			command.PrintErrln(err)
		}
	})
}

// rpad adds padding to the right of a string.
func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}
