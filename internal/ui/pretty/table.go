package pretty

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/yaklabco/gotat/pkg/pattern"
)

// Table formatting constants.
const (
	actionDelete     = "delete"
	actionFunc       = "func"
	cellPadding      = 1
	minCellWidth     = 12
	tableColumnCount = 4 // #, NAME, MATCH, ACTION
	defaultTermWidth = 100
)

// RuleRow is one row of the rules table.
type RuleRow struct {
	Name   string
	Match  string
	Action string
	Delete bool
}

// RuleRows converts rules to table rows, in match order.
func RuleRows(rules []pattern.Rule) []RuleRow {
	rows := make([]RuleRow, 0, len(rules))
	for _, r := range rules {
		row := RuleRow{Name: r.Name, Match: r.Match.String()}
		switch {
		case r.Delete:
			row.Action, row.Delete = actionDelete, true
		case r.Func != nil:
			row.Action = actionFunc
		default:
			row.Action = r.Replace.String()
		}
		rows = append(rows, row)
	}
	return rows
}

// TableFormatter formats rules as a styled table.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{styles: styles, termWidth: termWidth}
}

// FormatRules formats the rows as a bordered table. Cells wider than the
// terminal allows are truncated.
func (t *TableFormatter) FormatRules(rows []RuleRow) string {
	if len(rows) == 0 {
		return t.styles.Dim.Render("No rules configured.") + "\n"
	}

	cellWidth := max(minCellWidth, t.termWidth/tableColumnCount-2*cellPadding)

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(t.styles.TableSeparator).
		Headers("#", "NAME", "MATCH", "ACTION").
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, cellPadding)
			switch {
			case row == table.HeaderRow:
				return t.styles.TableHeader.Padding(0, cellPadding)
			case col == 1:
				return t.styles.RuleName.Padding(0, cellPadding)
			case col == 3 && row < len(rows) && rows[row].Delete:
				return t.styles.TableDelete.Padding(0, cellPadding)
			}
			return style
		})

	for i, row := range rows {
		tbl.Row(
			strconv.Itoa(i+1),
			truncateString(row.Name, cellWidth),
			truncateString(row.Match, cellWidth),
			truncateString(row.Action, cellWidth),
		)
	}

	return tbl.String() + "\n"
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(str string, maxLen int) string {
	if len(str) <= maxLen {
		return str
	}
	if maxLen <= 3 {
		return str[:maxLen]
	}
	return str[:maxLen-3] + "..."
}
