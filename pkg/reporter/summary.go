package reporter

import (
	"bufio"
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/gotat/internal/ui/pretty"
	"github.com/yaklabco/gotat/pkg/rewrite"
	"github.com/yaklabco/gotat/pkg/runner"
)

// Table layout constants for summary output.
// Both tables use the same width for visual consistency.
const (
	tableWidth        = 80 // Width of table separators (same for both tables).
	nameColWidth      = 50 // Width of the rule name and file path columns.
	numColWidth       = 9  // Width of numeric columns.
	maxNameLength     = 48 // Maximum characters for a name before truncation.
	tableRuleSymbol   = "─"
	truncationEllipse = "…"
)

// padRight pads a string to the given width with spaces on the right.
// This must be called BEFORE applying ANSI styles.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// padLeft pads a string to the given width with spaces on the left.
// This must be called BEFORE applying ANSI styles.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

func truncateName(s string) string {
	if len(s) <= maxNameLength {
		return s
	}
	return s[:maxNameLength] + truncationEllipse
}

// SummaryReporter formats results as aggregated rule and file tables.
type SummaryReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewSummaryReporter creates a new summary reporter.
func NewSummaryReporter(opts Options) *SummaryReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *SummaryReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		result = &runner.Result{}
	}

	for _, file := range result.Files {
		if file.Error != nil {
			path := r.opts.displayPath(file.Path)
			fmt.Fprint(r.bw, r.styles.FormatFileError(path, rewrite.Category(file.Error), file.Error))
		}
	}

	if result.Stats.Rewrites.Total() > 0 {
		r.renderRuleTable(result.Stats)
		fmt.Fprintln(r.bw)
		r.renderFileTable(result.Files)
	}

	fmt.Fprint(r.bw, r.styles.FormatSummary(result.Stats))

	return result.Stats.FilesChanged, nil
}

type ruleCount struct {
	name  string
	count int
}

func (r *SummaryReporter) renderRuleTable(stats runner.Stats) {
	rules := make([]ruleCount, 0, len(stats.Rewrites.ByRule))
	for name, n := range stats.Rewrites.ByRule {
		rules = append(rules, ruleCount{name: name, count: n})
	}
	slices.SortFunc(rules, func(a, b ruleCount) int {
		if c := cmp.Compare(b.count, a.count); c != 0 {
			return c
		}
		return cmp.Compare(a.name, b.name)
	})

	fmt.Fprintln(r.bw, r.styles.Bold.Render("Rules"))
	r.separator()
	fmt.Fprintf(r.bw, "%s %s\n",
		r.styles.TableHeader.Render(padRight("Rule", nameColWidth)),
		r.styles.TableHeader.Render(padLeft("Matches", numColWidth)),
	)
	r.separator()

	for _, rule := range rules {
		fmt.Fprintf(r.bw, "%s %s\n",
			r.styles.RuleName.Render(padRight(truncateName(rule.name), nameColWidth)),
			padLeft(strconv.Itoa(rule.count), numColWidth),
		)
	}
	r.separator()
}

func (r *SummaryReporter) renderFileTable(files []runner.FileOutcome) {
	fmt.Fprintln(r.bw, r.styles.Bold.Render("Files"))
	r.separator()
	fmt.Fprintf(r.bw, "%s %s %s\n",
		r.styles.TableHeader.Render(padRight("File", nameColWidth)),
		r.styles.TableHeader.Render(padLeft("Replaced", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Deleted", numColWidth)),
	)
	r.separator()

	for _, file := range files {
		res := file.Result
		if res == nil || res.FileResult == nil || res.Stats.Total() == 0 {
			continue
		}
		path := padRight(truncateName(r.opts.displayPath(file.Path)), nameColWidth)
		fmt.Fprintf(r.bw, "%s %s %s\n",
			r.styles.FilePath.Render(path),
			padLeft(strconv.Itoa(res.Stats.Replaced), numColWidth),
			padLeft(strconv.Itoa(res.Stats.Deleted), numColWidth),
		)
	}
	r.separator()
}

func (r *SummaryReporter) separator() {
	fmt.Fprintln(r.bw, r.styles.Dim.Render(strings.Repeat(tableRuleSymbol, tableWidth)))
}
