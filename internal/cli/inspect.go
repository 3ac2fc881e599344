package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gotat/internal/ui/pretty"
	"github.com/yaklabco/gotat/pkg/index"
	"github.com/yaklabco/gotat/pkg/pyparse"
	"github.com/yaklabco/gotat/pkg/source"
)

// snippetWidth is the number of runes of node text shown per line.
const snippetWidth = 48

func newInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect file[:line[:col]]",
		Short: "Show the syntax tree of a Python file",
		Long: `Show the syntax tree of a Python file as gotat sees it.

With a position, prints the nodes enclosing it, outermost first. This is
the chain of nodes a pattern can match at that point. Lines and columns
are 1-based. Without a position, prints the outline of the whole file.

Examples:
  gotat inspect app.py          # Whole tree
  gotat inspect app.py:12       # Nodes at the start of line 12
  gotat inspect app.py:12:9     # Nodes at line 12, column 9`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageError(fmt.Errorf("inspect takes one file argument, got %d", len(args)))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			colorMode, err := cmd.Flags().GetString("color")
			if err != nil {
				colorMode = "auto"
			}
			out := cmd.OutOrStdout()
			styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, out))
			return runInspect(out, styles, args[0])
		},
	}

	return cmd
}

// position is a location given on the command line. A zero line means
// no position.
type position struct {
	path string
	line int
	col  int
}

// parsePosition splits "file[:line[:col]]". Only trailing numeric
// components are taken as the position, so paths containing colons work.
func parsePosition(arg string) (position, error) {
	pos := position{path: arg}
	var nums []int
	for range 2 {
		i := strings.LastIndexByte(pos.path, ':')
		if i < 0 {
			break
		}
		n, err := strconv.Atoi(pos.path[i+1:])
		if err != nil {
			break
		}
		if n < 1 {
			return position{}, fmt.Errorf("invalid position %q: lines and columns start at 1", arg)
		}
		nums = append([]int{n}, nums...)
		pos.path = pos.path[:i]
	}
	if pos.path == "" {
		return position{}, fmt.Errorf("invalid position %q: missing file", arg)
	}
	switch len(nums) {
	case 2:
		pos.line, pos.col = nums[0], nums[1]
	case 1:
		pos.line, pos.col = nums[0], 1
	}
	return pos, nil
}

func runInspect(out io.Writer, styles *pretty.Styles, arg string) error {
	pos, err := parsePosition(arg)
	if err != nil {
		return usageError(err)
	}

	content, err := os.ReadFile(pos.path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	file := source.NewFile(pos.path, content)
	mod, err := pyparse.Parse(file)
	if err != nil {
		return &ExitError{Code: ExitFilesFailed, Err: err}
	}
	ix, err := index.Build(file, mod)
	if err != nil {
		return &ExitError{Code: ExitInternalError, Err: err}
	}

	var b strings.Builder
	if pos.line == 0 {
		for e := range ix.All() {
			writeEntry(&b, styles, ix, e, e.Depth)
		}
	} else {
		offset, err := file.Offset(pos.line, pos.col-1)
		if err != nil {
			if errors.Is(err, source.ErrOutOfRange) {
				return usageError(fmt.Errorf("%s: %w", arg, err))
			}
			return err
		}
		entries := ix.At(offset)
		if len(entries) == 0 {
			fmt.Fprintf(&b, "%s: no node at %d:%d\n", pos.path, pos.line, pos.col)
		}
		for depth, e := range entries {
			writeEntry(&b, styles, ix, e, depth)
		}
	}

	if _, err := io.WriteString(out, b.String()); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func writeEntry(b *strings.Builder, styles *pretty.Styles, ix *index.Index, e *index.Entry, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(styles.RuleName.Render(e.Node.Kind().String()))
	if e.Field != "" {
		field := e.Field
		if e.Index >= 0 {
			field += "[" + strconv.Itoa(e.Index) + "]"
		}
		b.WriteString(" " + styles.Dim.Render(field))
	}
	if e.HasSpan {
		b.WriteString("  " + styles.Location.Render(e.Span.StartLoc().String()+"-"+e.Span.EndLoc().String()))
		if text := snippet(ix.Text(e)); text != "" {
			b.WriteString("  " + text)
		}
	}
	b.WriteString("\n")
}

// snippet returns the first line of text, shortened to snippetWidth runes.
func snippet(text string) string {
	first, _, more := strings.Cut(strings.TrimSpace(text), "\n")
	first = strings.TrimRight(first, " \t\r")
	runes := []rune(first)
	if len(runes) > snippetWidth {
		return string(runes[:snippetWidth-3]) + "..."
	}
	if more {
		return first + " ..."
	}
	return first
}
