package reporter

import (
	"fmt"
	"slices"
	"strings"
)

// Format represents an output format.
type Format string

// Output formats supported by the reporter.
const (
	FormatText    Format = "text"
	FormatDiff    Format = "diff"
	FormatJSON    Format = "json"
	FormatSummary Format = "summary"
)

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatText, FormatDiff, FormatJSON, FormatSummary}
}

// ParseFormat parses a format string, returning an error for unknown formats.
// An empty string selects the diff format.
func ParseFormat(formatStr string) (Format, error) {
	if formatStr == "" {
		return FormatDiff, nil
	}
	format := Format(formatStr)
	if !format.IsValid() {
		names := make([]string, 0, len(Formats()))
		for _, f := range Formats() {
			names = append(names, f.String())
		}
		return "", fmt.Errorf("unknown format %q; valid formats: %s", formatStr, strings.Join(names, ", "))
	}
	return format, nil
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// IsValid returns true if the format is a known valid format.
func (f Format) IsValid() bool {
	return slices.Contains(Formats(), f)
}
