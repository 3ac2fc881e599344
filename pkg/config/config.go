// Package config defines core configuration types for gotat.
// These types are pure data structures; layering and discovery live in
// internal/configloader.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// RuleSpec is one rewrite rule as written in a configuration file.
type RuleSpec struct {
	// Name identifies the rule in reports. Defaults to the rule spec.
	Name string `mapstructure:"name" yaml:"name,omitempty"`

	// Match is the expression pattern the rule applies to.
	Match string `mapstructure:"match" yaml:"match"`

	// Replace is the replacement template.
	Replace string `mapstructure:"replace" yaml:"replace,omitempty"`

	// Delete removes matches instead of replacing them.
	Delete bool `mapstructure:"delete" yaml:"delete,omitempty"`
}

// BackupsConfig controls backup behavior when writing files.
type BackupsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Mode    string `mapstructure:"mode" yaml:"mode"` // "sidecar" or "xdg"
}

// MarkdownConfig controls rewriting of code blocks in Markdown files.
type MarkdownConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Languages are the fence info strings treated as Python.
	Languages []string `mapstructure:"languages" yaml:"languages"`
}

// OutputFormat specifies the output format for results.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatDiff    OutputFormat = "diff"
	FormatJSON    OutputFormat = "json"
	FormatSummary OutputFormat = "summary"
)

// Formats lists the valid output formats.
func Formats() []OutputFormat {
	return []OutputFormat{FormatText, FormatDiff, FormatJSON, FormatSummary}
}

// IsValid returns true if the format is known.
func (f OutputFormat) IsValid() bool {
	return slices.Contains(Formats(), f)
}

// Config is the root configuration structure for gotat.
type Config struct {
	// Rules are the rewrite rules, applied in order.
	Rules []RuleSpec `mapstructure:"rules" yaml:"rules"`

	// Indent is the indentation unit for generated blocks in files that
	// have no indented block to learn it from.
	Indent string `mapstructure:"indent" yaml:"indent"`

	// Ignore contains glob patterns for files to ignore.
	Ignore []string `mapstructure:"ignore" yaml:"ignore"`

	// Extensions are the file extensions processed as Python.
	Extensions []string `mapstructure:"extensions" yaml:"extensions"`

	// Markdown configures rewriting of Python code blocks in Markdown.
	Markdown MarkdownConfig `mapstructure:"markdown" yaml:"markdown"`

	// Backups configures backup behavior when writing.
	Backups BackupsConfig `mapstructure:"backups" yaml:"backups"`

	// Jobs specifies the number of parallel workers. 0 means GOMAXPROCS.
	Jobs int `mapstructure:"jobs" yaml:"jobs"`

	// Verify re-parses every output before it is accepted.
	Verify bool `mapstructure:"verify" yaml:"verify"`

	// Mark writes a marker comment above generated statements.
	Mark bool `mapstructure:"mark" yaml:"mark"`

	// CLI-level options (not persisted to config files).

	// Write rewrites files in place.
	Write bool `mapstructure:"-" yaml:"-"`

	// DryRun shows what would change without writing.
	DryRun bool `mapstructure:"-" yaml:"-"`

	// Format specifies the output format.
	Format OutputFormat `mapstructure:"-" yaml:"-"`

	// NoBackups disables backup creation when writing.
	NoBackups bool `mapstructure:"-" yaml:"-"`
}

// DefaultExtensions are the file extensions processed by default.
func DefaultExtensions() []string {
	return []string{".py", ".pyi"}
}

// DefaultMarkdownLanguages are the fence info strings treated as Python.
func DefaultMarkdownLanguages() []string {
	return []string{"python", "py", "python3"}
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Rules:      nil,
		Indent:     "    ",
		Ignore:     nil,
		Extensions: DefaultExtensions(),
		Markdown: MarkdownConfig{
			Enabled:   true,
			Languages: DefaultMarkdownLanguages(),
		},
		Backups: BackupsConfig{
			Enabled: false,
			Mode:    "sidecar",
		},
		Jobs:   0, // 0 means use GOMAXPROCS
		Verify: true,
		Format: FormatDiff,
	}
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	for i, r := range c.Rules {
		switch {
		case strings.TrimSpace(r.Match) == "":
			errs = append(errs, fmt.Errorf("rules[%d]: match is required", i))
		case r.Delete && r.Replace != "":
			errs = append(errs, fmt.Errorf("rules[%d]: replace and delete are mutually exclusive", i))
		case !r.Delete && strings.TrimSpace(r.Replace) == "":
			errs = append(errs, fmt.Errorf("rules[%d]: replace or delete is required", i))
		}
	}
	if strings.Trim(c.Indent, " \t") != "" {
		errs = append(errs, fmt.Errorf("indent %q must consist of spaces or tabs", c.Indent))
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			errs = append(errs, fmt.Errorf("extension %q must start with a dot", ext))
		}
	}
	if c.Jobs < 0 {
		errs = append(errs, fmt.Errorf("jobs must not be negative, got %d", c.Jobs))
	}
	switch c.Backups.Mode {
	case "", "sidecar", "xdg":
	default:
		errs = append(errs, fmt.Errorf("unknown backup mode %q", c.Backups.Mode))
	}
	if c.Format != "" && !c.Format.IsValid() {
		errs = append(errs, fmt.Errorf("unknown format %q", c.Format))
	}
	return errors.Join(errs...)
}
