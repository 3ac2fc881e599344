package configloader

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/yaklabco/gotat/pkg/config"
	"github.com/yaklabco/gotat/pkg/pattern"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "rules[2]").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

// Validate checks a configuration for errors and warnings. Beyond the
// checks of config.Validate, it compiles every rule and ignore pattern.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if err := cfg.Validate(); err != nil {
		for _, e := range unjoin(err) {
			result.Errors = append(result.Errors, ValidationError{Message: e.Error()})
		}
	}

	validateRules(cfg, result)
	validateIgnorePatterns(cfg, result)

	if cfg.Markdown.Enabled && len(cfg.Markdown.Languages) == 0 {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "markdown.languages",
			Message: "markdown is enabled but no languages are listed; no code block will be rewritten",
		})
	}

	return result
}

// validateRules compiles the patterns of well-formed rules. Malformed
// rules are reported by config.Validate.
func validateRules(cfg *config.Config, result *ValidationResult) {
	for i, spec := range cfg.Rules {
		if strings.TrimSpace(spec.Match) == "" || spec.Delete == (strings.TrimSpace(spec.Replace) != "") {
			continue
		}
		var err error
		if spec.Delete {
			_, err = pattern.NewDeleteRule(spec.Name, spec.Match)
		} else {
			_, err = pattern.NewRule(spec.Name, spec.Match, spec.Replace)
		}
		if err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("rules[%d]", i),
				Value:   spec.Match,
				Message: err.Error(),
			})
		}
	}
}

// validateIgnorePatterns checks that ignore patterns are valid globs.
func validateIgnorePatterns(cfg *config.Config, result *ValidationResult) {
	for i, glob := range cfg.Ignore {
		if !doublestar.ValidatePattern(glob) {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("ignore[%d]", i),
				Value:   glob,
				Message: fmt.Sprintf("invalid glob pattern %q", glob),
			})
		}
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)
	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}
	return result
}

// unjoin splits an errors.Join result into its errors.
func unjoin(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
