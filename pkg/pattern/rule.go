package pattern

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yaklabco/gotat/pkg/pyast"
)

// SpecSeparator separates the match and replacement sides of a rule spec.
const SpecSeparator = "=>"

// Func computes the replacement of a match from its captures. Returning a
// nil expression deletes the match.
type Func func(caps Captures) (pyast.Expr, error)

// Rule rewrites expressions that match a pattern. Exactly one of Replace,
// Delete and Func says what happens to a match.
type Rule struct {
	// Name identifies the rule in statistics and errors.
	Name string

	// Match selects the expressions the rule applies to.
	Match *Pattern

	// Replace is the template a match is replaced with.
	Replace *Pattern

	// Delete removes the match: the statement of an expression statement,
	// or the element of a list.
	Delete bool

	// Func computes the replacement.
	Func Func
}

// RuleError reports a rule that is invalid or cannot be applied.
type RuleError struct {
	Rule   string
	Reason string
	Err    error
}

func (e *RuleError) Error() string {
	msg := fmt.Sprintf("rule %q: %s", e.Rule, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RuleError) Unwrap() error { return e.Err }

// Validate checks that r is complete and that its template only uses
// placeholders the match pattern captures.
func (r Rule) Validate() error {
	if r.Match == nil {
		return &RuleError{Rule: r.Name, Reason: "missing match pattern"}
	}
	actions := 0
	if r.Replace != nil {
		actions++
	}
	if r.Delete {
		actions++
	}
	if r.Func != nil {
		actions++
	}
	if actions != 1 {
		return &RuleError{Rule: r.Name, Reason: "exactly one of replace, delete and func is required"}
	}
	if r.Replace == nil {
		return nil
	}
	captured := make(map[string]bool)
	for _, name := range r.Match.Placeholders() {
		captured[name] = true
	}
	for _, name := range r.Replace.Placeholders() {
		if !captured[name] {
			return &RuleError{Rule: r.Name, Reason: "template uses " + name + ", which the match does not capture"}
		}
	}
	return nil
}

// NewRule compiles a replacement rule. An empty name defaults to the
// rule spec.
func NewRule(name, match, replace string) (Rule, error) {
	if name == "" {
		name = match + " " + SpecSeparator + " " + replace
	}
	m, err := Compile(match)
	if err != nil {
		return Rule{}, &RuleError{Rule: name, Reason: "invalid match", Err: err}
	}
	r, err := Compile(replace)
	if err != nil {
		return Rule{}, &RuleError{Rule: name, Reason: "invalid replacement", Err: err}
	}
	rule := Rule{Name: name, Match: m, Replace: r}
	return rule, rule.Validate()
}

// NewDeleteRule compiles a rule that deletes every match.
func NewDeleteRule(name, match string) (Rule, error) {
	if name == "" {
		name = "delete " + match
	}
	m, err := Compile(match)
	if err != nil {
		return Rule{}, &RuleError{Rule: name, Reason: "invalid match", Err: err}
	}
	return Rule{Name: name, Match: m, Delete: true}, nil
}

// ErrRuleSpec is returned for a rule spec without a separator.
var ErrRuleSpec = errors.New("rule spec must have the form match" + SpecSeparator + "replacement")

// ParseRuleSpec parses "match=>replacement".
func ParseRuleSpec(spec string) (Rule, error) {
	match, replace, ok := strings.Cut(spec, SpecSeparator)
	if !ok {
		return Rule{}, &RuleError{Rule: spec, Reason: "invalid spec", Err: ErrRuleSpec}
	}
	match, replace = strings.TrimSpace(match), strings.TrimSpace(replace)
	if match == "" || replace == "" {
		return Rule{}, &RuleError{Rule: spec, Reason: "invalid spec", Err: ErrRuleSpec}
	}
	return NewRule(strings.TrimSpace(spec), match, replace)
}
