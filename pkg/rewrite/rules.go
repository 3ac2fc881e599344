package rewrite

import (
	"errors"
	"fmt"

	"github.com/yaklabco/gotat/pkg/config"
	"github.com/yaklabco/gotat/pkg/emit"
	"github.com/yaklabco/gotat/pkg/pattern"
)

// CompileRules compiles configured rule specs in order.
func CompileRules(specs []config.RuleSpec) ([]pattern.Rule, error) {
	rules := make([]pattern.Rule, 0, len(specs))
	var errs []error
	for i, spec := range specs {
		var (
			rule pattern.Rule
			err  error
		)
		if spec.Delete {
			rule, err = pattern.NewDeleteRule(spec.Name, spec.Match)
		} else {
			rule, err = pattern.NewRule(spec.Name, spec.Match, spec.Replace)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("rules[%d]: %w", i, err))
			continue
		}
		rules = append(rules, rule)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return rules, nil
}

// NewEngineFromConfig builds an engine from the configured rules followed
// by extra.
func NewEngineFromConfig(cfg *config.Config, extra ...pattern.Rule) (*Engine, error) {
	rules, err := CompileRules(cfg.Rules)
	if err != nil {
		return nil, err
	}
	table, err := pattern.NewTable(append(rules, extra...)...)
	if err != nil {
		return nil, err
	}
	return NewEngine(table, EngineOptions{
		Emit:   emit.Options{DefaultIndent: cfg.Indent, Mark: cfg.Mark},
		Verify: cfg.Verify,
	}), nil
}
