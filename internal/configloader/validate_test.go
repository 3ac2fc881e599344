package configloader_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gotat/internal/configloader"
	"github.com/yaklabco/gotat/pkg/config"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		modify       func(cfg *config.Config)
		wantErrors   []string
		wantWarnings []string
	}{
		{
			name:   "defaults",
			modify: func(*config.Config) {},
		},
		{
			name: "rules compile",
			modify: func(cfg *config.Config) {
				cfg.Rules = []config.RuleSpec{
					{Match: "noop(_1)", Replace: "_1"},
					{Match: "f(", Replace: "g"},
					{Match: "f(_1)", Replace: "g(_2)"},
					{Match: "debug(__1)", Delete: true},
				}
			},
			wantErrors: []string{"rules[1]: ", "rules[2]: "},
		},
		{
			name: "malformed rule reported once",
			modify: func(cfg *config.Config) {
				cfg.Rules = []config.RuleSpec{{Match: "f(_1)"}}
			},
			wantErrors: []string{"rules[0]: replace or delete is required"},
		},
		{
			name: "globs and settings",
			modify: func(cfg *config.Config) {
				cfg.Ignore = []string{"vendor/**", "[a-"}
				cfg.Jobs = -2
			},
			wantErrors: []string{"jobs must not be negative, got -2", `ignore[1]: invalid glob pattern "[a-"`},
		},
		{
			name: "markdown without languages",
			modify: func(cfg *config.Config) {
				cfg.Markdown.Languages = nil
			},
			wantWarnings: []string{"markdown.languages: markdown is enabled but no languages are listed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewConfig()
			tt.modify(cfg)

			result := configloader.Validate(cfg)
			assert.Equal(t, len(tt.wantErrors) == 0, result.Valid())
			assert.Len(t, result.Errors, len(tt.wantErrors))
			assert.Len(t, result.Warnings, len(tt.wantWarnings))

			messages := result.AllMessages()
			for _, want := range append(tt.wantErrors, tt.wantWarnings...) {
				assert.True(t, containsAny(messages, want), "missing %q in %q", want, messages)
			}
		})
	}
}

func TestValidateWithFile(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Rules = []config.RuleSpec{{Match: "f(", Replace: "g"}}

	result := configloader.ValidateWithFile(cfg, ".gotat.yml")
	if assert.Len(t, result.Errors, 1) {
		assert.Contains(t, result.Errors[0].Error(), ".gotat.yml: rules[0]: ")
	}
}

func containsAny(messages []string, want string) bool {
	for _, m := range messages {
		if strings.Contains(m, want) {
			return true
		}
	}
	return false
}
