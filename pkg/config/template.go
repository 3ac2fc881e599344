package config

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full includes every setting with its default value. If false, a
	// minimal commented template is generated.
	Full bool
}

// GenerateTemplate creates the content of a starter .gotat.yml.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if !opts.Full {
		return []byte(DefaultTemplateHeader() + minimalTemplate), nil
	}
	body, err := NewConfig().ToYAML()
	if err != nil {
		return nil, err
	}
	return append([]byte(DefaultTemplateHeader()+"\n"), body...), nil
}

// DefaultTemplateHeader is the comment at the top of generated templates.
func DefaultTemplateHeader() string {
	return "# gotat configuration\n# See: https://github.com/yaklabco/gotat\n"
}

const minimalTemplate = `
# Rewrite rules, applied in order; the first matching rule wins.
# _1 matches one expression, __1 any number of list elements,
# and x._1 an attribute name.
rules:
  - name: drop-noop
    match: noop(_1)
    replace: _1
#  - match: debug(__1)
#    delete: true

# Indentation for generated blocks when a file has none to copy.
# indent: "    "

# Re-parse every result before accepting it.
# verify: true

# Number of parallel workers (0 = auto)
# jobs: 0

# File patterns to ignore (glob patterns)
# ignore:
#   - "vendor/**"
#   - "**/migrations/**"

# Rewrite fenced python blocks in Markdown files.
# markdown:
#   enabled: true
#   languages: [python, py, python3]

# Keep a copy of every rewritten file.
# backups:
#   enabled: false
#   mode: sidecar
`
