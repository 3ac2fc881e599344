// Package configloader provides configuration loading and resolution.
// It implements XDG-compliant configuration discovery, layered merging,
// environment variable support, and validation.
package configloader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/gotat/pkg/config"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0o644

// worldWritable is the permission bit that lets any user modify a file.
const worldWritable = 0o002

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is the directory to search from for project config.
	// Defaults to current working directory if empty.
	WorkingDir string

	// ExplicitPath is an explicit config file path (from --config flag).
	// It is loaded after the project config.
	ExplicitPath string

	// IgnoreUserConfig skips loading user-level configuration.
	IgnoreUserConfig bool

	// IgnoreProjectConfig skips loading project-level configuration.
	IgnoreProjectConfig bool

	// IgnoreEnv skips loading environment variables.
	IgnoreEnv bool

	// Override applies configuration from CLI flags. It runs last, so
	// flags take the highest precedence.
	Override func(cfg *config.Config)
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	// Config is the final merged configuration.
	Config *config.Config

	// Paths contains the discovered configuration file paths.
	Paths *ConfigPaths

	// LoadedFrom lists the files that were actually loaded (in order).
	LoadedFrom []string

	// Warnings contains non-fatal issues encountered during loading.
	Warnings []string
}

// Load resolves the final configuration by layering all sources.
// Precedence (highest to lowest):
//  1. CLI flags (opts.Override)
//  2. Environment variables (GOTAT_*)
//  3. Explicit config file (opts.ExplicitPath)
//  4. Project config (.gotat.yml upward search)
//  5. User config ($XDG_CONFIG_HOME/gotat/config.yml)
//  6. Defaults
//
// A file layer only changes the keys it sets. Rule lists are appended
// across layers instead of replaced.
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	paths.Explicit = opts.ExplicitPath

	result := &LoadResult{Paths: paths}
	cfg := config.NewConfig()

	layers := []struct {
		name string
		path string
		skip bool
	}{
		{name: "user", path: paths.User, skip: opts.IgnoreUserConfig},
		{name: "project", path: paths.Project, skip: opts.IgnoreProjectConfig},
		{name: "explicit", path: paths.Explicit},
	}
	for _, layer := range layers {
		if layer.skip || layer.path == "" {
			continue
		}
		if err := result.loadLayer(cfg, layer.path); err != nil {
			return nil, fmt.Errorf("load %s config: %w", layer.name, err)
		}
		result.LoadedFrom = append(result.LoadedFrom, layer.path)
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}

	if opts.Override != nil {
		opts.Override(cfg)
	}

	validation := Validate(cfg)
	if !validation.Valid() {
		errs := make([]error, 0, len(validation.Errors))
		for i := range validation.Errors {
			errs = append(errs, &validation.Errors[i])
		}
		return nil, errors.Join(errs...)
	}
	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Error())
	}

	result.Config = cfg
	return result, nil
}

// loadLayer decodes the file at path on top of cfg and appends its rules
// to the rules of earlier layers. A rule already defined by an earlier
// layer is skipped with a warning.
func (r *LoadResult) loadLayer(cfg *config.Config, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}
	if info.Mode().Perm()&worldWritable != 0 {
		r.Warnings = append(r.Warnings,
			fmt.Sprintf("%s is world-writable; anyone on this machine can change the rules it applies", path))
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	inherited := cfg.Rules
	cfg.Rules = nil

	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	layerRules := cfg.Rules
	if validation := ValidateWithFile(&config.Config{Rules: layerRules}, path); !validation.Valid() {
		return &validation.Errors[0]
	}

	cfg.Rules = inherited
	for _, spec := range layerRules {
		if slices.Contains(inherited, spec) {
			r.Warnings = append(r.Warnings,
				fmt.Sprintf("%s: rule %q is already defined; skipped", path, ruleLabel(spec)))
			continue
		}
		cfg.Rules = append(cfg.Rules, spec)
	}
	return nil
}

func ruleLabel(spec config.RuleSpec) string {
	switch {
	case spec.Name != "":
		return spec.Name
	case spec.Delete:
		return "delete " + spec.Match
	default:
		return spec.Match + " => " + spec.Replace
	}
}
