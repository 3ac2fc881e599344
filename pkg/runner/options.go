// Package runner discovers Python and Markdown files and rewrites them
// concurrently.
package runner

import (
	"github.com/yaklabco/gotat/pkg/config"
	"github.com/yaklabco/gotat/pkg/rewrite"
)

// Options controls a multi-file run.
type Options struct {
	// Paths are the files or directories to process. Defaults to ".".
	Paths []string

	// WorkingDir resolves relative Paths and is the base of ignore
	// patterns. Defaults to the process working directory.
	WorkingDir string

	// Extensions are the file extensions processed as Python, lowercase
	// with a leading dot. Defaults to config.DefaultExtensions().
	Extensions []string

	// Markdown includes Markdown files.
	Markdown bool

	// DetectScripts includes extensionless files that look like Python
	// scripts.
	DetectScripts bool

	// ExcludeGlobs are doublestar patterns, relative to WorkingDir, of
	// files and directories to skip.
	ExcludeGlobs []string

	// SkipVendored skips directories that hold third-party code, such as
	// virtual environments and site-packages.
	SkipVendored bool

	// FollowSymlinks traverses symlinked directories.
	FollowSymlinks bool

	// Jobs is the number of files processed at once. 0 means GOMAXPROCS.
	Jobs int

	// Pipeline is passed to the pipeline for every file.
	Pipeline rewrite.PipelineOptions
}

// OptionsFromConfig returns the run options for cfg and paths.
func OptionsFromConfig(cfg *config.Config, paths []string) Options {
	return Options{
		Paths:         paths,
		Extensions:    cfg.Extensions,
		Markdown:      cfg.Markdown.Enabled,
		DetectScripts: true,
		ExcludeGlobs:  cfg.Ignore,
		SkipVendored:  true,
		Jobs:          cfg.Jobs,
		Pipeline:      rewrite.PipelineOptionsFromConfig(cfg),
	}
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return config.DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
