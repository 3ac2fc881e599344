package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/yaklabco/gotat/pkg/markdown"
)

// Discover finds the files to process under opts.Paths. It returns sorted,
// deduplicated absolute paths. A file named explicitly is subject to the
// same selection as one found by walking.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	for _, pattern := range opts.ExcludeGlobs {
		if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
			return nil, fmt.Errorf("invalid ignore pattern %q", pattern)
		}
	}

	d := &discoverer{opts: opts, workDir: workDir, extensions: opts.effectiveExtensions(), seen: make(map[string]bool)}
	for _, input := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		abs := input
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(workDir, abs)
		}
		abs = filepath.Clean(abs)

		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}
		if info.IsDir() {
			if err := d.walk(ctx, abs); err != nil {
				return nil, err
			}
			continue
		}
		if d.matches(abs) {
			d.add(abs)
		}
	}

	slices.Sort(d.files)
	return d.files, nil
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return abs, nil
}

type discoverer struct {
	opts       Options
	workDir    string
	extensions []string
	seen       map[string]bool
	files      []string
}

func (d *discoverer) add(path string) {
	if !d.seen[path] {
		d.seen[path] = true
		d.files = append(d.files, path)
	}
}

func (d *discoverer) rel(path string) string {
	rel, err := filepath.Rel(d.workDir, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}

func (d *discoverer) walk(ctx context.Context, root string) error {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		rel := d.rel(path)
		if entry.IsDir() {
			if path == root {
				return nil
			}
			if skipDir(entry.Name()) || excluded(rel, d.opts.ExcludeGlobs) ||
				(d.opts.SkipVendored && isVendored(rel)) {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			target, err := filepath.EvalSymlinks(path)
			if err != nil {
				return nil //nolint:nilerr // broken symlinks are skipped
			}
			info, err := os.Stat(target)
			if err != nil {
				return nil //nolint:nilerr // unreadable targets are skipped
			}
			if info.IsDir() {
				if !d.opts.FollowSymlinks {
					return nil
				}
				return d.walk(ctx, target)
			}
		}

		if strings.HasPrefix(entry.Name(), ".") {
			return nil
		}
		if d.matches(path) {
			d.add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "__pycache__"
}

// matches reports whether the file at path is selected.
func (d *discoverer) matches(path string) bool {
	if excluded(d.rel(path), d.opts.ExcludeGlobs) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case slices.Contains(d.extensions, ext):
		return true
	case markdown.IsMarkdown(path):
		return d.opts.Markdown
	case ext == "":
		return d.opts.DetectScripts && sniffPython(path)
	default:
		return false
	}
}

// excluded reports whether rel matches a pattern. A pattern without a
// slash also matches the base name, so "*_pb2.py" applies at any depth.
func excluded(rel string, patterns []string) bool {
	base := rel[strings.LastIndexByte(rel, '/')+1:]
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if ok, _ := doublestar.Match(pattern, base); ok {
				return true
			}
		}
	}
	return false
}
