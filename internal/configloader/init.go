package configloader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/yaklabco/gotat/pkg/config"
)

// ErrConfigExists is returned when init would overwrite a config file.
var ErrConfigExists = errors.New("config file already exists")

// InitOptions controls WriteProjectConfig.
type InitOptions struct {
	// Dir is the directory the config file is written to.
	Dir string

	// Full writes every setting instead of the commented starter.
	Full bool

	// Force overwrites an existing file without asking.
	Force bool

	// Interactive allows asking before an existing file is overwritten.
	// In and Out are used for the question.
	Interactive bool
	In          io.Reader
	Out         io.Writer
}

// WriteProjectConfig writes a starter .gotat.yml and returns its path.
func WriteProjectConfig(opts InitOptions) (string, error) {
	path := filepath.Join(opts.Dir, ProjectConfigName)

	if fileExists(path) && !opts.Force {
		if !opts.Interactive {
			return "", fmt.Errorf("%w: %s (use --force to overwrite)", ErrConfigExists, path)
		}
		overwrite, err := confirm(opts.In, opts.Out, "Overwrite "+path+"? [y/N] ")
		if err != nil {
			return "", err
		}
		if !overwrite {
			return "", fmt.Errorf("%w: %s", ErrConfigExists, path)
		}
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{Full: opts.Full})
	if err != nil {
		return "", fmt.Errorf("generate template: %w", err)
	}
	if err := os.WriteFile(path, content, configFilePermissions); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return path, nil
}

// confirm asks a yes/no question. Anything but y or yes is no.
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	if _, err := io.WriteString(out, question); err != nil {
		return false, fmt.Errorf("write prompt: %w", err)
	}

	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read response: %w", err)
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// IsInteractive returns true if stdin is a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
