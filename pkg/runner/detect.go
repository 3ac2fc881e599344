package runner

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// sniffSize is how much of an extensionless file is read to detect its
// language.
const sniffSize = 8 << 10

// IsPythonScript reports whether content, the start of a file without an
// extension, is a Python script: a Python shebang or, failing that,
// unambiguous Python syntax.
func IsPythonScript(content []byte) bool {
	if len(content) == 0 || enry.IsBinary(content) {
		return false
	}
	if lang, safe := enry.GetLanguageByShebang(content); lang != "" {
		return safe && lang == "Python"
	}
	return looksLikePython(string(content))
}

// looksLikePython checks for constructs no other common script language
// writes this way.
func looksLikePython(s string) bool {
	if strings.Contains(s, "__name__") && strings.Contains(s, "__main__") {
		return true
	}
	for line := range strings.Lines(s) {
		line = strings.TrimSpace(line)
		if (strings.HasPrefix(line, "def ") || strings.HasPrefix(line, "class ")) && strings.HasSuffix(line, ":") {
			return true
		}
		if strings.HasPrefix(line, "from ") && strings.Contains(line, " import ") {
			return true
		}
	}
	return false
}

func sniffPython(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	head := make([]byte, sniffSize)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false
	}
	return IsPythonScript(head[:n])
}

// isVendored reports whether the slash-separated directory path holds
// third-party code.
func isVendored(rel string) bool {
	return rel != "." && enry.IsVendor(rel+"/")
}
