package source

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// detectFlags inspects content without changing it: rewrites are byte-transparent.
func detectFlags(content []byte) FileFlags {
	var flags FileFlags
	if bytes.HasPrefix(content, utf8BOM) {
		flags |= FileHadBOM
	}
	if bytes.Contains(content, []byte("\r\n")) {
		flags |= FileHasCRLF
	}
	if len(content) > 0 && content[len(content)-1] != '\n' {
		flags |= FileNoFinalNewline
	}
	return flags
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, bytes.Count(content, []byte{'\n'}))
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i))
		}
	}
	return out
}

func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// Если LineIdx пустой, то весь файл - одна строка
	if len(lineIdx) == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}

	// наибольший lineIdx[i] < off
	lo, hi := 0, len(lineIdx)-1
	for lo <= hi {
		mid := (lo + hi) >> 1
		if lineIdx[mid] < off {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	line := hi + 1 // 0-based line containing off

	var startOff uint32
	if line > 0 {
		startOff = lineIdx[line-1] + 1
	}

	return LineCol{Line: uint32(line + 1), Col: off - startOff + 1}
}

// RelativePath returns path relative to baseDir, or the cleaned absolute path
// when path lies outside baseDir.
func RelativePath(path, baseDir string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absBase, absPath)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return normalizePath(absPath), nil
	}
	return normalizePath(rel), nil
}

// Path display modes accepted by FormatPath.
const (
	PathAsGiven  = "as-given"
	PathAuto     = "auto"
	PathRelative = "relative"
	PathAbsolute = "absolute"
	PathBasename = "basename"
)

// PathModes lists the values accepted by FormatPath, in help order.
var PathModes = []string{PathAsGiven, PathAuto, PathRelative, PathAbsolute, PathBasename}

// ValidPathMode reports whether mode is one of PathModes.
func ValidPathMode(mode string) bool {
	for _, m := range PathModes {
		if m == mode {
			return true
		}
	}
	return false
}

// FormatPath formats path for display. Relative paths are computed against
// baseDir, or the working directory when baseDir is empty. Unknown modes
// return path unchanged.
func FormatPath(path, mode, baseDir string) string {
	switch mode {
	case PathAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
		return path

	case PathRelative:
		if baseDir == "" {
			if wd, err := os.Getwd(); err == nil {
				baseDir = wd
			}
		}
		if rel, err := RelativePath(path, baseDir); err == nil {
			return rel
		}
		return path

	case PathBasename:
		return filepath.Base(path)

	case PathAuto:
		// короткие и относительные пути оставляем как есть
		if len(path) < 40 || !filepath.IsAbs(path) {
			return path
		}
		return filepath.Base(path)

	default:
		return path
	}
}

func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
