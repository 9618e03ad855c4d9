package source

import (
	"os"
	"strings"
)

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota
	// FileHadBOM marks content starting with a UTF-8 BOM. The BOM is kept.
	FileHadBOM
	// FileHasCRLF marks content with at least one \r\n. Line endings are kept.
	FileHasCRLF
	// FileNoFinalNewline marks non-empty content that does not end with \n.
	FileNoFinalNewline
)

func (f FileFlags) String() string {
	var parts []string
	if f&FileVirtual != 0 {
		parts = append(parts, "virtual")
	}
	if f&FileHadBOM != 0 {
		parts = append(parts, "bom")
	}
	if f&FileHasCRLF != 0 {
		parts = append(parts, "crlf")
	}
	if f&FileNoFinalNewline != 0 {
		parts = append(parts, "no-final-newline")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ",")
}

// File is an immutable, byte-exact snapshot of one file taken at load time.
// Content must never be modified; rewrites build a new buffer.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Mode    os.FileMode
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}
