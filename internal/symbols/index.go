package symbols

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/vmihailenco/msgpack/v5"

	"incfix/internal/rewrite"
)

// Current schema version - increment when the index file format changes.
const indexSchemaVersion uint16 = 1

// DefaultIndexPath is used when neither flags nor config name an index.
const DefaultIndexPath = ".incfix.idx"

var (
	// ErrUnknownSymbol is returned by Resolve when no file declares the symbol.
	ErrUnknownSymbol = errors.New("unknown symbol")
	// ErrAmbiguousSymbol is returned by Resolve when several files declare it.
	ErrAmbiguousSymbol = errors.New("ambiguous symbol")
	// ErrSchema is returned by Load for index files written by another format version.
	ErrSchema = errors.New("unsupported index schema")
)

// Index maps symbols to the files declaring them.
type Index struct {
	entries []Entry // sorted by symbol, then file
}

type indexFile struct {
	Schema  uint16  `msgpack:"schema"`
	Entries []Entry `msgpack:"entries"`
}

// NewIndex builds an index; duplicate pairs are dropped.
func NewIndex(entries []Entry) *Index {
	sorted := slices.Clone(entries)
	slices.SortFunc(sorted, func(a, b Entry) int {
		switch {
		case a.less(b):
			return -1
		case b.less(a):
			return 1
		}
		return 0
	})
	return &Index{entries: slices.Compact(sorted)}
}

// Len returns the number of entries.
func (idx *Index) Len() int { return len(idx.entries) }

// Entries returns the sorted entries.
func (idx *Index) Entries() []Entry { return slices.Clone(idx.entries) }

// Lookup returns every file declaring symbol, sorted.
func (idx *Index) Lookup(symbol string) []string {
	i, _ := slices.BinarySearchFunc(idx.entries, symbol, func(e Entry, s string) int {
		switch {
		case e.Symbol < s:
			return -1
		case e.Symbol > s:
			return 1
		}
		return 0
	})
	var files []string
	for ; i < len(idx.entries) && idx.entries[i].Symbol == symbol; i++ {
		files = append(files, idx.entries[i].File)
	}
	return files
}

// Resolve returns the single file declaring symbol.
func (idx *Index) Resolve(symbol string) (string, error) {
	files := idx.Lookup(symbol)
	switch len(files) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	case 1:
		return files[0], nil
	}
	return "", fmt.Errorf("%w: %s is declared in %d files: %v", ErrAmbiguousSymbol, symbol, len(files), files)
}

// Save writes the index to path atomically.
func (idx *Index) Save(path string) error {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := enc.Encode(indexFile{Schema: indexSchemaVersion, Entries: idx.entries}); err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	return rewrite.WriteFile(path, buf.Bytes(), 0o644)
}

// Load reads an index written by Save.
func Load(path string) (*Index, error) {
	// #nosec G304 -- path is provided by the caller
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var payload indexFile
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%s: decode index: %w", path, err)
	}
	if payload.Schema != indexSchemaVersion {
		return nil, fmt.Errorf("%s: %w %d", path, ErrSchema, payload.Schema)
	}
	// файл мог быть собран вручную: порядок не гарантирован
	return NewIndex(payload.Entries), nil
}
