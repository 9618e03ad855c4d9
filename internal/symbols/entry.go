package symbols

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrMalformedLine is wrapped by Parse for lines without a file column.
var ErrMalformedLine = errors.New("malformed symbol line")

// Entry pairs a symbol with the file declaring it.
type Entry struct {
	Symbol string `msgpack:"s"`
	File   string `msgpack:"f"`
}

func (e Entry) less(o Entry) bool {
	if e.Symbol != o.Symbol {
		return e.Symbol < o.Symbol
	}
	return e.File < o.File
}

// Parse reads symbol finder output: one `symbol<padding> file` pair per line.
// Blank lines and lines starting with '#' are skipped. The file column may
// contain spaces; only the run of blanks after the symbol separates columns.
// Input starting with a UTF-8 or UTF-16 byte order mark is decoded accordingly,
// anything else is read as is.
func Parse(r io.Reader, fn func(Entry)) error {
	decoded := transform.NewReader(r, unicode.BOMOverride(encoding.Nop.NewDecoder()))
	sc := bufio.NewScanner(decoded)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), " \t\r")
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		cut := strings.IndexAny(trimmed, " \t")
		if cut < 0 {
			return fmt.Errorf("line %d: %w: %q", lineNo, ErrMalformedLine, trimmed)
		}
		file := strings.TrimLeft(trimmed[cut:], " \t")
		fn(Entry{Symbol: trimmed[:cut], File: file})
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read symbols: %w", err)
	}
	return nil
}
