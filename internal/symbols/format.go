package symbols

import (
	"bufio"
	"io"

	"github.com/mattn/go-runewidth"
)

// Write prints entries as `symbol<padding> file`, the symbol left-aligned to
// width display columns followed by one space. Longer symbols are not cut.
func Write(w io.Writer, entries []Entry, width int) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		if _, err := bw.WriteString(runewidth.FillRight(e.Symbol, width)); err != nil {
			return err
		}
		if err := bw.WriteByte(' '); err != nil {
			return err
		}
		if _, err := bw.WriteString(e.File); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
