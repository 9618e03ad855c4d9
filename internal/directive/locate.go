package directive

import "bytes"

// Anchors are the directive positions the insertion planner cares about.
type Anchors struct {
	FirstAngle   Offset
	FirstQuoted  Offset
	SecondQuoted Offset
	// FirstAny is the first directive of any style, including forms such as
	// `#include MACRO` that match neither bracket marker.
	FirstAny Offset
}

// For returns the anchor of the given style.
// Quoted directives anchor on the second occurrence when there is one: the
// first quoted include of an implementation file is usually its own header.
func (a Anchors) For(s Style) Offset {
	if s == StyleAngle {
		return a.FirstAngle
	}
	return a.SecondQuoted.Or(a.FirstQuoted)
}

func (a Anchors) complete() bool {
	return a.FirstAngle.Found() && a.SecondQuoted.Found() && a.FirstAny.Found()
}

// Locate scans content with DefaultMarkers.
func Locate(content []byte) Anchors {
	return LocateWith(content, DefaultMarkers)
}

// LocateWith walks the line starts of content once, front to back, and stops
// as soon as every anchor has been found. Markers that are cut off by the end
// of the buffer do not match.
func LocateWith(content []byte, m Markers) Anchors {
	var a Anchors
	forEachLineStart(content, func(pos int) bool {
		line := content[pos:]
		if !a.FirstAny.Found() && hasMarker(line, m.Any) {
			a.FirstAny = At(pos)
		}
		switch {
		case hasMarker(line, m.Angle):
			if !a.FirstAngle.Found() {
				a.FirstAngle = At(pos)
			}
		case hasMarker(line, m.Quoted):
			if !a.FirstQuoted.Found() {
				a.FirstQuoted = At(pos)
			} else if !a.SecondQuoted.Found() {
				a.SecondQuoted = At(pos)
			}
		}
		return !a.complete()
	})
	return a
}

// FindLine returns the first line that starts with text.
func FindLine(content []byte, text string) Offset {
	found := NoOffset
	if text == "" {
		return found
	}
	forEachLineStart(content, func(pos int) bool {
		if hasMarker(content[pos:], text) {
			found = At(pos)
			return false
		}
		return true
	})
	return found
}

// LineEnd returns the index of the '\n' terminating the line that contains
// pos, or len(content) when the line runs to the end of the buffer.
func LineEnd(content []byte, pos int) int {
	if pos >= len(content) {
		return len(content)
	}
	if idx := bytes.IndexByte(content[pos:], '\n'); idx >= 0 {
		return pos + idx
	}
	return len(content)
}

// BOM is the UTF-8 byte order mark. The first line of a file that starts with
// it begins right after it.
const BOM = "\xEF\xBB\xBF"

// BodyStart returns the offset of the first line: 3 after a UTF-8 BOM, else 0.
func BodyStart(content []byte) int {
	if hasMarker(content, BOM) {
		return len(BOM)
	}
	return 0
}

// forEachLineStart calls fn with the offset of every line start until fn
// returns false. A trailing '\n' does not produce an empty final line.
func forEachLineStart(content []byte, fn func(pos int) bool) {
	pos := BodyStart(content)
	for pos < len(content) {
		if !fn(pos) {
			return
		}
		next := bytes.IndexByte(content[pos:], '\n')
		if next < 0 {
			return
		}
		pos += next + 1
	}
}

func hasMarker(line []byte, marker string) bool {
	if marker == "" || len(line) < len(marker) {
		return false
	}
	return string(line[:len(marker)]) == marker
}
