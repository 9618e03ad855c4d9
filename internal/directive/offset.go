package directive

import "strconv"

// Offset is an optional byte offset. The zero value means "not found".
type Offset struct {
	pos   int
	found bool
}

// NoOffset is the "not found" value.
var NoOffset = Offset{}

// At returns a found offset.
func At(pos int) Offset {
	return Offset{pos: pos, found: true}
}

// Get returns the offset and whether it was found.
func (o Offset) Get() (int, bool) {
	return o.pos, o.found
}

// Found reports whether the offset is present.
func (o Offset) Found() bool {
	return o.found
}

// Or returns the offset if present, otherwise other.
func (o Offset) Or(other Offset) Offset {
	if o.found {
		return o
	}
	return other
}

func (o Offset) String() string {
	if !o.found {
		return "none"
	}
	return strconv.Itoa(o.pos)
}
