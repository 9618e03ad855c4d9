package directive

// Style is the bracket style of an include directive.
type Style uint8

const (
	// StyleAngle is #include <...>, used for system headers.
	StyleAngle Style = iota + 1
	// StyleQuoted is #include "...", used for project headers.
	StyleQuoted
)

const (
	// Keyword prefixes every directive regardless of style.
	Keyword = "#include "
	// AngleMarker starts an angle-style directive.
	AngleMarker = Keyword + "<"
	// QuotedMarker starts a quote-style directive.
	QuotedMarker = Keyword + "\""
)

func (s Style) String() string {
	switch s {
	case StyleAngle:
		return "angle"
	case StyleQuoted:
		return "quoted"
	}
	return "unknown"
}

// Other returns the opposite style.
func (s Style) Other() Style {
	if s == StyleAngle {
		return StyleQuoted
	}
	return StyleAngle
}

// Markers holds the literal prefixes the locator searches for.
type Markers struct {
	Angle  string
	Quoted string
	Any    string
}

// DefaultMarkers matches `#include <`, `#include "` and `#include `.
var DefaultMarkers = Markers{
	Angle:  AngleMarker,
	Quoted: QuotedMarker,
	Any:    Keyword,
}
