// Package plan decides where a directive goes. It never touches the disk:
// a Plan is computed from a loaded source.File and handed to the rewriter.
package plan

import (
	"fmt"
	"strings"

	"incfix/internal/directive"
	"incfix/internal/source"
)

// Kind tells the rewriter what to do with a file.
type Kind uint8

const (
	// KindNoOp leaves the file alone.
	KindNoOp Kind = iota
	// KindInsert splices Text plus a newline at Insert.At.
	KindInsert
	// KindMove excises Move.Source and reinserts Move.Block at Move.Dest.
	KindMove
)

func (k Kind) String() string {
	switch k {
	case KindNoOp:
		return "no-op"
	case KindInsert:
		return "insert"
	case KindMove:
		return "move"
	}
	return "unknown"
}

// NoOpReason explains why a plan does nothing.
type NoOpReason uint8

const (
	ReasonNone NoOpReason = iota
	// ReasonAlreadyPresent: the directive text already occurs in the file.
	ReasonAlreadyPresent
	// ReasonNoDirectives: move-to-front found no directive at all.
	ReasonNoDirectives
	// ReasonNotPresent: move-to-front did not find the named directive.
	ReasonNotPresent
	// ReasonAlreadyFirst: the named directive is already the first one.
	ReasonAlreadyFirst
)

func (r NoOpReason) String() string {
	switch r {
	case ReasonAlreadyPresent:
		return "already present"
	case ReasonNoDirectives:
		return "no headers found"
	case ReasonNotPresent:
		return "not present"
	case ReasonAlreadyFirst:
		return "already first"
	}
	return ""
}

// Insertion splices Text and a line ending before byte At. The ending is
// "\r\n" when CRLF is set, "\n" otherwise.
type Insertion struct {
	At   int
	Text string
	Rule Rule
	CRLF bool
}

// Line returns the inserted bytes.
func (i Insertion) Line() string {
	return i.Text + string(lineEnding(i.CRLF))
}

// Movement excises Source and writes Block at Dest, followed by a line
// ending when Separator is set ("\r\n" with CRLF). Dest is always before
// Source.Start.
type Movement struct {
	Source    source.Span
	Dest      int
	Block     []byte
	Separator bool
	CRLF      bool
}

// Plan is computed once per file and consumed once by the rewriter.
type Plan struct {
	Kind   Kind
	File   *source.File
	Insert Insertion
	Move   Movement
	Reason NoOpReason
}

// Changes reports whether the plan rewrites the file.
func (p *Plan) Changes() bool {
	return p != nil && p.Kind != KindNoOp
}

// ExpectedSize predicts the length of the rewritten file.
func (p *Plan) ExpectedSize() int {
	orig := len(p.File.Content)
	switch p.Kind {
	case KindInsert:
		return orig + len(p.Insert.Line())
	case KindMove:
		size := orig - int(p.Move.Source.Len()) + len(p.Move.Block)
		if p.Move.Separator {
			size += len(lineEnding(p.Move.CRLF))
		}
		return size
	default:
		return orig
	}
}

// Segments returns the pieces of the new content in write order.
// Concatenated they form the rewritten file; Content is never modified.
func (p *Plan) Segments() [][]byte {
	content := p.File.Content
	switch p.Kind {
	case KindInsert:
		at := p.Insert.At
		return [][]byte{
			content[:at],
			[]byte(p.Insert.Text),
			lineEnding(p.Insert.CRLF),
			content[at:],
		}
	case KindMove:
		start, end := p.Move.Source.Bounds()
		segs := [][]byte{
			content[:p.Move.Dest],
			p.Move.Block,
		}
		if p.Move.Separator {
			segs = append(segs, lineEnding(p.Move.CRLF))
		}
		return append(segs,
			content[p.Move.Dest:start],
			content[end:],
		)
	default:
		return [][]byte{content}
	}
}

// Describe renders the plan for logs.
func (p *Plan) Describe() string {
	switch p.Kind {
	case KindInsert:
		pos := p.File.Position(p.Insert.At)
		return fmt.Sprintf("insert %q at line %d (%s)", p.Insert.Text, pos.Line, p.Insert.Rule)
	case KindMove:
		from := p.File.Position(int(p.Move.Source.Start))
		to := p.File.Position(p.Move.Dest)
		return fmt.Sprintf("move line %d to line %d", from.Line, to.Line)
	default:
		return "no-op: " + p.Reason.String()
	}
}

// Anchor returns the line the edit lands in front of, without its line
// ending, or "" for no-ops and edits at the end of the file.
func (p *Plan) Anchor() string {
	var at int
	switch p.Kind {
	case KindInsert:
		at = p.Insert.At
	case KindMove:
		at = p.Move.Dest
	default:
		return ""
	}
	if at >= len(p.File.Content) {
		return ""
	}
	line := p.File.GetLine(p.File.Position(at).Line)
	line = strings.TrimPrefix(line, directive.BOM)
	return strings.TrimSuffix(line, "\r")
}

var (
	lf   = []byte("\n")
	crlf = []byte("\r\n")
)

func lineEnding(useCRLF bool) []byte {
	if useCRLF {
		return crlf
	}
	return lf
}

// usesCRLF reports whether an edit at the line holding pos should end its
// line with "\r\n": the line itself ends that way, or it is an unterminated
// last line in a file that has CRLF elsewhere.
func usesCRLF(f *source.File, pos int) bool {
	if f.Flags&source.FileHasCRLF == 0 {
		return false
	}
	end := directive.LineEnd(f.Content, pos)
	if end == len(f.Content) {
		return true
	}
	return end > pos && f.Content[end-1] == '\r'
}

func noOp(f *source.File, reason NoOpReason) *Plan {
	return &Plan{Kind: KindNoOp, File: f, Reason: reason}
}
