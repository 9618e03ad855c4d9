// Package testkit holds checks shared by tests and fuzz harnesses.
package testkit

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	"fortio.org/safecast"

	"incfix/internal/directive"
	"incfix/internal/plan"
)

// CheckPlanInvariants verifies a plan against the file it was computed from:
//  1. the source content still matches its load-time hash;
//  2. the rendered output has exactly ExpectedSize bytes;
//  3. an insertion lands at a line start and leaves both sides untouched;
//  4. a move puts its block at a line start before the excised line;
//  5. a no-op carries a reason and renders the original bytes.
func CheckPlanInvariants(p *plan.Plan) error {
	if p == nil || p.File == nil {
		return fmt.Errorf("nil plan or file")
	}
	content := p.File.Content
	if p.File.Hash != ([32]byte{}) && sha256.Sum256(content) != p.File.Hash {
		return fmt.Errorf("source content modified after load")
	}

	// границы проверяем до рендера: Segments режет content по ним
	var err error
	switch p.Kind {
	case plan.KindNoOp:
		if p.Reason == plan.ReasonNone {
			err = fmt.Errorf("no-op without a reason")
		}
	case plan.KindInsert:
		err = checkInsertBounds(p)
	case plan.KindMove:
		err = checkMoveBounds(p)
	default:
		err = fmt.Errorf("unknown plan kind %d", p.Kind)
	}
	if err != nil {
		return err
	}

	rendered := bytes.Join(p.Segments(), nil)
	if len(rendered) != p.ExpectedSize() {
		return fmt.Errorf("rendered %d bytes, expected %d", len(rendered), p.ExpectedSize())
	}

	switch p.Kind {
	case plan.KindInsert:
		return checkInsertOutput(p, rendered)
	case plan.KindMove:
		return checkMoveOutput(p, rendered)
	}
	if !bytes.Equal(rendered, content) {
		return fmt.Errorf("no-op changed the content")
	}
	return nil
}

func checkInsertBounds(p *plan.Plan) error {
	content := p.File.Content
	at := p.Insert.At
	if at < 0 || at > len(content) {
		return fmt.Errorf("insertion point %d outside [0, %d]", at, len(content))
	}
	if !atLineStart(content, at) {
		return fmt.Errorf("insertion point %d is not at a line start", at)
	}
	return nil
}

func checkInsertOutput(p *plan.Plan, rendered []byte) error {
	content := p.File.Content
	at := p.Insert.At
	line := []byte(p.Insert.Line())
	if !bytes.Equal(rendered[:at], content[:at]) {
		return fmt.Errorf("prefix before %d changed", at)
	}
	if !bytes.Equal(rendered[at:at+len(line)], line) {
		return fmt.Errorf("inserted line not found at %d", at)
	}
	if !bytes.Equal(rendered[at+len(line):], content[at:]) {
		return fmt.Errorf("suffix after %d changed", at)
	}
	return nil
}

func checkMoveBounds(p *plan.Plan) error {
	content := p.File.Content
	lenContent, err := safecast.Conv[uint32](len(content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	src := p.Move.Source
	if src.Empty() || src.End > lenContent {
		return fmt.Errorf("source span %v outside content of %d bytes", src, lenContent)
	}
	dest := p.Move.Dest
	if dest < 0 || dest >= int(src.Start) {
		return fmt.Errorf("destination %d is not before source %v", dest, src)
	}
	if !atLineStart(content, dest) {
		return fmt.Errorf("destination %d is not at a line start", dest)
	}
	block := p.Move.Block
	if len(block) == 0 || block[len(block)-1] != '\n' {
		return fmt.Errorf("moved block does not end with a newline")
	}
	return nil
}

func checkMoveOutput(p *plan.Plan, rendered []byte) error {
	content := p.File.Content
	dest := p.Move.Dest
	if !bytes.Equal(rendered[:dest], content[:dest]) {
		return fmt.Errorf("prefix before %d changed", dest)
	}
	block := p.Move.Block
	if !bytes.Equal(rendered[dest:dest+len(block)], block) {
		return fmt.Errorf("moved block not found at %d", dest)
	}
	return nil
}

// atLineStart treats the byte after a UTF-8 BOM as the start of the first line.
func atLineStart(content []byte, pos int) bool {
	if pos == directive.BodyStart(content) {
		return true
	}
	return pos > 0 && content[pos-1] == '\n'
}
