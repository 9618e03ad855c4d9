package plan

import (
	"bytes"

	"incfix/internal/directive"
	"incfix/internal/source"
)

// MoveToFront plans moving the line holding target so that it becomes the
// first directive of f.
//
// The whole source line moves, including a trailing comment and its own line
// ending. When the line was not followed by a blank line, a separator with the
// same ending is written after it at its new position; otherwise the move
// keeps the file size. Missing target, missing directives or a target that is
// already first give a no-op.
func MoveToFront(f *source.File, target directive.Target) *Plan {
	content := f.Content

	first, ok := directive.Locate(content).FirstAny.Get()
	if !ok {
		return noOp(f, ReasonNoDirectives)
	}
	ours, ok := directive.FindLine(content, target.Text).Get()
	if !ok {
		return noOp(f, ReasonNotPresent)
	}
	if ours <= first {
		return noOp(f, ReasonAlreadyFirst)
	}

	lineEnd := directive.LineEnd(content, ours)
	if lineEnd == len(content) {
		// Последняя строка без перевода строки: забираем её вместе с переводом
		// строки предыдущей, чтобы файл по-прежнему заканчивался так же.
		// ours > first, so content[ours-1] is '\n'.
		start := ours - 1
		useCRLF := content[start-1] == '\r'
		if useCRLF {
			start--
		}
		eol := lineEnding(useCRLF)
		block := make([]byte, 0, lineEnd-ours+len(eol))
		block = append(block, content[ours:lineEnd]...)
		block = append(block, eol...)
		return &Plan{
			Kind: KindMove,
			File: f,
			Move: Movement{
				Source:    source.NewSpan(f.ID, start, lineEnd),
				Dest:      first,
				Block:     block,
				Separator: true,
				CRLF:      useCRLF,
			},
		}
	}

	end := lineEnd + 1
	return &Plan{
		Kind: KindMove,
		File: f,
		Move: Movement{
			Source:    source.NewSpan(f.ID, ours, end),
			Dest:      first,
			Block:     content[ours:end:end],
			Separator: !blankLineAt(content, end),
			CRLF:      lineEnd > ours && content[lineEnd-1] == '\r',
		},
	}
}

// blankLineAt reports whether an empty line ("\n" or "\r\n") starts at pos.
func blankLineAt(content []byte, pos int) bool {
	rest := content[pos:]
	return bytes.HasPrefix(rest, lf) || bytes.HasPrefix(rest, crlf)
}
