package plan

import (
	"bytes"

	"incfix/internal/directive"
	"incfix/internal/source"
)

// Rule records which placement rule picked the insertion point.
type Rule uint8

const (
	RuleNone Rule = iota
	// RuleOwnStyle: before the anchor of the target's own style.
	RuleOwnStyle
	// RuleOtherStyle: before the first directive of the other style.
	RuleOtherStyle
	// RuleStartOfFile: no directive at all, insert at the top of the file
	// (after a UTF-8 BOM when there is one).
	RuleStartOfFile
)

func (r Rule) String() string {
	switch r {
	case RuleOwnStyle:
		return "own-style"
	case RuleOtherStyle:
		return "other-style"
	case RuleStartOfFile:
		return "start-of-file"
	}
	return "none"
}

// Insert plans adding target to f.
//
// If the exact directive text already occurs anywhere in the file the plan is
// a no-op. Otherwise the first matching rule wins:
//  1. before the target style's anchor (second quoted include for quoted
//     targets when there is one, else the first include of that style);
//  2. before the first include of the other style;
//  3. at the start of the file.
//
// The inserted line takes the line ending of the line it lands in front of.
func Insert(f *source.File, target directive.Target) *Plan {
	if bytes.Contains(f.Content, []byte(target.Text)) {
		return noOp(f, ReasonAlreadyPresent)
	}
	at, rule := InsertPosition(directive.Locate(f.Content), target.Style)
	if rule == RuleStartOfFile && f.Flags&source.FileHadBOM != 0 {
		at = len(directive.BOM)
	}
	return &Plan{
		Kind: KindInsert,
		File: f,
		Insert: Insertion{
			At:   at,
			Text: target.Text,
			Rule: rule,
			CRLF: usesCRLF(f, at),
		},
	}
}

// InsertPosition applies the placement rules to already located anchors.
func InsertPosition(a directive.Anchors, style directive.Style) (int, Rule) {
	if pos, ok := a.For(style).Get(); ok {
		return pos, RuleOwnStyle
	}
	if pos, ok := firstOf(a, style.Other()).Get(); ok {
		return pos, RuleOtherStyle
	}
	return 0, RuleStartOfFile
}

// firstOf returns the first include of a style; the second-quoted preference
// only applies to the target's own group.
func firstOf(a directive.Anchors, style directive.Style) directive.Offset {
	if style == directive.StyleAngle {
		return a.FirstAngle
	}
	return a.FirstQuoted
}
