package lsp

import (
	"unicode/utf16"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// LSP positions count characters in UTF-16 code units, while the parser
// works on byte offsets.

func offsetToPosition(text string, offset int) protocol.Position {
	offset = min(max(offset, 0), len(text))
	var pos protocol.Position
	for _, r := range text[:offset] {
		if r == '\n' {
			pos.Line++
			pos.Character = 0
			continue
		}
		pos.Character += protocol.UInteger(utf16.RuneLen(r))
	}
	return pos
}

// positionToOffset clamps positions past the end of a line to the line
// end and positions past the last line to the end of text.
func positionToOffset(text string, pos protocol.Position) int {
	var line, units protocol.UInteger
	for i, r := range text {
		if line < pos.Line {
			if r == '\n' {
				line++
			}
			continue
		}
		if units >= pos.Character || r == '\n' {
			return i
		}
		units += protocol.UInteger(utf16.RuneLen(r))
	}
	return len(text)
}
