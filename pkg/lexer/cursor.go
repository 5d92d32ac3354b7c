package lexer

import (
	"strings"

	"github.com/what386/lash-sub001/pkg/source"
)

// advance returns the source.Location reached after consuming text starting
// at cur, incrementing the line counter for every newline in text and
// resetting the column afterwards. Modeled on the cursor-advance helper in
// EngFlow-gazelle_cc's C lexer (Cursor.AdvancedBy), adapted to this lexer's
// 1-based line / 0-based column convention (spec.md §3).
func advance(cur source.Location, text string) source.Location {
	if n := strings.Count(text, "\n"); n > 0 {
		tail := text[strings.LastIndex(text, "\n")+1:]
		cur.Line += n
		cur.Column = len(tail)
		return cur
	}
	cur.Column += len(text)
	return cur
}
