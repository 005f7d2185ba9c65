package pgproto3

import "strings"

// copyTextReplacer applies the escape substitutions in the order the
// text format requires: backslash first (so later substitutions'
// backslashes are never re-escaped), then the control-character
// escapes.
var copyTextReplacer = strings.NewReplacer(
	`\`, `\\`,
	"\x08", `\b`,
	"\x0C", `\f`,
	"\x0A", `\n`,
	"\x09", `\t`,
	"\x0B", `\v`,
)

// EncodeCopyTextRow renders one COPY-in text-format row: cells joined
// by tab, terminated by newline, each non-null cell escaped through
// copyTextReplacer. A nil cell is encoded as the literal two bytes \N.
func EncodeCopyTextRow(cells []*string) []byte {
	parts := make([]string, len(cells))
	for i, c := range cells {
		if c == nil {
			parts[i] = `\N`
			continue
		}
		parts[i] = copyTextReplacer.Replace(*c)
	}
	return []byte(strings.Join(parts, "\t") + "\n")
}

// Str is a convenience constructor for non-null EncodeCopyTextRow
// cells: Str("a") is a non-nil *string; nil itself denotes a null
// cell.
func Str(s string) *string { return &s }
