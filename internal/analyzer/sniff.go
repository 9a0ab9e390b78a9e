package analyzer

import (
	"bytes"
	"unicode/utf8"
)

// sniffLen is how much of a file the text heuristic inspects.
const sniffLen = 8000

// looksLikeText reports whether content is plausibly a text file. A NUL
// byte in the sniffed prefix, or a prefix that is mostly invalid UTF-8,
// classifies the file as binary; binary files are skipped without error
// before the comment parser ever sees them.
func looksLikeText(content []byte) bool {
	if len(content) == 0 {
		return true
	}
	prefix := content
	if len(prefix) > sniffLen {
		prefix = prefix[:sniffLen]
	}
	if bytes.IndexByte(prefix, 0) >= 0 {
		return false
	}
	n := len(prefix)
	invalid := 0
	for len(prefix) > 0 {
		r, size := utf8.DecodeRune(prefix)
		if r == utf8.RuneError && size == 1 {
			invalid++
		}
		prefix = prefix[size:]
	}
	// Tolerate a few stray bytes (legacy encodings), not wholesale noise.
	return invalid*20 <= n
}
