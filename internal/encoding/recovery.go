// internal/encoding/recovery.go

// Package encoding repairs Korean filenames that were transmitted as correct
// bytes but decoded with the wrong character set one or more times, without
// touching filenames that are already intact.
package encoding

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/korean"
)

// redecodeChain describes one attempt at undoing a wrong-charset decode: the
// string is re-encoded with from (recovering the original bytes) and decoded
// again with to. maxPasses > 1 repeats the round trip for strings that were
// mangled more than once; the search stops at the first pass that yields
// Hangul.
type redecodeChain struct {
	from      *charmap.Charmap
	to        encoding.Encoding // nil means interpret the bytes as UTF-8
	maxPasses int
}

// The UTF-8 chain runs first and allows two passes: a doubly-mangled string
// re-decoded as EUC-KR can produce syllable garbage that would pass the
// Hangul gate, so the UTF-8 round trip must get its chance before EUC-KR.
var redecodeChains = []redecodeChain{
	{from: charmap.ISO8859_1, to: nil, maxPasses: 2},
	{from: charmap.ISO8859_1, to: korean.EUCKR, maxPasses: 1},
	{from: charmap.Windows1252, to: nil, maxPasses: 2},
	{from: charmap.Windows1252, to: korean.EUCKR, maxPasses: 1},
}

// Recover repairs a mojibake filename. It returns a corrected string
// containing Hangul when one of the re-decode chains (or the literal
// substitution table) produces one, and the input unchanged otherwise.
// The result is never empty for a non-empty input.
func Recover(s string) string {
	if s == "" || !LooksCorrupted(s) {
		return s
	}

	for _, chain := range redecodeChains {
		if candidate, ok := applyChain(s, chain); ok {
			return candidate
		}
	}

	// Generic round trips failed; fall back to literal replacements learned
	// from previously observed corruption instances.
	if fixed := applySubstitutions(s); fixed != s && ContainsHangul(fixed) {
		return fixed
	}

	return s
}

// applyChain runs one re-decode chain, accepting the first pass whose output
// contains Hangul. It fails when the string holds runes the source charset
// cannot represent, or when the target decode produces replacement
// characters; either means the chain does not describe how this string was
// mangled.
func applyChain(s string, chain redecodeChain) (string, bool) {
	out := s
	for i := 0; i < chain.maxPasses; i++ {
		raw, err := chain.from.NewEncoder().Bytes([]byte(out))
		if err != nil {
			return "", false
		}

		if chain.to == nil {
			if !utf8.Valid(raw) {
				return "", false
			}
			out = string(raw)
		} else {
			decoded, err := chain.to.NewDecoder().Bytes(raw)
			if err != nil {
				return "", false
			}
			out = string(decoded)
		}

		if strings.ContainsRune(out, utf8.RuneError) {
			return "", false
		}
		if ContainsHangul(out) {
			return out, true
		}
	}
	return "", false
}
