// internal/encoding/hangul.go
package encoding

import "strings"

// Hangul syllable block boundaries (U+AC00..U+D7A3). A recovered filename is
// accepted only when at least one rune falls inside this block.
const (
	hangulFirst = '가'
	hangulLast  = '힣'
)

// cp1252Artifacts are punctuation runes that only appear when UTF-8 or EUC-KR
// bytes were mis-decoded through Windows-1252. They sit outside the Latin-1
// supplement, so the range test below cannot catch them.
const cp1252Artifacts = "€‚ƒ„…†‡ˆ‰Š‹ŒŽ‘’“”•–—˜™š›œžŸ"

// ContainsHangul reports whether s contains at least one Hangul syllable.
func ContainsHangul(s string) bool {
	for _, r := range s {
		if r >= hangulFirst && r <= hangulLast {
			return true
		}
	}
	return false
}

// LooksCorrupted reports whether s carries the markers of a wrong-charset
// decode: runes from the Latin-1 supplement (the signature of EUC-KR or UTF-8
// bytes read as ISO-8859-1) or Windows-1252 punctuation artifacts.
// A clean ASCII or Hangul filename never matches.
func LooksCorrupted(s string) bool {
	for _, r := range s {
		if r >= 0x00A1 && r <= 0x00FF {
			return true
		}
		if r > 0x00FF && strings.ContainsRune(cp1252Artifacts, r) {
			return true
		}
	}
	return false
}
