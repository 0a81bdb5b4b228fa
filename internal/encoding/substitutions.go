// internal/encoding/substitutions.go
package encoding

import "strings"

// substitutions maps literal broken byte sequences to the Korean substrings
// they were observed to stand for. The table exists because some filenames in
// the corpus were mangled by more than one distinct faulty pipeline, so no
// single re-decode chain can repair them. Entries are consolidated from every
// corruption instance seen so far; keep the table append-only so earlier
// repairs stay reproducible.
var substitutions = []struct {
	broken string
	fixed  string
}{
	// UTF-8 bytes decoded once as Latin-1.
	{"ì°¸ê°€ì‹ ì²­ì„œ", "참가신청서"},
	{"ì°¸ê°ì ì²­ì", "참가신청서"},
	{"ê³µê³ ", "공고"},
	{"ì‹ ì²­ì„œ", "신청서"},
	{"ì ì²­ì", "신청서"},
	{"ì‚¬ì—…", "사업"},
	{"ì¬ì", "사업"},
	{"ê¸°ì—…", "기업"},
	{"ê¸°ì", "기업"},
	{"ì§€ì›", "지원"},
	{"ì§ì", "지원"},
	{"ëª¨ì§‘", "모집"},
	{"ëª¨ì§", "모집"},
	{"ì°½ì—…", "창업"},
	{"ì°½ì", "창업"},
	{"ì¤‘ì†Œê¸°ì—…", "중소기업"},
	{"ì¤ìê¸°ì", "중소기업"},
	// UTF-8 bytes decoded as Latin-1 twice (triple-encoded sources).
	{"Ã¬Â°Â¸ÃªÂ°Â€", "참가"},
	{"Ã¬Â°Â¸ÃªÂ°Â", "참가"},
	{"Ã¬ÂÂÃ¬Â²Â­Ã¬ÂÂ", "신청서"},
	{"ÃªÂ³ÂµÃªÂ³Â ", "공고"},
	{"Ã«ÂÂÃªÂµÂ¬", "대구"},
	{"ÃªÂ²Â½ÃªÂ¸Â°", "경기"},
	{"Ã¬ÂÂÃ¬ÂÂ¸", "서울"},
	{"Ã«Â¶ÂÃ¬ÂÂ°", "부산"},
}

// applySubstitutions replaces every known broken sequence present in s.
// Longer entries are listed before their prefixes above so partial overlaps
// resolve to the most specific repair.
func applySubstitutions(s string) string {
	out := s
	for _, sub := range substitutions {
		out = strings.ReplaceAll(out, sub.broken, sub.fixed)
	}
	return out
}
