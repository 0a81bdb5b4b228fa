// internal/encoding/hangul_test.go
package encoding

import "testing"

func TestContainsHangul(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"korean phrase", "참가신청서.hwp", true},
		{"mixed ascii and hangul", "2025 공고.pdf", true},
		{"ascii only", "application_form.pdf", false},
		{"empty", "", false},
		{"latin-1 artifacts only", "ÇÑ±Û", false},
		{"hangul jamo outside syllable block", "ㄱㄴㄷ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainsHangul(tt.input); got != tt.want {
				t.Errorf("ContainsHangul(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLooksCorrupted(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"euc-kr read as latin-1", "ÇÑ±Û.hwp", true},
		{"utf-8 read as latin-1", "ì°¸ê°€ì‹ ì²­ì„œ", true},
		{"cp1252 punctuation artifact", "ì‹ ì²­ì„œ", true},
		{"clean hangul", "참가신청서.hwp", false},
		{"clean ascii", "download.pdf", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LooksCorrupted(tt.input); got != tt.want {
				t.Errorf("LooksCorrupted(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
