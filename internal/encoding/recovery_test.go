// internal/encoding/recovery_test.go
package encoding

import (
	"testing"

	"golang.org/x/text/encoding/korean"
)

// asLatin1 reinterprets raw bytes as ISO-8859-1 text, reproducing the
// wrong-charset decode the portals apply to Korean filenames.
func asLatin1(raw []byte) string {
	runes := make([]rune, len(raw))
	for i, b := range raw {
		runes[i] = rune(b)
	}
	return string(runes)
}

func TestRecoverCleanInputUnchanged(t *testing.T) {
	inputs := []string{
		"",
		"application_form.pdf",
		"참가신청서.hwp",
		"2025년 창업지원 공고문.hwp",
	}

	for _, in := range inputs {
		if got := Recover(in); got != in {
			t.Errorf("Recover(%q) = %q, want input unchanged", in, got)
		}
	}
}

func TestRecoverEUCKRMojibake(t *testing.T) {
	const clean = "참가신청서.hwp"

	raw, err := korean.EUCKR.NewEncoder().Bytes([]byte(clean))
	if err != nil {
		t.Fatalf("failed to build EUC-KR fixture: %v", err)
	}
	corrupted := asLatin1(raw)

	got := Recover(corrupted)
	if got != clean {
		t.Errorf("Recover(%q) = %q, want %q", corrupted, got, clean)
	}
}

func TestRecoverUTF8Mojibake(t *testing.T) {
	const clean = "사업공고문.pdf"
	corrupted := asLatin1([]byte(clean))

	got := Recover(corrupted)
	if got != clean {
		t.Errorf("Recover(%q) = %q, want %q", corrupted, got, clean)
	}
}

func TestRecoverDoubleEncodedMojibake(t *testing.T) {
	const clean = "모집공고.hwp"
	corrupted := asLatin1([]byte(asLatin1([]byte(clean))))

	got := Recover(corrupted)
	if got != clean {
		t.Errorf("Recover(%q) = %q, want %q", corrupted, got, clean)
	}
}

func TestRecoverProducesHangulForKnownFixture(t *testing.T) {
	// Known corrupted fixture: EUC-KR bytes for a Korean phrase decoded as
	// Latin-1 by the source portal.
	raw, err := korean.EUCKR.NewEncoder().Bytes([]byte("한글"))
	if err != nil {
		t.Fatalf("failed to build fixture: %v", err)
	}
	corrupted := asLatin1(raw)

	got := Recover(corrupted)
	if !ContainsHangul(got) {
		t.Errorf("Recover(%q) = %q, want at least one Hangul syllable", corrupted, got)
	}
}

func TestRecoverFallsBackToSubstitutionTable(t *testing.T) {
	// A string no re-decode chain can repair (mixed intact text and a known
	// broken sequence) still resolves through the literal table.
	in := "2025 ÃªÂ³ÂµÃªÂ³Â .hwp"

	got := Recover(in)
	if !ContainsHangul(got) {
		t.Errorf("Recover(%q) = %q, want substitution-table repair", in, got)
	}
}

func TestRecoverNeverReturnsEmpty(t *testing.T) {
	// Corrupted input with no recoverable Hangul must come back unchanged,
	// never empty or replaced with garbage.
	in := "£¤¥¦§"

	got := Recover(in)
	if got != in {
		t.Errorf("Recover(%q) = %q, want original preserved", in, got)
	}
}
