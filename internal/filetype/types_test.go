// internal/filetype/types_test.go
package filetype

import "testing"

func TestFromExtension(t *testing.T) {
	tests := []struct {
		filename string
		want     Type
		ok       bool
	}{
		{"공고문.hwp", TypeHWP, true},
		{"form.HWPX", TypeHWPX, true},
		{"report.pdf", TypePDF, true},
		{"photo.jpeg", TypeJPG, true},
		{"archive.zip", TypeZIP, true},
		{"readme.txt", TypeTXT, true},
		{"index.htm", TypeHTML, true},
		{"noextension", "", false},
		{"trailingdot.", "", false},
		{"unknown.xyz", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := FromExtension(tt.filename)
		if got != tt.want || ok != tt.ok {
			t.Errorf("FromExtension(%q) = (%q, %v), want (%q, %v)",
				tt.filename, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFromContentType(t *testing.T) {
	tests := []struct {
		ct   string
		want Type
		ok   bool
	}{
		{"application/pdf", TypePDF, true},
		{"application/pdf; charset=utf-8", TypePDF, true},
		{"Application/X-HWP", TypeHWP, true},
		{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", TypeDOCX, true},
		{"image/png", TypePNG, true},
		// Served for arbitrary downloads; proves nothing.
		{"application/octet-stream", "", false},
		{"text/html; charset=euc-kr", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := FromContentType(tt.ct)
		if got != tt.want || ok != tt.ok {
			t.Errorf("FromContentType(%q) = (%q, %v), want (%q, %v)",
				tt.ct, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseDeclared(t *testing.T) {
	tests := []struct {
		declared string
		want     Type
		ok       bool
	}{
		{"PDF", TypePDF, true},
		{"pdf", TypePDF, true},
		{" hwp ", TypeHWP, true},
		{"XLSX", TypeXLSX, true},
		// Generic placeholders the portals emit for anything.
		{"FILE", "", false},
		{"getImageFile", "", false},
		{"DOC", "", false},
		{"HTML", "", false},
		{"UNKNOWN", "", false},
		{"", "", false},
		{"banana", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseDeclared(tt.declared)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseDeclared(%q) = (%q, %v), want (%q, %v)",
				tt.declared, got, ok, tt.want, tt.ok)
		}
	}
}

func TestTypeMIME(t *testing.T) {
	tests := []struct {
		t    Type
		want string
	}{
		{TypePDF, "application/pdf"},
		{TypeHWP, "application/x-hwp"},
		{TypeHWPX, "application/vnd.hancom.hwpx"},
		{TypeXLSX, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
		{TypeFile, "application/octet-stream"},
		{Type("bogus"), "application/octet-stream"},
	}
	for _, tt := range tests {
		if got := tt.t.MIME(); got != tt.want {
			t.Errorf("%s.MIME() = %q, want %q", tt.t, got, tt.want)
		}
	}
}

func TestIsPlaceholderName(t *testing.T) {
	placeholders := []string{"", "다운로드", "download", "Download", " 다운로드 ", "첨부파일"}
	for _, name := range placeholders {
		if !IsPlaceholderName(name) {
			t.Errorf("IsPlaceholderName(%q) = false, want true", name)
		}
	}
	real := []string{"공고문.hwp", "application.pdf", "2025 사업계획"}
	for _, name := range real {
		if IsPlaceholderName(name) {
			t.Errorf("IsPlaceholderName(%q) = true, want false", name)
		}
	}
}
