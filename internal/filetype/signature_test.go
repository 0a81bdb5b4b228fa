// internal/filetype/signature_test.go
package filetype

import (
	"bytes"
	"testing"
)

// oleBody builds an OLE compound-file prefix carrying the given marker text.
func oleBody(marker string) []byte {
	body := make([]byte, 0, 512)
	body = append(body, 0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1)
	body = append(body, bytes.Repeat([]byte{0}, 128)...)
	body = append(body, []byte(marker)...)
	return body
}

// zipBody builds a ZIP prefix whose first entry has the given name.
func zipBody(entryName string) []byte {
	body := []byte{'P', 'K', 0x03, 0x04, 0x14, 0x00, 0x00, 0x00}
	body = append(body, bytes.Repeat([]byte{0}, 22)...)
	body = append(body, []byte(entryName)...)
	return body
}

func TestSniffSimpleSignatures(t *testing.T) {
	tests := []struct {
		name   string
		prefix []byte
		want   Type
	}{
		{"pdf", []byte("%PDF-1.7 ..."), TypePDF},
		{"png", []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, TypePNG},
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0}, TypeJPG},
		{"gif87a", []byte("GIF87a...."), TypeGIF},
		{"gif89a", []byte("GIF89a...."), TypeGIF},
		{"utf8 bom text", []byte{0xEF, 0xBB, 0xBF, 'h', 'i'}, TypeTXT},
		{"html doctype", []byte("\n  <!DOCTYPE html><html>"), TypeHTML},
		{"html tag", []byte("<html lang=\"ko\">"), TypeHTML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Sniff(tt.prefix, "", TypeHWP)
			if !ok || got != tt.want {
				t.Errorf("Sniff() = (%q, %v), want (%q, true)", got, ok, tt.want)
			}
		})
	}
}

func TestSniffNoMatch(t *testing.T) {
	for _, prefix := range [][]byte{nil, {}, []byte("random bytes here")} {
		if got, ok := Sniff(prefix, "", TypeHWP); ok {
			t.Errorf("Sniff(%q) = (%q, true), want no match", prefix, got)
		}
	}
}

func TestSniffOLEDisambiguation(t *testing.T) {
	tests := []struct {
		name       string
		prefix     []byte
		nameHint   string
		oleDefault Type
		want       Type
	}{
		{"hwp marker", oleBody("HWP Document File V5.00"), "", TypeHWP, TypeHWP},
		{"hancom marker", oleBody("Hancom Office"), "", TypeHWP, TypeHWP},
		{"word marker", oleBody("MSWordDoc Word.Document.8"), "", TypeHWP, TypeDOC},
		{"excel marker", oleBody("Microsoft Excel Workbook"), "", TypeHWP, TypeXLS},
		{"powerpoint marker", oleBody("PowerPoint Document"), "", TypeHWP, TypePPT},
		{"no marker defaults to hwp", oleBody(""), "", TypeHWP, TypeHWP},
		{"no marker configurable default", oleBody(""), "", TypeDOC, TypeDOC},
		{"no marker keyword hint wins over default", oleBody(""), "엑셀 양식", TypeDOC, TypeXLS},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Sniff(tt.prefix, tt.nameHint, tt.oleDefault)
			if !ok || got != tt.want {
				t.Errorf("Sniff() = (%q, %v), want (%q, true)", got, ok, tt.want)
			}
		})
	}
}

func TestSniffZIPDisambiguation(t *testing.T) {
	tests := []struct {
		name   string
		prefix []byte
		want   Type
	}{
		{"docx", zipBody("word/document.xml"), TypeDOCX},
		{"xlsx", zipBody("xl/workbook.xml"), TypeXLSX},
		{"pptx", zipBody("ppt/presentation.xml"), TypePPTX},
		{"hwpx mimetype", zipBody("mimetypeapplication/hwp+zip"), TypeHWPX},
		{"plain zip", zipBody("docs/readme.pdf"), TypeZIP},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Sniff(tt.prefix, "", TypeHWP)
			if !ok || got != tt.want {
				t.Errorf("Sniff() = (%q, %v), want (%q, true)", got, ok, tt.want)
			}
		})
	}
}
