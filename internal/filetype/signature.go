// internal/filetype/signature.go
package filetype

import (
	"bytes"
	"strings"
)

// SniffLen is how many leading bytes Sniff wants. ZIP containers need more
// than the 8-byte magic: the entry names that disambiguate DOCX/XLSX/PPTX/HWPX
// can sit a few KB into the archive.
const SniffLen = 5120

var (
	magicPDF  = []byte("%PDF")
	magicPNG  = []byte{0x89, 'P', 'N', 'G'}
	magicJPG  = []byte{0xFF, 0xD8}
	magicGIF7 = []byte("GIF87a")
	magicGIF9 = []byte("GIF89a")
	magicOLE  = []byte{0xD0, 0xCF, 0x11, 0xE0}
	magicZIP  = []byte{'P', 'K', 0x03, 0x04}
	utf8BOM   = []byte{0xEF, 0xBB, 0xBF}
)

// Sniff matches the leading bytes of a body against known signatures.
// nameHint is the visible filename, consulted only to break OLE container
// ties; oleDefault is the type assigned to an OLE container with no product
// marker at all. The second return is false when no signature matched.
func Sniff(prefix []byte, nameHint string, oleDefault Type) (Type, bool) {
	switch {
	case bytes.HasPrefix(prefix, magicPDF):
		return TypePDF, true
	case bytes.HasPrefix(prefix, magicPNG):
		return TypePNG, true
	case bytes.HasPrefix(prefix, magicGIF7), bytes.HasPrefix(prefix, magicGIF9):
		return TypeGIF, true
	case bytes.HasPrefix(prefix, magicJPG):
		return TypeJPG, true
	case bytes.HasPrefix(prefix, magicOLE):
		return sniffOLE(prefix, nameHint, oleDefault), true
	case bytes.HasPrefix(prefix, magicZIP):
		return sniffZIP(prefix), true
	case bytes.HasPrefix(prefix, utf8BOM):
		return TypeTXT, true
	}
	if looksLikeHTML(prefix) {
		return TypeHTML, true
	}
	return "", false
}

// sniffOLE separates the legacy OLE compound formats, which share one magic
// number. Product marker strings embedded in the header area decide; absent
// any marker the filename keywords are consulted, and the final tie goes to
// oleDefault because the source population is dominated by HWP documents.
func sniffOLE(prefix []byte, nameHint string, oleDefault Type) Type {
	switch {
	case containsAny(prefix, "HWP Document File", "Hancom", "HWP"):
		return TypeHWP
	case containsAny(prefix, "MSWordDoc", "Microsoft Word", "Word.Document"):
		return TypeDOC
	case containsAny(prefix, "Microsoft Excel", "Workbook", "Excel.Sheet"):
		return TypeXLS
	case containsAny(prefix, "PowerPoint"):
		return TypePPT
	}
	if t, ok := hintFromName(nameHint); ok {
		return t
	}
	if oleDefault == "" {
		return TypeHWP
	}
	return oleDefault
}

// sniffZIP separates the ZIP-based office formats by the archive entry names
// visible in the prefix. An archive with none of them is a plain ZIP.
func sniffZIP(prefix []byte) Type {
	switch {
	case bytes.Contains(prefix, []byte("hwpml")),
		bytes.Contains(prefix, []byte("application/hwp+zip")):
		return TypeHWPX
	case bytes.Contains(prefix, []byte("word/")):
		return TypeDOCX
	case bytes.Contains(prefix, []byte("xl/")):
		return TypeXLSX
	case bytes.Contains(prefix, []byte("ppt/")):
		return TypePPTX
	}
	return TypeZIP
}

func looksLikeHTML(prefix []byte) bool {
	head := strings.ToLower(string(bytes.TrimLeft(prefix, " \t\r\n")))
	return strings.HasPrefix(head, "<!doctype html") ||
		strings.HasPrefix(head, "<html") ||
		strings.HasPrefix(head, "<head") ||
		strings.HasPrefix(head, "<script")
}

func containsAny(b []byte, markers ...string) bool {
	for _, m := range markers {
		if bytes.Contains(b, []byte(m)) {
			return true
		}
	}
	return false
}
