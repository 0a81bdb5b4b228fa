// internal/filetype/types.go

// Package filetype resolves the definitive file type of an attachment through
// a prioritized evidence chain: filename extension, declared metadata, HTTP
// headers, and finally magic-byte sniffing.
package filetype

import "strings"

// Type is the definitive tag for an attachment. The set is closed; anything
// that cannot be resolved stays TypeFile until a later run re-classifies it.
type Type string

const (
	TypePDF  Type = "PDF"
	TypeHWP  Type = "HWP"
	TypeHWPX Type = "HWPX"
	TypeDOC  Type = "DOC"
	TypeDOCX Type = "DOCX"
	TypeXLS  Type = "XLS"
	TypeXLSX Type = "XLSX"
	TypePPT  Type = "PPT"
	TypePPTX Type = "PPTX"
	TypeZIP  Type = "ZIP"
	TypeJPG  Type = "JPG"
	TypePNG  Type = "PNG"
	TypeGIF  Type = "GIF"
	TypeTXT  Type = "TXT"
	TypeHTML Type = "HTML"
	TypeFile Type = "FILE"
)

// Ext returns the lowercase filename extension for the type, without the dot.
func (t Type) Ext() string {
	return strings.ToLower(string(t))
}

var typeMIMEs = map[Type]string{
	TypePDF:  "application/pdf",
	TypeHWP:  "application/x-hwp",
	TypeHWPX: "application/vnd.hancom.hwpx",
	TypeDOC:  "application/msword",
	TypeDOCX: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	TypeXLS:  "application/vnd.ms-excel",
	TypeXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	TypePPT:  "application/vnd.ms-powerpoint",
	TypePPTX: "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	TypeZIP:  "application/zip",
	TypeJPG:  "image/jpeg",
	TypePNG:  "image/png",
	TypeGIF:  "image/gif",
	TypeTXT:  "text/plain",
	TypeHTML: "text/html",
}

// MIME returns the canonical media type for the type. TypeFile and unknown
// values map to application/octet-stream.
func (t Type) MIME() string {
	if mt, ok := typeMIMEs[t]; ok {
		return mt
	}
	return "application/octet-stream"
}

var extensionTypes = map[string]Type{
	"pdf":  TypePDF,
	"hwp":  TypeHWP,
	"hwpx": TypeHWPX,
	"doc":  TypeDOC,
	"docx": TypeDOCX,
	"xls":  TypeXLS,
	"xlsx": TypeXLSX,
	"ppt":  TypePPT,
	"pptx": TypePPTX,
	"zip":  TypeZIP,
	"jpg":  TypeJPG,
	"jpeg": TypeJPG,
	"png":  TypePNG,
	"gif":  TypeGIF,
	"txt":  TypeTXT,
	"text": TypeTXT,
	"html": TypeHTML,
	"htm":  TypeHTML,
}

// contentTypes maps HTTP Content-Type media types to definitive types.
// text/html and application/octet-stream are deliberately absent: both are
// served for arbitrary downloads by the source portals and prove nothing.
var contentTypes = map[string]Type{
	"application/pdf":               TypePDF,
	"application/x-hwp":             TypeHWP,
	"application/haansofthwp":       TypeHWP,
	"application/vnd.hancom.hwp":    TypeHWP,
	"application/vnd.hancom.hwpx":   TypeHWPX,
	"application/hwp+zip":           TypeHWPX,
	"application/msword":            TypeDOC,
	"application/vnd.ms-excel":      TypeXLS,
	"application/vnd.ms-powerpoint": TypePPT,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   TypeDOCX,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         TypeXLSX,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": TypePPTX,
	"application/zip":              TypeZIP,
	"application/x-zip-compressed": TypeZIP,
	"image/jpeg":                   TypeJPG,
	"image/png":                    TypePNG,
	"image/gif":                    TypeGIF,
	"text/plain":                   TypeTXT,
}

// keywordHints resolves OLE container ambiguity from Korean words in the
// visible filename when the container itself carries no product marker.
var keywordHints = map[string]Type{
	"한글":    TypeHWP,
	"엑셀":    TypeXLS,
	"파워포인트": TypePPT,
}

// declaredPlaceholders are declared-type values the sources emit generically
// for any attachment. They carry no information and are never passed through.
// "DOC" is included: both portals use it for arbitrary document downloads.
var declaredPlaceholders = map[string]bool{
	"":             true,
	"FILE":         true,
	"GETIMAGEFILE": true,
	"DOC":          true,
	"HTML":         true,
	"UNKNOWN":      true,
}

// FromExtension resolves a type from the filename's trailing extension.
func FromExtension(filename string) (Type, bool) {
	i := strings.LastIndexByte(filename, '.')
	if i < 0 || i == len(filename)-1 {
		return "", false
	}
	t, ok := extensionTypes[strings.ToLower(filename[i+1:])]
	return t, ok
}

// FromContentType resolves a type from a Content-Type header value,
// ignoring media type parameters such as charset.
func FromContentType(ct string) (Type, bool) {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	t, ok := contentTypes[strings.ToLower(strings.TrimSpace(ct))]
	return t, ok
}

// ParseDeclared accepts a declared type only when it is a concrete member of
// the closed set and not one of the generic placeholders.
func ParseDeclared(declared string) (Type, bool) {
	norm := strings.ToUpper(strings.TrimSpace(declared))
	if declaredPlaceholders[norm] {
		return "", false
	}
	switch t := Type(norm); t {
	case TypePDF, TypeHWP, TypeHWPX, TypeDOCX, TypeXLS, TypeXLSX,
		TypePPT, TypePPTX, TypeZIP, TypeJPG, TypePNG, TypeGIF, TypeTXT:
		return t, true
	}
	return "", false
}

// IsPlaceholderName reports whether a visible filename is one of the portals'
// generic download labels rather than a real name.
func IsPlaceholderName(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "다운로드", "download", "첨부파일":
		return true
	}
	return false
}

// hintFromName returns a keyword-based type hint from a visible filename.
func hintFromName(name string) (Type, bool) {
	for kw, t := range keywordHints {
		if strings.Contains(name, kw) {
			return t, true
		}
	}
	return "", false
}
