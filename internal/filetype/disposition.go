// internal/filetype/disposition.go
package filetype

import (
	"net/url"
	"strings"

	"golang.org/x/text/encoding/korean"

	"github.com/oby500/bizinfo-automation-sub001/internal/encoding"
)

// FilenameFromDisposition extracts a filename from a Content-Disposition
// header. Both the plain filename="…" form and the RFC 5987
// filename*=charset'lang'percent-encoded form are supported; the extended
// form wins when both are present. The portals regularly send EUC-KR bytes or
// mojibake in either form, so the extracted value goes through encoding
// recovery before it is returned. Returns "" when no filename is present.
func FilenameFromDisposition(header string) string {
	if header == "" {
		return ""
	}

	var plain, extended string
	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		lower := strings.ToLower(part)
		switch {
		case strings.HasPrefix(lower, "filename*="):
			extended = decodeExtendedParam(part[len("filename*="):])
		case strings.HasPrefix(lower, "filename="):
			plain = strings.Trim(part[len("filename="):], `"`)
		}
	}

	name := extended
	if name == "" {
		name = plain
	}
	if name == "" {
		return ""
	}
	return encoding.Recover(name)
}

// decodeExtendedParam decodes the RFC 5987 charset'lang'value form. Malformed
// values (missing quotes, broken percent escapes) degrade to the raw string
// so that the recovery pass still gets a chance at them.
func decodeExtendedParam(v string) string {
	v = strings.Trim(v, `"`)

	parts := strings.SplitN(v, "'", 3)
	if len(parts) != 3 {
		if unescaped, err := url.PathUnescape(v); err == nil {
			return unescaped
		}
		return v
	}

	charset, value := strings.ToLower(parts[0]), parts[2]
	if unescaped, err := url.PathUnescape(value); err == nil {
		value = unescaped
	}

	if charset == "euc-kr" || charset == "ks_c_5601-1987" {
		if decoded, err := korean.EUCKR.NewDecoder().Bytes([]byte(value)); err == nil {
			return string(decoded)
		}
	}
	return value
}
