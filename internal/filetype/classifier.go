// internal/filetype/classifier.go
package filetype

import (
	"context"
)

// ProbeHeaders is the header evidence a probe returns for an attachment URL.
type ProbeHeaders struct {
	ContentType        string
	ContentDisposition string
	ContentLength      int64
}

// Prober supplies network evidence on demand. Head returns response headers;
// Prefix returns up to n leading body bytes, typically via a Range request.
type Prober interface {
	Head(ctx context.Context, url string) (*ProbeHeaders, error)
	Prefix(ctx context.Context, url string, n int) ([]byte, error)
}

// Input is the evidence available for one attachment before any probing.
type Input struct {
	URL          string
	Filename     string
	DeclaredType string
}

// Result carries the classification outcome. Filename may be upgraded from a
// Content-Disposition header when the input name was a generic placeholder.
type Result struct {
	Type       Type
	DetectedBy string
	Filename   string
	Size       int64
}

// Detection method labels recorded in Result.DetectedBy.
const (
	ByExtension = "extension"
	ByDeclared  = "declared"
	ByHeader    = "header"
	BySignature = "signature"
	ByFallback  = "fallback"
)

// Classifier resolves attachment types through the evidence chain. Cheap
// local evidence is tried first; network probes run only when the filename
// and declared metadata settle nothing, which is the common case for these
// sources. A nil prober limits classification to local evidence.
type Classifier struct {
	prober     Prober
	oleDefault Type
}

func NewClassifier(prober Prober, oleDefault Type) *Classifier {
	if oleDefault == "" {
		oleDefault = TypeHWP
	}
	return &Classifier{prober: prober, oleDefault: oleDefault}
}

// Classify resolves the type for one attachment. It never returns an empty
// type: when every strategy is inconclusive the result is TypeFile, leaving
// the attachment for a later re-classification pass.
func (c *Classifier) Classify(ctx context.Context, in Input) Result {
	res := Result{Filename: in.Filename}

	if t, ok := FromExtension(in.Filename); ok {
		res.Type, res.DetectedBy = t, ByExtension
		return res
	}

	if t, ok := ParseDeclared(in.DeclaredType); ok {
		res.Type, res.DetectedBy = t, ByDeclared
		return res
	}

	if c.prober == nil || in.URL == "" {
		res.Type, res.DetectedBy = TypeFile, ByFallback
		return res
	}

	if hdr, err := c.prober.Head(ctx, in.URL); err == nil && hdr != nil {
		if hdr.ContentLength > 0 {
			res.Size = hdr.ContentLength
		}
		dispName := FilenameFromDisposition(hdr.ContentDisposition)
		if dispName != "" && IsPlaceholderName(res.Filename) {
			res.Filename = dispName
		}
		if t, ok := FromContentType(hdr.ContentType); ok {
			res.Type, res.DetectedBy = t, ByHeader
			return res
		}
		if t, ok := FromExtension(dispName); ok {
			res.Type, res.DetectedBy = t, ByHeader
			return res
		}
	}

	if prefix, err := c.prober.Prefix(ctx, in.URL, SniffLen); err == nil {
		if t, ok := Sniff(prefix, res.Filename, c.oleDefault); ok {
			res.Type, res.DetectedBy = t, BySignature
			return res
		}
	}

	res.Type, res.DetectedBy = TypeFile, ByFallback
	return res
}
