// internal/pipeline/dedup.go
package pipeline

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/oby500/bizinfo-automation-sub001/internal/filetype"
	"github.com/oby500/bizinfo-automation-sub001/internal/scraper"
)

// CanonicalizeURL normalizes one candidate URL: relative paths resolve
// against base, session-id path parameters are stripped with the query kept,
// and only the scheme and host are lowercased. Path and query casing is
// significant on both portals and stays untouched.
func CanonicalizeURL(raw string, base *url.URL) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty URL")
	}

	var u *url.URL
	var err error
	if base != nil {
		u, err = base.Parse(raw)
	} else {
		u, err = url.Parse(raw)
	}
	if err != nil {
		return "", fmt.Errorf("canonicalizing %q: %w", raw, err)
	}

	if i := strings.Index(strings.ToLower(u.Path), ";jsessionid"); i >= 0 {
		u.Path = u.Path[:i]
		u.RawPath = ""
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	return u.String(), nil
}

// unique is a deduplicated candidate with its canonical URL attached.
type unique struct {
	scraper.Candidate
	CanonicalURL string
}

// deduplicate merges raw candidates by canonical URL, preserving first-seen
// order. The first occurrence's text and declared type win, except that a
// placeholder label ("다운로드") yields to a later duplicate carrying a real
// filename: several strategies often report the same URL and only one of
// them sees the file-name markup.
func deduplicate(cands []scraper.Candidate, base *url.URL) []unique {
	index := map[string]int{}
	var out []unique

	for _, c := range cands {
		canonical, err := CanonicalizeURL(c.SourceURL, base)
		if err != nil {
			continue
		}

		if i, ok := index[canonical]; ok {
			if filetype.IsPlaceholderName(out[i].Text) && !filetype.IsPlaceholderName(c.Text) {
				out[i].Text = c.Text
			}
			if out[i].DeclaredType == "" {
				out[i].DeclaredType = c.DeclaredType
			}
			continue
		}

		index[canonical] = len(out)
		out = append(out, unique{Candidate: c, CanonicalURL: canonical})
	}

	return out
}
