// internal/scraper/adapter.go
package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Candidate is one raw attachment reference as seen on a detail page, before
// deduplication or canonicalization. SourceURL may be relative; DeclaredType
// is whatever tag the markup carried, usually empty or wrong.
type Candidate struct {
	SourceURL    string
	Text         string
	DeclaredType string
}

// Adapter turns one already-fetched detail-page document into raw attachment
// candidates. Every extraction strategy runs and the results are unioned;
// a strategy that matches nothing is not an error, and an adapter that finds
// nothing returns an empty slice.
type Adapter interface {
	Name() string
	Extract(doc *goquery.Document) []Candidate
}

// ForAnnouncement selects the adapter for a record by its external
// identifier prefix, falling back to the detail-page host.
func ForAnnouncement(id, detailURL string) (Adapter, error) {
	switch {
	case strings.HasPrefix(id, "KS_"):
		return NewKStartup(), nil
	case strings.HasPrefix(id, "PBLN_"):
		return NewBizInfo(), nil
	case strings.Contains(detailURL, "k-startup.go.kr"):
		return NewKStartup(), nil
	case strings.Contains(detailURL, "bizinfo.go.kr"):
		return NewBizInfo(), nil
	}
	return nil, fmt.Errorf("no source adapter for record %q (url %q)", id, detailURL)
}

// anchorText returns the trimmed visible text of a selection, with internal
// whitespace runs collapsed.
func anchorText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}
