// internal/scraper/kstartup.go
package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const kstartupDownloadBase = "https://www.k-startup.go.kr/afile/fileDownload/"

// kstartupOnclick matches the portal's JS download handlers; the first quoted
// argument is the opaque file token. fnPdfView opens a viewer in the browser
// but resolves to the same download path.
var kstartupOnclick = regexp.MustCompile(`(?:fileDownload|fnFileDown|fnDownload|fnPdfView)\s*\(\s*'([^']+)'`)

// KStartup extracts attachment candidates from k-startup.go.kr detail pages.
type KStartup struct{}

func NewKStartup() *KStartup {
	return &KStartup{}
}

func (a *KStartup) Name() string { return "kstartup" }

// Extract runs the portal's extraction strategies in priority order and
// unions the results: explicit download anchors, direct file-download hrefs,
// and onclick JS handlers synthesized through the download path template.
func (a *KStartup) Extract(doc *goquery.Document) []Candidate {
	var out []Candidate

	doc.Find("a[download]").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok && href != "" && href != "#" {
			out = append(out, Candidate{SourceURL: href, Text: anchorText(s)})
		}
	})

	doc.Find("a[href*='/afile/fileDownload/']").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		out = append(out, Candidate{SourceURL: href, Text: anchorText(s)})
	})

	doc.Find("[onclick]").Each(func(_ int, s *goquery.Selection) {
		onclick, _ := s.Attr("onclick")
		m := kstartupOnclick.FindStringSubmatch(onclick)
		if m == nil {
			return
		}
		token := strings.TrimSpace(m[1])
		if token == "" {
			return
		}
		out = append(out, Candidate{
			SourceURL: kstartupDownloadBase + token,
			Text:      anchorText(s),
		})
	})

	return out
}
