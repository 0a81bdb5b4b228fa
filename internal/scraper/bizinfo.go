// internal/scraper/bizinfo.go
package scraper

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const bizinfoDownloadBase = "https://www.bizinfo.go.kr/cmm/fms/getImageFile.do"

var (
	// fnFileDown carries only the attachment group id; the portal's own JS
	// requests the first file of the group.
	bizinfoFnFileDown = regexp.MustCompile(`fnFileDown\s*\(\s*'([^']+)'`)
	// fileLoad/fileBlank pass the download path split across their first
	// three string arguments.
	bizinfoFileLoad = regexp.MustCompile(`(?:fileLoad|fileBlank)\s*\(([^)]*)\)`)
	quotedArg       = regexp.MustCompile(`'([^']*)'`)
)

// BizInfo extracts attachment candidates from bizinfo.go.kr detail pages.
type BizInfo struct{}

func NewBizInfo() *BizInfo {
	return &BizInfo{}
}

func (a *BizInfo) Name() string { return "bizinfo" }

// Extract unions the portal's strategies: explicit download anchors,
// getImageFile.do hrefs, onclick handlers, and the file-name list block the
// portal renders next to each attachment.
func (a *BizInfo) Extract(doc *goquery.Document) []Candidate {
	var out []Candidate

	doc.Find("a[download], a.fileDown").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok && href != "" && href != "#" {
			out = append(out, Candidate{SourceURL: href, Text: anchorText(s)})
		}
	})

	doc.Find("a[href*='getImageFile.do']").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if !hasAtchFileID(href) {
			return
		}
		out = append(out, Candidate{SourceURL: href, Text: anchorText(s)})
	})

	doc.Find("[onclick]").Each(func(_ int, s *goquery.Selection) {
		onclick, _ := s.Attr("onclick")

		if m := bizinfoFnFileDown.FindStringSubmatch(onclick); m != nil {
			id := strings.TrimSpace(m[1])
			if id != "" {
				out = append(out, Candidate{
					SourceURL: bizinfoDownloadBase + "?atchFileId=" + id + "&fileSn=0",
					Text:      anchorText(s),
				})
			}
			return
		}

		if m := bizinfoFileLoad.FindStringSubmatch(onclick); m != nil {
			if path := joinFileLoadArgs(m[1]); path != "" {
				out = append(out, Candidate{SourceURL: path, Text: anchorText(s)})
			}
		}
	})

	// The file_name block holds the exact filename even when the anchor text
	// is a bare "다운로드" label.
	doc.Find("div.file_name a").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || href == "" || href == "#" {
			return
		}
		out = append(out, Candidate{SourceURL: href, Text: anchorText(s)})
	})

	return out
}

// hasAtchFileID reports whether the href carries a non-empty atchFileId
// parameter; getImageFile.do links without one are portal chrome, not files.
func hasAtchFileID(href string) bool {
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	values, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return false
	}
	return values.Get("atchFileId") != ""
}

// joinFileLoadArgs concatenates the first three quoted arguments of a
// fileLoad/fileBlank call into the download path.
func joinFileLoadArgs(args string) string {
	quoted := quotedArg.FindAllStringSubmatch(args, 3)
	if len(quoted) < 3 {
		return ""
	}
	var b strings.Builder
	for _, q := range quoted {
		b.WriteString(strings.TrimSpace(q[1]))
	}
	return b.String()
}
