// internal/scraper/kstartup_test.go
package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func parseFixture(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	return doc
}

const kstartupFixture = `
<html><body>
  <div class="board_file">
    <a download href="/afile/fileDownload/AAA111">사업 공고문.hwp</a>
    <a href="/afile/fileDownload/BBB222">참가신청서.pdf</a>
    <button onclick="fnPdfView('CCC333')">미리보기</button>
    <a href="#" onclick="fileDownload('DDD444'); return false;">양식 다운로드</a>
    <a href="/board/notice/105">목록으로</a>
  </div>
</body></html>`

func TestKStartupExtract(t *testing.T) {
	doc := parseFixture(t, kstartupFixture)

	got := NewKStartup().Extract(doc)

	byURL := map[string]string{}
	for _, c := range got {
		byURL[c.SourceURL] = c.Text
	}

	wantURLs := map[string]string{
		"/afile/fileDownload/AAA111": "사업 공고문.hwp",
		"/afile/fileDownload/BBB222": "참가신청서.pdf",
		"https://www.k-startup.go.kr/afile/fileDownload/CCC333": "미리보기",
		"https://www.k-startup.go.kr/afile/fileDownload/DDD444": "양식 다운로드",
	}
	for url, text := range wantURLs {
		if gotText, ok := byURL[url]; !ok {
			t.Errorf("missing candidate %q", url)
		} else if gotText != text {
			t.Errorf("candidate %q text = %q, want %q", url, gotText, text)
		}
	}
	if _, ok := byURL["/board/notice/105"]; ok {
		t.Error("navigation link extracted as attachment")
	}
}

func TestKStartupExtractEmptyPage(t *testing.T) {
	doc := parseFixture(t, `<html><body><p>첨부파일 없음</p></body></html>`)

	if got := NewKStartup().Extract(doc); len(got) != 0 {
		t.Errorf("Extract() = %d candidates, want 0", len(got))
	}
}

func TestKStartupStrategiesUnionNotShortCircuit(t *testing.T) {
	// The download anchor also matches the href pattern; both strategies
	// must report it. Deduplication happens downstream.
	doc := parseFixture(t, `<html><body>
	  <a download href="/afile/fileDownload/AAA111">공고.hwp</a>
	</body></html>`)

	got := NewKStartup().Extract(doc)
	if len(got) != 2 {
		t.Fatalf("Extract() = %d candidates, want 2 (one per strategy)", len(got))
	}
}
