// internal/scraper/bizinfo_test.go
package scraper

import "testing"

const bizinfoFixture = `
<html><body>
  <div class="attach_file">
    <a class="fileDown" href="/cmm/fms/getImageFile.do;jsessionid=8A3F0@node1?atchFileId=FILE_000000000726241&fileSn=1">2025년 창업지원 공고.hwp</a>
    <a href="/cmm/fms/getImageFile.do?atchFileId=FILE_000000000726242&fileSn=0">신청서 양식.hwp</a>
    <a href="/cmm/fms/getImageFile.do">빈 링크</a>
    <a href="#" onclick="fnFileDown('FILE_000000000726243'); return false;">다운로드</a>
    <span onclick="fileLoad('/cmm/fms/down.jsp?file=', 'FILE_000000000726244', '&amp;sn=1')">첨부파일</span>
    <div class="file_name"><a href="/cmm/fms/getImageFile.do?atchFileId=FILE_000000000726245&fileSn=2">사업계획서.pdf</a></div>
  </div>
</body></html>`

func TestBizInfoExtract(t *testing.T) {
	doc := parseFixture(t, bizinfoFixture)

	got := NewBizInfo().Extract(doc)

	byURL := map[string]string{}
	for _, c := range got {
		byURL[c.SourceURL] = c.Text
	}

	wantURLs := map[string]string{
		"/cmm/fms/getImageFile.do;jsessionid=8A3F0@node1?atchFileId=FILE_000000000726241&fileSn=1": "2025년 창업지원 공고.hwp",
		"/cmm/fms/getImageFile.do?atchFileId=FILE_000000000726242&fileSn=0":                         "신청서 양식.hwp",
		"https://www.bizinfo.go.kr/cmm/fms/getImageFile.do?atchFileId=FILE_000000000726243&fileSn=0": "다운로드",
		"/cmm/fms/down.jsp?file=FILE_000000000726244&sn=1":                                           "첨부파일",
		"/cmm/fms/getImageFile.do?atchFileId=FILE_000000000726245&fileSn=2":                          "사업계획서.pdf",
	}
	for url, text := range wantURLs {
		if gotText, ok := byURL[url]; !ok {
			t.Errorf("missing candidate %q", url)
		} else if gotText != text {
			t.Errorf("candidate %q text = %q, want %q", url, gotText, text)
		}
	}
	if _, ok := byURL["/cmm/fms/getImageFile.do"]; ok {
		t.Error("getImageFile.do link without atchFileId extracted")
	}
}

func TestBizInfoExtractEmptyPage(t *testing.T) {
	doc := parseFixture(t, `<html><body><table class="view"></table></body></html>`)

	if got := NewBizInfo().Extract(doc); len(got) != 0 {
		t.Errorf("Extract() = %d candidates, want 0", len(got))
	}
}

func TestJoinFileLoadArgs(t *testing.T) {
	tests := []struct {
		args string
		want string
	}{
		{"'/cmm/fms/down.jsp?file=', 'FILE_01', '&sn=0'", "/cmm/fms/down.jsp?file=FILE_01&sn=0"},
		{"'a', 'b'", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := joinFileLoadArgs(tt.args); got != tt.want {
			t.Errorf("joinFileLoadArgs(%q) = %q, want %q", tt.args, got, tt.want)
		}
	}
}

func TestForAnnouncement(t *testing.T) {
	tests := []struct {
		id, url  string
		wantName string
		wantErr  bool
	}{
		{"KS_174953", "", "kstartup", false},
		{"PBLN_000000000099999", "", "bizinfo", false},
		{"X_1", "https://www.k-startup.go.kr/web/contents/view.do?id=1", "kstartup", false},
		{"X_2", "https://www.bizinfo.go.kr/web/lay1/bbs/view.do?id=2", "bizinfo", false},
		{"X_3", "https://example.com/view/3", "", true},
	}

	for _, tt := range tests {
		adapter, err := ForAnnouncement(tt.id, tt.url)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ForAnnouncement(%q, %q) error = nil, want error", tt.id, tt.url)
			}
			continue
		}
		if err != nil {
			t.Errorf("ForAnnouncement(%q, %q) error = %v", tt.id, tt.url, err)
			continue
		}
		if adapter.Name() != tt.wantName {
			t.Errorf("ForAnnouncement(%q, %q) = %q, want %q", tt.id, tt.url, adapter.Name(), tt.wantName)
		}
	}
}
