package cache

import (
	"io"
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/htmlindex"
)

// DecodeBody sniffs body's encoding with chardet and returns it as a
// clean UTF-8 string. Many BRC sites (particularly older East Asian and
// European collections) still serve non-UTF-8 pages; the in-page search
// upper-cases decoded text, so a wrong encoding guess would silently miss
// matches instead of merely garbling display.
func DecodeBody(body []byte) string {
	detector := chardet.NewTextDetector()
	result, err := detector.DetectBest(body)
	if err != nil || strings.EqualFold(result.Charset, "UTF-8") {
		return string(body)
	}
	enc, err := htmlindex.Get(result.Charset)
	if err != nil {
		return string(body)
	}
	out, err := io.ReadAll(enc.NewDecoder().Reader(strings.NewReader(string(body))))
	if err != nil {
		return string(body)
	}
	return string(out)
}
