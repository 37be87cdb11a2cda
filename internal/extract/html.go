package extract

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
)

// socialDomains is the allowlist of anchor hosts reported as social links.
var socialDomains = []string{
	"instagram.com",
	"facebook.com",
	"linkedin.com",
	"twitter.com",
	"tiktok.com",
	"youtube.com",
}

// parseHTML strips non-visible nodes and returns the page title, the
// collapsed visible text, and the social anchors.
func parseHTML(body []byte) (title, text string, socialLinks []string, err error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", "", nil, eris.Wrap(err, "extract: parse html")
	}

	doc.Find("script, style, noscript").Remove()

	title = strings.TrimSpace(doc.Find("title").First().Text())
	text = CleanText(doc.Text())

	var links []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		for _, domain := range socialDomains {
			if strings.Contains(href, domain) {
				links = append(links, href)
				break
			}
		}
	})

	return title, text, uniqueSorted(links), nil
}
