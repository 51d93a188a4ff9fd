package fetch

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// ExtractImageURL picks the best image for an item.
// Priority: Item.Image > media:thumbnail > media:content > image/* enclosure >
// first <img> in the content (or description) HTML. Only http/https URLs count.
func ExtractImageURL(item *gofeed.Item) string {
	if item.Image != nil && isValidImageScheme(item.Image.URL) {
		return item.Image.URL
	}

	if media, ok := item.Extensions["media"]; ok {
		for _, thumb := range media["thumbnail"] {
			if u := thumb.Attrs["url"]; isValidImageScheme(u) {
				return u
			}
		}
		for _, content := range media["content"] {
			medium := content.Attrs["medium"]
			if medium != "" && medium != "image" {
				continue
			}
			if u := content.Attrs["url"]; isValidImageScheme(u) {
				return u
			}
		}
	}

	for _, enc := range item.Enclosures {
		if enc != nil && strings.HasPrefix(enc.Type, "image/") && isValidImageScheme(enc.URL) {
			return enc.URL
		}
	}

	if u := imageFromHTML(item.Content); u != "" {
		return u
	}
	return imageFromHTML(item.Description)
}

func imageFromHTML(body string) string {
	if !strings.Contains(body, "<img") {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return ""
	}

	var found string
	doc.Find("img[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src, _ := s.Attr("src")
		if isValidImageScheme(src) {
			found = src
			return false
		}
		return true
	})
	return found
}

func validImageURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if isValidImageScheme(raw) {
		return raw
	}
	return ""
}

// isValidImageScheme returns true if the URL has an http or https scheme.
func isValidImageScheme(rawURL string) bool {
	if rawURL == "" {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
