package fetch

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/phuslu/log"
)

// GoogleNews scrapes headlines for a symbol from Google News search.
type GoogleNews struct {
	client *resty.Client
}

func NewGoogleNews() *GoogleNews {
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetHeader("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	return &GoogleNews{client: client}
}

func (g *GoogleNews) Fetch(symbol string) ([]RawNewsItem, error) {
	searchURL := fmt.Sprintf(
		"https://news.google.com/search?q=%s&hl=en-US&gl=US&ceid=US:en",
		url.QueryEscape(symbol+" stock"),
	)

	resp, err := g.client.R().Get(searchURL)
	if err != nil {
		return nil, fmt.Errorf("google news %s: %v: %w", symbol, err, ErrFetch)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("google news %s: HTTP %d: %w", symbol, resp.StatusCode(), ErrFetch)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("google news %s: parse: %v: %w", symbol, err, ErrFetch)
	}

	items := parseNewsDocument(doc)
	log.Info().Str("symbol", symbol).Int("items", len(items)).Msg("news fetch")
	return items, nil
}

// parseNewsDocument walks the article elements of a Google News results
// page. Selectors cover both the current and the older markup.
func parseNewsDocument(doc *goquery.Document) []RawNewsItem {
	var items []RawNewsItem
	seen := map[string]bool{}

	doc.Find("article").Each(func(_ int, sel *goquery.Selection) {
		title := strings.TrimSpace(sel.Find("a.JtKRv").First().Text())
		if title == "" {
			title = strings.TrimSpace(sel.Find("h3, h4").First().Text())
		}
		if title == "" || seen[title] {
			return
		}
		seen[title] = true

		href, _ := sel.Find("a[href]").First().Attr("href")
		source := strings.TrimSpace(sel.Find("[data-n-tid]").First().Text())
		published, _ := sel.Find("time").First().Attr("datetime")

		items = append(items, RawNewsItem{
			Title:     title,
			URL:       href,
			Source:    source,
			Published: published,
		})
	})
	return items
}
