package news

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/time/rate"
)

const (
	acccBaseURL  = "https://www.accc.gov.au"
	acccSource   = "Australian Competition & Consumer Commission"
	acccPageSize = 25
	acccMaxPages = 40
)

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/134.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:124.0) Gecko/20100101 Firefox/124.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36 Edg/123.0.2420.81",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 14.4; rv:124.0) Gecko/20100101 Firefox/124.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_4_1) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4.1 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
}

// ACCCClient scrapes media releases from the ACCC news centre. Listings are
// newest first, so paging stops once a page ends before the requested date.
type ACCCClient struct {
	baseURL    string
	httpClient *http.Client
	pages      *rate.Limiter
}

func NewACCCClient() *ACCCClient {
	return &ACCCClient{
		baseURL:    acccBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		pages:      rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

func (c *ACCCClient) Name() string {
	return acccSource
}

func (c *ACCCClient) Fetch(ctx context.Context, from time.Time) ([]Item, error) {
	from = truncateDay(from)
	userAgent := userAgents[rand.IntN(len(userAgents))]

	var items []Item
	for page := 0; page < acccMaxPages; page++ {
		if c.pages != nil {
			if err := c.pages.Wait(ctx); err != nil {
				return nil, err
			}
		}

		listings, err := c.fetchPage(ctx, page, userAgent)
		if err != nil {
			return nil, err
		}
		if len(listings) == 0 {
			break
		}

		for _, l := range listings {
			if !l.PublishedDate.Before(from) {
				items = append(items, l)
			}
		}

		if listings[len(listings)-1].PublishedDate.Before(from) {
			break
		}
	}

	return items, nil
}

func (c *ACCCClient) fetchPage(ctx context.Context, page int, userAgent string) ([]Item, error) {
	pageURL := fmt.Sprintf("%s/news-centre?type=accc_news&layout=full_width&view_args=accc_news&items_per_page=%d&page=%d",
		c.baseURL, acccPageSize, page)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("accc request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("accc fetch page %d: %w", page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("accc fetch page %d: status %d", page, resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("accc parse page %d: %w", page, err)
	}

	return c.parseListings(doc)
}

func (c *ACCCClient) parseListings(doc *html.Node) ([]Item, error) {
	var headers, bodies []*html.Node
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "div" {
			switch {
			case hasClass(n, "accc-date-card__header"):
				headers = append(headers, n)
				return
			case hasClass(n, "accc-date-card__body"):
				bodies = append(bodies, n)
				return
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			traverse(child)
		}
	}
	traverse(doc)

	if len(headers) != len(bodies) {
		return nil, fmt.Errorf("accc parse: %d dates for %d listings", len(headers), len(bodies))
	}

	items := make([]Item, 0, len(headers))
	for i := range headers {
		date := strings.Join([]string{
			textContent(findByClass(headers[i], "accc-date-card--publish--day")),
			textContent(findByClass(headers[i], "accc-date-card--publish--month")),
			textContent(findByClass(headers[i], "accc-date-card--publish--year")),
		}, " ")
		published, err := parseListingDate(date)
		if err != nil {
			return nil, fmt.Errorf("accc parse date %q: %w", date, err)
		}

		titleNode := findByClass(bodies[i], "field--name-node-title")
		items = append(items, Item{
			PublishedDate: published,
			Source:        acccSource,
			Text:          joinText(textContent(titleNode), textContent(findByClass(bodies[i], "field--name-field-acccgov-summary"))),
			URL:           c.resolve(firstHref(titleNode)),
		})
	}

	return items, nil
}

func (c *ACCCClient) resolve(href string) string {
	if href == "" {
		return ""
	}
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

func parseListingDate(s string) (time.Time, error) {
	t, err := time.Parse("2 Jan 2006", s)
	if err != nil {
		t, err = time.Parse("2 January 2006", s)
	}
	return t, err
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func findByClass(n *html.Node, class string) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode && hasClass(n, class) {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findByClass(child, class); found != nil {
			return found
		}
	}
	return nil
}

func firstHref(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.ElementNode && n.Data == "a" {
		for _, attr := range n.Attr {
			if attr.Key == "href" {
				return attr.Val
			}
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if href := firstHref(child); href != "" {
			return href
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	var traverse func(*html.Node)
	traverse = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
			b.WriteByte(' ')
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			traverse(child)
		}
	}
	traverse(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
