// Package crawl fetches tcgcollector listing and card pages.
package crawl

import (
	"bytes"
	"context"
	"errors"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strconv"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"github.com/go-resty/resty/v2"
	"github.com/rotisserie/eris"
	"golang.org/x/net/html"

	"github.com/jeandeaual/tcg-cardscraper/log"
)

// ErrStatus is returned when a page is answered with a non-2xx status.
var ErrStatus = errors.New("unexpected HTTP status")

// DefaultUserAgent is sent when Options.UserAgent is empty.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

var linkXPath *xpath.Expr

func init() {
	linkXPath = xpath.MustCompile(`//a/@href`)
}

// PageRange is an inclusive range of listing page numbers.
type PageRange struct {
	Start int
	End   int
}

// Options configures a Crawler.
type Options struct {
	// BaseURL is the site root, e.g. https://www.tcgcollector.com
	BaseURL string
	// ListingPath is the path of the paginated card listing, e.g. /cards/intl
	ListingPath string
	UserAgent   string
	Timeout     time.Duration
}

// Crawler discovers card pages on the listing pages and downloads them.
type Crawler struct {
	base        *url.URL
	listingPath string
	cardRegex   *regexp.Regexp
	http        *resty.Client
}

// New creates a Crawler with its own cookie jar.
func New(opts Options) (*Crawler, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, eris.Wrapf(err, "couldn't parse base URL %s", opts.BaseURL)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, eris.Errorf("base URL %s must be absolute", opts.BaseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, eris.Wrap(err, "couldn't create the cookie jar")
	}

	userAgent := opts.UserAgent
	if len(userAgent) == 0 {
		userAgent = DefaultUserAgent
	}

	client := resty.New()
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("user-agent", userAgent)
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(base.Hostname()))
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}

	return &Crawler{
		base:        base,
		listingPath: opts.ListingPath,
		cardRegex:   cardURLRegex(base),
		http:        client,
	}, nil
}

// cardURLRegex matches the absolute URL of a card page, e.g.
// https://www.tcgcollector.com/cards/12345
func cardURLRegex(base *url.URL) *regexp.Regexp {
	root := base.Scheme + "://" + base.Host
	return regexp.MustCompile(`^` + regexp.QuoteMeta(root) + `/cards/\d+(?:[/?]|$)`)
}

// ListingURLs returns the listing page URLs for every page in the range.
func (c *Crawler) ListingURLs(pages PageRange) []string {
	var urls []string

	for page := pages.Start; page <= pages.End; page++ {
		listing := c.base.ResolveReference(&url.URL{Path: c.listingPath})
		q := listing.Query()
		q.Set("page", strconv.Itoa(page))
		listing.RawQuery = q.Encode()
		urls = append(urls, listing.String())
	}

	return urls
}

// CardLinks returns the card page URLs linked from a listing page, in
// document order and without duplicates.
func (c *Crawler) CardLinks(ctx context.Context, listingURL string) ([]string, error) {
	doc, err := c.Fetch(ctx, listingURL)
	if err != nil {
		return nil, err
	}

	return c.cardLinks(doc, listingURL)
}

func (c *Crawler) cardLinks(doc *html.Node, pageURL string) ([]string, error) {
	page, err := url.Parse(pageURL)
	if err != nil {
		return nil, eris.Wrapf(err, "couldn't parse URL %s", pageURL)
	}

	var (
		links []string
		seen  = make(map[string]struct{})
	)

	for _, href := range htmlquery.QuerySelectorAll(doc, linkXPath) {
		ref, err := url.Parse(htmlquery.InnerText(href))
		if err != nil {
			log.Debugw("Skipping invalid link", "page", pageURL, "error", err)
			continue
		}

		link := page.ResolveReference(ref)
		link.Fragment = ""
		linkStr := link.String()

		if !c.cardRegex.MatchString(linkStr) {
			continue
		}
		if _, found := seen[linkStr]; found {
			continue
		}

		seen[linkStr] = struct{}{}
		links = append(links, linkStr)
	}

	log.Debugf("Found %d card link(s) in %s", len(links), pageURL)

	return links, nil
}

// Fetch downloads and parses a page.
func (c *Crawler) Fetch(ctx context.Context, pageURL string) (*html.Node, error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get(pageURL)
	if err != nil {
		return nil, eris.Wrapf(err, "couldn't query %s", pageURL)
	}
	if res.IsError() {
		return nil, eris.Wrapf(ErrStatus, "%s returned %d", pageURL, res.StatusCode())
	}

	doc, err := htmlquery.Parse(bytes.NewReader(res.Body()))
	if err != nil {
		return nil, eris.Wrapf(err, "couldn't parse %s", pageURL)
	}

	return doc, nil
}
