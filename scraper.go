// Package cardscraper extracts trading card records from tcgcollector.com.
//
// A Driver crawls the listing pages, fetches each card page, extracts its
// server-rendered attributes, renders the collection modal in an
// authenticated browser to extract the variants and languages, and writes
// the assembled record to a sink.
package cardscraper

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/antchfx/htmlquery"
	"github.com/rotisserie/eris"
	"golang.org/x/net/html"

	"github.com/jeandeaual/tcg-cardscraper/browser"
	"github.com/jeandeaual/tcg-cardscraper/card"
	"github.com/jeandeaual/tcg-cardscraper/crawl"
	"github.com/jeandeaual/tcg-cardscraper/log"
	"github.com/jeandeaual/tcg-cardscraper/sink"
)

// Crawler discovers the card pages and downloads them.
type Crawler interface {
	ListingURLs(pages crawl.PageRange) []string
	CardLinks(ctx context.Context, listingURL string) ([]string, error)
	Fetch(ctx context.Context, pageURL string) (*html.Node, error)
}

// Renderer returns the HTML of a card page after the collection modal has
// been opened.
type Renderer interface {
	Render(ctx context.Context, pageURL string, opts browser.RenderOptions) (string, error)
}

// DefaultRenderOptions opens the collection modal of a card page and waits
// for its form fields. A modal without form fields is captured as is.
var DefaultRenderOptions = browser.RenderOptions{
	InteractionSelector: `//button[@class='card-collection-card-modal-button']`,
	ReadySelector:       `//div[contains(@class,'modal')]`,
	WaitSelector:        card.FormFieldControlXPath,
	ControlsTimeout:     5 * time.Second,
	Settle:              100 * time.Millisecond,
	Timeout:             20 * time.Second,
}

// Driver runs the extraction, one card at a time.
type Driver struct {
	Crawler  Crawler
	Renderer Renderer
	Sink     sink.Sink
	Render   browser.RenderOptions
}

// Summary counts what happened during a run.
type Summary struct {
	// Listings is the number of listing pages that were crawled.
	Listings int
	// FailedListings is the number of listing pages that couldn't be fetched.
	FailedListings int
	// Cards is the number of distinct card pages found.
	Cards int
	// Emitted is the number of records written to the sink.
	Emitted int
	// Failed is the number of cards skipped because of an error, render
	// timeouts included.
	Failed int
	// RenderTimeouts is the number of cards skipped because the collection
	// modal didn't open in time.
	RenderTimeouts int
}

// ProcessCard extracts the record of a single card page. Any error aborts
// the card: no partial record is returned.
func (d *Driver) ProcessCard(ctx context.Context, cardURL string) (card.Record, error) {
	doc, err := d.Crawler.Fetch(ctx, cardURL)
	if err != nil {
		return card.Record{}, eris.Wrapf(err, "couldn't fetch %s", cardURL)
	}

	static := card.ExtractStatic(doc)

	rendered, err := d.Renderer.Render(ctx, cardURL, d.Render)
	if err != nil {
		return card.Record{}, eris.Wrapf(err, "couldn't render %s", cardURL)
	}

	fragment, err := htmlquery.Parse(strings.NewReader(rendered))
	if err != nil {
		return card.Record{}, eris.Wrapf(err, "couldn't parse the rendered page of %s", cardURL)
	}

	dynamic := card.ExtractDynamic(fragment)

	return card.Assemble(static, dynamic), nil
}

// Run crawls the listing pages in the given range and writes a record for
// every card page found. Listing and card failures are logged and skipped.
// A sink failure or the cancellation of ctx stops the run.
func (d *Driver) Run(ctx context.Context, pages crawl.PageRange) (Summary, error) {
	var summary Summary

	seen := make(map[string]struct{})

	for _, listingURL := range d.Crawler.ListingURLs(pages) {
		if err := ctx.Err(); err != nil {
			return summary, eris.Wrap(err, "run interrupted")
		}

		listingLog := log.With("listing", listingURL)
		listingLog.Infow("Crawling listing page")

		links, err := d.Crawler.CardLinks(ctx, listingURL)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return summary, eris.Wrap(ctxErr, "run interrupted")
			}
			listingLog.Errorw("Skipping listing page", "error", err)
			summary.FailedListings++
			continue
		}

		summary.Listings++

		for _, cardURL := range links {
			cardLog := log.With("card", cardURL)

			if _, found := seen[cardURL]; found {
				cardLog.Debugw("Card already processed")
				continue
			}
			seen[cardURL] = struct{}{}
			summary.Cards++

			if err := ctx.Err(); err != nil {
				return summary, eris.Wrap(err, "run interrupted")
			}

			record, err := d.ProcessCard(ctx, cardURL)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return summary, eris.Wrap(ctxErr, "run interrupted")
				}
				summary.Failed++
				if errors.Is(err, browser.ErrRenderTimeout) {
					summary.RenderTimeouts++
					cardLog.Warnw("Skipping card, the collection modal didn't open in time", "error", err)
					continue
				}
				cardLog.Errorw("Skipping card", "error", err)
				continue
			}

			if err := d.Sink.Write(record); err != nil {
				return summary, eris.Wrapf(err, "couldn't write the record of %s", cardURL)
			}
			summary.Emitted++

			cardLog.Debugw("Card extracted", "name", record.Name)
		}
	}

	log.Infow(
		"Run complete",
		"listings", summary.Listings,
		"failedListings", summary.FailedListings,
		"cards", summary.Cards,
		"emitted", summary.Emitted,
		"failed", summary.Failed,
		"renderTimeouts", summary.RenderTimeouts,
	)

	return summary, nil
}
