package browser

import (
	"context"
	"errors"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rotisserie/eris"

	"github.com/jeandeaual/tcg-cardscraper/log"
)

// ErrRenderTimeout is returned when the modal didn't open before the render
// deadline. A modal that opened without any controls is not an error.
var ErrRenderTimeout = errors.New("timed out waiting for the rendered modal")

// RenderOptions describes the interaction to perform on a page before
// capturing it.
type RenderOptions struct {
	// InteractionSelector is the XPath of the element to click.
	InteractionSelector string
	// ReadySelector is the XPath of the element present once the click took
	// effect, e.g. the modal container. It is bounded by Timeout.
	ReadySelector string
	// WaitSelector is the XPath of the controls expected in the modal.
	WaitSelector string
	// ControlsTimeout bounds the wait for WaitSelector once ReadySelector is
	// present. Controls still missing after it are treated as absent.
	ControlsTimeout time.Duration
	// Settle is an extra delay before the capture, so that the controls
	// finish populating.
	Settle time.Duration
	// Timeout bounds the whole render.
	Timeout time.Duration
}

// Render loads pageURL in a new tab of the authenticated browser, clicks
// InteractionSelector, waits for the modal and its controls to be present
// in the DOM and returns the page HTML.
func (s *Session) Render(ctx context.Context, pageURL string, opts RenderOptions) (string, error) {
	tabCtx, tabCancel := chromedp.NewContext(s.browserCtx)
	defer tabCancel()

	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	renderCtx, cancel := context.WithTimeout(tabCtx, opts.Timeout)
	defer cancel()

	log.Debugw("Rendering card page", "url", pageURL, "timeout", opts.Timeout)

	opened := chromedp.Tasks{
		chromedp.Navigate(pageURL),
		chromedp.Click(opts.InteractionSelector, chromedp.BySearch),
	}
	if len(opts.ReadySelector) > 0 {
		opened = append(opened, chromedp.WaitReady(opts.ReadySelector, chromedp.BySearch))
	}
	if err := chromedp.Run(renderCtx, opened); err != nil {
		return "", renderError(ctx, pageURL, err)
	}

	if len(opts.WaitSelector) > 0 {
		controlsCtx, controlsCancel := context.WithTimeout(renderCtx, opts.ControlsTimeout)
		err := chromedp.Run(controlsCtx, chromedp.WaitReady(opts.WaitSelector, chromedp.BySearch))
		controlsCancel()

		absent, err := controlsWaitError(ctx, renderCtx, pageURL, err)
		if err != nil {
			return "", err
		}
		if absent {
			log.Debugw("The modal has no controls", "url", pageURL)
		}
	}

	var page string

	err := chromedp.Run(renderCtx,
		chromedp.Sleep(opts.Settle),
		chromedp.OuterHTML("html", &page, chromedp.ByQuery),
	)
	if err != nil {
		return "", renderError(ctx, pageURL, err)
	}

	return page, nil
}

// controlsWaitError classifies the result of the wait for the modal
// controls. Only the controls deadline expiring means the controls are
// absent; the render deadline expiring is still a render timeout.
func controlsWaitError(ctx, renderCtx context.Context, pageURL string, err error) (absent bool, _ error) {
	if err == nil {
		return false, nil
	}
	if ctx.Err() == nil && renderCtx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
		return true, nil
	}
	return false, renderError(ctx, pageURL, err)
}

// renderError tells a cancellation of the caller apart from the render
// deadline expiring.
func renderError(ctx context.Context, pageURL string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return eris.Wrapf(ctxErr, "rendering %s was interrupted", pageURL)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return eris.Wrapf(ErrRenderTimeout, "%s", pageURL)
	}
	return eris.Wrapf(err, "couldn't render %s", pageURL)
}
