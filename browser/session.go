// Package browser drives a headless Chrome to sign in to tcgcollector and
// capture card pages after their collection modal was opened.
package browser

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rotisserie/eris"

	"github.com/jeandeaual/tcg-cardscraper/log"
)

// ErrLoginFailed is returned when the sign-in form couldn't be submitted or
// was still displayed after submitting it.
var ErrLoginFailed = errors.New("failed to sign in")

const (
	emailSelector    = `#sign-in-email-address`
	passwordSelector = `#sign-in-password`
	submitSelector   = `//button[@type='submit']`
)

// Options configures the browser used for a Session.
type Options struct {
	// SignInURL is the URL of the account sign-in page.
	SignInURL string
	// Headless runs Chrome without a window.
	Headless bool
	// UserAgent overrides the browser user agent when set.
	UserAgent string
	// Timeout bounds the whole sign-in sequence.
	Timeout time.Duration
}

// Credentials of the tcgcollector account.
type Credentials struct {
	Email    string
	Password string
}

// Session is an authenticated browser. It is created once by Login, shared
// by every render, and released once with Close.
type Session struct {
	browserCtx context.Context
	cancel     func()
	closeOnce  sync.Once
}

// Login starts a browser and signs in with the given credentials.
func Login(ctx context.Context, opts Options, creds Credentials) (*Session, error) {
	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
	)
	if len(opts.UserAgent) > 0 {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(
		allocCtx,
		chromedp.WithLogf(log.Debugf),
		chromedp.WithErrorf(log.Debugf),
	)

	session := &Session{
		browserCtx: browserCtx,
		cancel: func() {
			if err := chromedp.Cancel(browserCtx); err != nil {
				log.Debugw("Couldn't close the browser gracefully", "error", err)
			}
			browserCancel()
			allocCancel()
		},
	}

	// The first Run starts the browser, it must not be bound to a timeout
	if err := chromedp.Run(browserCtx); err != nil {
		session.Close()
		return nil, eris.Wrap(err, "couldn't start the browser")
	}

	log.Infof("Signing in to %s as %s", opts.SignInURL, creds.Email)

	loginCtx, cancel := context.WithCancel(browserCtx)
	if opts.Timeout > 0 {
		loginCtx, cancel = context.WithTimeout(browserCtx, opts.Timeout)
	}
	defer cancel()

	err := chromedp.Run(loginCtx,
		chromedp.Navigate(opts.SignInURL),
		chromedp.WaitVisible(emailSelector, chromedp.ByQuery),
		chromedp.SendKeys(emailSelector, creds.Email, chromedp.ByQuery),
		chromedp.SendKeys(passwordSelector, creds.Password, chromedp.ByQuery),
		chromedp.Click(submitSelector, chromedp.BySearch),
		chromedp.WaitNotPresent(emailSelector, chromedp.ByQuery),
	)
	if err != nil {
		session.Close()
		return nil, eris.Wrapf(ErrLoginFailed, "%s: %v", opts.SignInURL, err)
	}

	log.Info("Signed in")

	return session, nil
}

// Close shuts the browser down. It is safe to call several times.
func (s *Session) Close() {
	s.closeOnce.Do(s.cancel)
}
