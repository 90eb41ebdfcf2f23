package render

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/user/lightbox-fetcher/internal/fetcher"
)

// ChromeSource renders pages in headless Chrome before extraction, for
// sites that build the lightbox markup client side.
type ChromeSource struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	timeout     time.Duration
	logger      *zap.Logger
}

// NewChromeSource starts an exec allocator shared by every page load.
// A zero timeout leaves page loads bounded only by the caller's context.
func NewChromeSource(timeout time.Duration, userAgent string, logger *zap.Logger) *ChromeSource {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if userAgent != "" {
		opts = append(opts, chromedp.UserAgent(userAgent))
	}
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &ChromeSource{
		allocCtx:    allocCtx,
		allocCancel: cancel,
		timeout:     timeout,
		logger:      logger,
	}
}

// FetchPage navigates to pageURL and returns the rendered outer HTML along
// with the status of the navigation response.
func (c *ChromeSource) FetchPage(ctx context.Context, pageURL string) (*fetcher.Page, error) {
	taskCtx, cancel := chromedp.NewContext(c.allocCtx, chromedp.WithLogf(c.logger.Sugar().Debugf))
	defer cancel()
	if c.timeout > 0 {
		taskCtx, cancel = context.WithTimeout(taskCtx, c.timeout)
		defer cancel()
	}
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	resp, err := chromedp.RunResponse(taskCtx, chromedp.Navigate(pageURL))
	if err != nil {
		return nil, err
	}

	var html string
	if err := chromedp.Run(taskCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return nil, err
	}

	page := &fetcher.Page{Body: html, StatusCode: statusOf(resp)}
	c.logger.Debug("page rendered", zap.String("url", pageURL), zap.Int("status", page.StatusCode))
	return page, nil
}

// statusOf is zero when Chrome reported no network response, e.g. for
// pages served from cache or about: URLs.
func statusOf(resp *network.Response) int {
	if resp == nil {
		return 0
	}
	return int(resp.Status)
}

// Close shuts the browser down.
func (c *ChromeSource) Close() {
	c.allocCancel()
}
