package render

import (
	"context"
	"fmt"
	"strings"
	"time"

	"registry-sync/core/utils"

	"github.com/cenkalti/backoff"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// ChromeOptions configures the headless browser provider.
type ChromeOptions struct {
	Headless   bool
	UserAgent  string
	Timeout    time.Duration
	Settle     time.Duration
	MaxRetries int

	// RetryInterval is the first backoff wait; defaults to two seconds.
	RetryInterval time.Duration
}

// Chrome renders pages with a headless Chrome driven by chromedp.
type Chrome struct {
	opts   ChromeOptions
	logger *zap.Logger
	// attempt performs a single render; replaced in tests.
	attempt func(ctx context.Context, url string) (string, error)
}

// NewChrome creates a Chrome provider. A nil logger is a no-op.
func NewChrome(opts ChromeOptions, logger *zap.Logger) *Chrome {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Minute
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = 2 * time.Second
	}
	c := &Chrome{opts: opts, logger: logger}
	c.attempt = c.renderOnce
	return c
}

// Render renders url, retrying failed attempts with exponential backoff.
func (c *Chrome) Render(ctx context.Context, url string) (string, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.opts.RetryInterval
	bo.MaxInterval = 30 * time.Second
	bo.MaxElapsedTime = 0

	var html string
	err := backoff.RetryNotify(func() error {
		out, err := c.attempt(ctx, url)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}
		if strings.TrimSpace(out) == "" {
			return ErrEmptyPage
		}
		html = out
		return nil
	}, backoff.WithContext(utils.LimitRetries(bo, c.opts.MaxRetries), ctx), func(err error, wait time.Duration) {
		c.logger.Warn("Render attempt failed, retrying",
			zap.String("url", url),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	})
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", url, err)
	}
	return html, nil
}

// expandCardsJS opens every collapsed registry card and dismisses the cookie banner.
const expandCardsJS = `(() => {
  document.querySelectorAll('button#onetrust-accept-btn-handler, .cookie button, .cookies button, [class*="cookie"] button').forEach(b => { try { b.click(); } catch (e) {} });
  let opened = 0;
  document.querySelectorAll('.collapse__header').forEach(h => {
    try { h.scrollIntoView({block: 'center'}); h.click(); opened++; } catch (e) {}
  });
  return opened;
})()`

// expandSectionsJS opens the nested ant-design sections inside each card and
// forces every ant collapse panel into its active state.
const expandSectionsJS = `(() => {
  document.querySelectorAll('.collapse__content .anticon-right.ant-collapse-arrow').forEach(a => { try { a.click(); } catch (e) {} });
  document.querySelectorAll('.ant-collapse-item').forEach(item => item.classList.add('ant-collapse-item-active'));
  document.querySelectorAll('.ant-collapse-content').forEach(content => {
    content.classList.remove('ant-collapse-content-inactive');
    content.classList.add('ant-collapse-content-active');
    content.style.display = 'block';
    content.style.height = 'auto';
  });
  return true;
})()`

func (c *Chrome) renderOnce(ctx context.Context, url string) (string, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", c.opts.Headless),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-ipv6", true),
		chromedp.NoSandbox,
	)
	if c.opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(c.opts.UserAgent))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancel := context.WithTimeout(browserCtx, c.opts.Timeout)
	defer cancel()

	var (
		opened int
		done   bool
		html   string
	)
	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.Sleep(c.opts.Settle),
		chromedp.Evaluate(expandCardsJS, &opened),
		chromedp.Sleep(time.Second),
		chromedp.Evaluate(expandSectionsJS, &done),
		chromedp.Sleep(time.Second),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", err
	}

	c.logger.Debug("Page rendered",
		zap.String("url", url),
		zap.Int("cards_opened", opened),
		zap.Int("bytes", len(html)),
	)
	return html, nil
}
