package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"StreamSync/internal/adapter"
	"StreamSync/internal/model"

	"github.com/chromedp/chromedp"
)

// PageFetcher 取回一个页面的 HTML
type PageFetcher interface {
	Fetch(ctx context.Context, pageURL string) (io.ReadCloser, error)
}

// httpFetcher 普通 GET
type httpFetcher struct {
	source string
	client *http.Client
}

func (f *httpFetcher) Fetch(ctx context.Context, pageURL string) (io.ReadCloser, error) {
	return adapter.Get(ctx, f.client, f.source, pageURL, http.Header{
		"Accept":          []string{"text/html,application/xhtml+xml"},
		"Accept-Language": []string{"en-US,en;q=0.9"},
	})
}

// browserFetcher 用无头 Chrome 渲染后取 DOM，适用于列表由脚本生成的站点。
// 每次调用启动独立的浏览器实例，超时后随 context 一起回收
type browserFetcher struct {
	source    string
	userAgent string
	proxy     string
	timeout   time.Duration
	wait      time.Duration
}

func (f *browserFetcher) Fetch(parent context.Context, pageURL string) (io.ReadCloser, error) {
	ctx := parent
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("mute-audio", true),
	)
	if f.userAgent != "" {
		opts = append(opts, chromedp.UserAgent(f.userAgent))
	}
	if f.proxy != "" {
		opts = append(opts, chromedp.ProxyServer(f.proxy))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(pageURL),
		chromedp.Sleep(f.wait),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		// 自身超时算 transport，只有调用方取消才算 canceled
		kind := model.FailureTransport
		if parent.Err() != nil {
			kind = model.FailureCanceled
		}
		return nil, model.NewSourceError(f.source, kind, pageURL, fmt.Errorf("render: %w", err))
	}
	return io.NopCloser(strings.NewReader(html)), nil
}
