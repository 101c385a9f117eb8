package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/user/moviehub/internal/utils"
)

const navigationTimeout = 30 * time.Second

// Fetcher 按 URL 获取页面 HTML
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// HTTPFetcher 直接 HTTP 请求，带反爬请求头
type HTTPFetcher struct {
	client *utils.HTTPClient
}

func NewHTTPFetcher(client *utils.HTTPClient) *HTTPFetcher {
	return &HTTPFetcher{client: client}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.client.GetHTML(ctx, url)
}

// BrowserFetcher 使用无头浏览器渲染页面
type BrowserFetcher struct {
	allocCtx    context.Context
	browserCtx  context.Context
	cancelAlloc context.CancelFunc
	cancelTab   context.CancelFunc
}

// NewBrowserFetcher 启动无头 Chrome，用完需调用 Close
func NewBrowserFetcher(ctx context.Context) (*BrowserFetcher, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.WindowSize(1280, 800),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelTab := chromedp.NewContext(allocCtx)

	// 先启动浏览器，尽早暴露环境问题
	if err := chromedp.Run(browserCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("启动浏览器失败: %w", err)
	}

	return &BrowserFetcher{
		allocCtx:    allocCtx,
		browserCtx:  browserCtx,
		cancelAlloc: cancelAlloc,
		cancelTab:   cancelTab,
	}, nil
}

// Fetch 每次请求打开一个新标签页
func (f *BrowserFetcher) Fetch(ctx context.Context, url string) (string, error) {
	tabCtx, cancelTab := chromedp.NewContext(f.browserCtx)
	defer cancelTab()

	tabCtx, cancel := context.WithTimeout(tabCtx, navigationTimeout)
	defer cancel()

	// 调用方取消时同时关闭标签页
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("浏览器加载 %s 失败: %w", url, err)
	}
	return html, nil
}

// Close 关闭浏览器
func (f *BrowserFetcher) Close() {
	f.cancelTab()
	f.cancelAlloc()
}
