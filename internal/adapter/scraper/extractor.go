package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"StreamSync/internal/adapter"
	"StreamSync/internal/config"
	"StreamSync/internal/interfaces"
	"StreamSync/internal/model"
	"StreamSync/internal/utils/httpclient"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func init() {
	adapter.RegisterExtractor(config.ScraperHTML, NewHTMLExtractor)
	adapter.RegisterExtractor(config.ScraperBrowser, NewBrowserExtractor)
}

// mediaAttrs 播放地址所在属性，懒加载属性排在 src 之后
var mediaAttrs = []string{"src", "data-src", "data-lazy-src"}

// matchPage 列表页上发现的一场比赛
type matchPage struct {
	Title string
	URL   string
}

// Extractor 通用抓取器：各站点只通过选择器区分
type Extractor struct {
	cfg     *config.ScraperConfig
	fetcher PageFetcher
	sink    interfaces.DiagnosticSink
	logger  *logrus.Logger
}

// NewHTMLExtractor 直接 GET 页面的站点
func NewHTMLExtractor(cfg *config.ScraperConfig, sink interfaces.DiagnosticSink, logger *logrus.Logger) interfaces.StreamExtractor {
	client := httpclient.NewHTTPClient(httpclient.Options{
		Timeout:   cfg.Timeout,
		Proxy:     cfg.Proxy,
		UserAgent: cfg.UserAgent,
	}, logger)
	return New(cfg, &httpFetcher{source: cfg.Name, client: client}, sink, logger)
}

// NewBrowserExtractor 需要执行脚本才能得到列表的站点
func NewBrowserExtractor(cfg *config.ScraperConfig, sink interfaces.DiagnosticSink, logger *logrus.Logger) interfaces.StreamExtractor {
	return New(cfg, &browserFetcher{
		source:    cfg.Name,
		userAgent: cfg.UserAgent,
		proxy:     cfg.Proxy,
		timeout:   cfg.Timeout,
		wait:      cfg.RenderWait,
	}, sink, logger)
}

// New 用指定的 fetcher 构建抓取器
func New(cfg *config.ScraperConfig, fetcher PageFetcher, sink interfaces.DiagnosticSink, logger *logrus.Logger) *Extractor {
	return &Extractor{cfg: cfg, fetcher: fetcher, sink: sink, logger: logger}
}

// GetName ========== 实现StreamExtractor接口 ==========
func (e *Extractor) GetName() string {
	return e.cfg.Name
}

// Extract 列表页失败返回 error；单个详情页失败只上报诊断并跳过
func (e *Extractor) Extract(ctx context.Context) ([]model.RawStream, error) {
	base, err := url.Parse(e.cfg.BaseURL)
	if err != nil || !base.IsAbs() {
		return nil, model.NewSourceError(e.GetName(), model.FailureParse, e.cfg.BaseURL, fmt.Errorf("invalid base_url: %v", err))
	}
	listingURL, ok := ResolveLink(base, e.cfg.ListingPath)
	if !ok {
		return nil, model.NewSourceError(e.GetName(), model.FailureParse, e.cfg.ListingPath, fmt.Errorf("invalid listing_path"))
	}

	pages, err := e.discover(ctx, base, listingURL)
	if err != nil {
		return nil, err
	}

	concurrency := e.cfg.PageConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	// 每个详情页只写自己的槽位，最终按列表顺序合并
	results := make([][]model.RawStream, len(pages))
	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, page := range pages {
		g.Go(func() error {
			if ctx.Err() != nil {
				e.reportPage(ctx, page.URL, ctx.Err())
				return nil
			}
			streams, err := e.extractPage(ctx, page)
			if err != nil {
				e.reportPage(ctx, page.URL, err)
				return nil
			}
			results[i] = streams
			return nil
		})
	}
	_ = g.Wait()

	streams := lo.Flatten(results)
	e.logger.WithFields(logrus.Fields{
		"source":  e.GetName(),
		"pages":   len(pages),
		"streams": len(streams),
	}).Debug("抓取完成")
	return streams, nil
}

// discover 解析列表页，返回去重后的详情页（保留首次出现的标题）
func (e *Extractor) discover(ctx context.Context, base *url.URL, listingURL string) ([]matchPage, error) {
	body, err := e.fetcher.Fetch(ctx, listingURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, model.NewSourceError(e.GetName(), model.FailureParse, listingURL, fmt.Errorf("parse listing: %w", err))
	}

	var pages []matchPage
	seen := make(map[string]struct{})
	doc.Find(e.cfg.ListingSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, ok := s.Attr("href")
		if !ok {
			// 选择器命中的是容器时取其中第一个链接
			a := s.Find("a[href]").First()
			if href, ok = a.Attr("href"); !ok {
				return true
			}
		}
		title := CollapseSpace(s.Text())
		if title == "" {
			title = CollapseSpace(s.AttrOr("title", ""))
		}
		if title == "" {
			return true
		}
		pageURL, ok := ResolveLink(base, href)
		if !ok {
			return true
		}
		if _, dup := seen[pageURL]; dup {
			return true
		}
		seen[pageURL] = struct{}{}
		pages = append(pages, matchPage{Title: title, URL: pageURL})
		return e.cfg.MaxPages <= 0 || len(pages) < e.cfg.MaxPages
	})

	e.logger.WithFields(logrus.Fields{"source": e.GetName(), "pages": len(pages)}).Debug("列表页解析完成")
	return pages, nil
}

// extractPage 解析详情页中的视频元素；标题沿用列表页
func (e *Extractor) extractPage(ctx context.Context, page matchPage) ([]model.RawStream, error) {
	body, err := e.fetcher.Fetch(ctx, page.URL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, model.NewSourceError(e.GetName(), model.FailureParse, page.URL, fmt.Errorf("parse page: %w", err))
	}
	pageBase, err := url.Parse(page.URL)
	if err != nil {
		return nil, model.NewSourceError(e.GetName(), model.FailureParse, page.URL, err)
	}

	var streams []model.RawStream
	doc.Find(strings.Join(e.cfg.MediaSelectors, ", ")).Each(func(_ int, s *goquery.Selection) {
		for _, attr := range mediaAttrs {
			src := strings.TrimSpace(s.AttrOr(attr, ""))
			if src == "" {
				continue
			}
			embedURL, ok := ResolveMedia(pageBase, src)
			if !ok {
				continue
			}
			streams = append(streams, model.RawStream{
				Source:   e.GetName(),
				Title:    page.Title,
				EmbedURL: embedURL,
				PageURL:  page.URL,
			})
			return
		}
	})
	return streams, nil
}

func (e *Extractor) reportPage(ctx context.Context, pageURL string, err error) {
	kind := model.FailurePage
	if ctx.Err() != nil {
		kind = model.FailureCanceled
	}
	if e.sink == nil {
		e.logger.WithError(err).WithFields(logrus.Fields{"source": e.GetName(), "page_url": pageURL}).Warn("详情页抓取失败，跳过")
		return
	}
	e.sink.Report(model.Diagnostic{
		CycleID: model.CycleIDFrom(ctx),
		Source:  e.GetName(),
		Kind:    kind,
		URL:     pageURL,
		Cause:   err.Error(),
		At:      time.Now().UTC(),
	})
}
