// Package scraper 抓取豆瓣 Top250 榜单，输出 movies.json 与封面图片
package scraper

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/goccy/go-json"
	"github.com/user/moviehub/internal/logging"
	"github.com/user/moviehub/internal/metrics"
	"github.com/user/moviehub/internal/model"
)

// Downloader 下载封面图片
type Downloader interface {
	Download(ctx context.Context, url, dest string) error
}

// Config 抓取参数
type Config struct {
	BaseURL      string
	TotalPages   int
	ItemsPerPage int
	ImagesDir    string
}

// Report 抓取统计
type Report struct {
	Pages          int
	PageFailures   int
	Movies         int
	DetailFailures int
	ImageFailures  int
}

// Scraper 榜单爬虫，抓取与解析分离
type Scraper struct {
	cfg        Config
	fetcher    Fetcher
	downloader Downloader
	queue      *Queue

	mu     sync.Mutex
	report Report
}

func New(cfg Config, fetcher Fetcher, downloader Downloader, queue *Queue) *Scraper {
	return &Scraper{cfg: cfg, fetcher: fetcher, downloader: downloader, queue: queue}
}

// ListURL 第 page 页（从 0 开始）的榜单地址
func (s *Scraper) ListURL(page int) string {
	return fmt.Sprintf("%s?start=%d", s.cfg.BaseURL, page*s.cfg.ItemsPerPage)
}

// Run 先抓取全部榜单页，再抓取每部电影的详情和封面，结果按排名排序
func (s *Scraper) Run(ctx context.Context) ([]model.MovieRecord, Report, error) {
	if err := os.MkdirAll(s.cfg.ImagesDir, 0o755); err != nil {
		return nil, Report{}, fmt.Errorf("创建图片目录失败: %w", err)
	}

	var records []model.MovieRecord
	tasks := make([]Task, 0, s.cfg.TotalPages)
	for page := 0; page < s.cfg.TotalPages; page++ {
		page := page
		tasks = append(tasks, func(ctx context.Context) error {
			items, err := s.scrapeList(ctx, page)
			s.mu.Lock()
			defer s.mu.Unlock()
			s.report.Pages++
			if err != nil {
				s.report.PageFailures++
				return err
			}
			records = append(records, items...)
			return nil
		})
	}
	s.queue.Run(ctx, tasks)

	sort.Slice(records, func(i, j int) bool { return records[i].Rank < records[j].Rank })

	tasks = tasks[:0]
	for i := range records {
		rec := &records[i]
		tasks = append(tasks, func(ctx context.Context) error {
			return s.scrapeMovie(ctx, rec)
		})
	}
	s.queue.Run(ctx, tasks)

	s.mu.Lock()
	s.report.Movies = len(records)
	report := s.report
	s.mu.Unlock()

	return records, report, ctx.Err()
}

func (s *Scraper) scrapeList(ctx context.Context, page int) ([]model.MovieRecord, error) {
	url := s.ListURL(page)
	logging.Info().Int("page", page+1).Str("url", url).Msg("[爬虫] 抓取榜单页")

	html, err := s.queue.Fetch(ctx, s.fetcher, url)
	metrics.RecordScrape("list", err)
	if err != nil {
		logging.Error().Int("page", page+1).Err(err).Msg("[爬虫] 榜单页抓取失败")
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("解析 HTML 失败: %w", err)
	}

	items := ParseListPage(doc, page*s.cfg.ItemsPerPage)
	logging.Info().Int("page", page+1).Int("count", len(items)).Msg("[爬虫] 榜单页完成")
	return items, nil
}

// scrapeMovie 补全详情并下载封面，失败时保留榜单字段
func (s *Scraper) scrapeMovie(ctx context.Context, rec *model.MovieRecord) error {
	logging.Info().Int("rank", rec.Rank).Str("title", rec.Title).Msg("[爬虫] 处理电影")

	detail, err := s.scrapeDetail(ctx, rec.DoubanURL)
	metrics.RecordScrape("detail", err)
	if err != nil {
		s.count(func(r *Report) { r.DetailFailures++ })
		logging.Warn().Int("rank", rec.Rank).Err(err).Msg("[爬虫] 详情页抓取失败")
	}
	detail.Apply(rec)

	filename := fmt.Sprintf("movie_%d.jpg", rec.Rank)
	rec.LocalCoverPath = "./images/" + filename
	if rec.CoverImageURL != "" {
		err = s.downloader.Download(ctx, rec.CoverImageURL, filepath.Join(s.cfg.ImagesDir, filename))
		metrics.RecordScrape("image", err)
		if err != nil {
			s.count(func(r *Report) { r.ImageFailures++ })
			logging.Warn().Int("rank", rec.Rank).Err(err).Msg("[爬虫] 封面下载失败")
		}
	}
	return nil
}

func (s *Scraper) scrapeDetail(ctx context.Context, url string) (Detail, error) {
	if url == "" {
		return Detail{}, fmt.Errorf("缺少详情页地址")
	}
	html, err := s.queue.Fetch(ctx, s.fetcher, url)
	if err != nil {
		return Detail{}, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Detail{}, fmt.Errorf("解析 HTML 失败: %w", err)
	}
	return ParseDetailPage(doc), nil
}

func (s *Scraper) count(fn func(r *Report)) {
	s.mu.Lock()
	fn(&s.report)
	s.mu.Unlock()
}

// WriteJSON 写出缩进格式的 movies.json
func WriteJSON(path string, records []model.MovieRecord) error {
	if records == nil {
		records = []model.MovieRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化失败: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
