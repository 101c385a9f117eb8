package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/user/moviehub/internal/config"
	"github.com/user/moviehub/internal/logging"
	"github.com/user/moviehub/internal/scraper"
	"github.com/user/moviehub/internal/utils"
)

const fetchTimeout = 30 * time.Second

var (
	pages   int
	workers int
	browser bool
	output  string
)

var rootCmd = &cobra.Command{
	Use:           "scraper",
	SilenceUsage:  true,
	SilenceErrors: true,
	Short:         "抓取豆瓣 Top250，输出 movies.json 和封面图片",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		applyFlags(cmd, &cfg.Scraper)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return run(ctx, cfg.Scraper)
	},
}

func init() {
	rootCmd.Flags().IntVar(&pages, "pages", 0, "抓取的榜单页数（默认读取 SCRAPER_TOTAL_PAGES）")
	rootCmd.Flags().IntVar(&workers, "workers", 0, "并发数（默认读取 SCRAPER_WORKERS）")
	rootCmd.Flags().BoolVar(&browser, "browser", false, "使用无头浏览器抓取")
	rootCmd.Flags().StringVarP(&output, "output", "o", "", "输出目录（默认读取 DATA_DIR）")
}

// applyFlags 命令行参数覆盖环境变量
func applyFlags(cmd *cobra.Command, sc *config.ScraperConfig) {
	if cmd.Flags().Changed("pages") {
		sc.TotalPages = pages
	}
	if cmd.Flags().Changed("workers") {
		sc.Workers = workers
	}
	if cmd.Flags().Changed("browser") {
		sc.Browser = browser
	}
	if cmd.Flags().Changed("output") {
		sc.OutputDir = output
	}
	// 未设置速率时按请求间隔换算
	if sc.Rate <= 0 && sc.Delay > 0 {
		sc.Rate = float64(time.Second) / float64(sc.Delay)
	}
}

func run(ctx context.Context, sc config.ScraperConfig) error {
	client := utils.NewHTTPClient(fetchTimeout)

	var fetcher scraper.Fetcher = scraper.NewHTTPFetcher(client)
	if sc.Browser {
		bf, err := scraper.NewBrowserFetcher(ctx)
		if err != nil {
			return fmt.Errorf("启动浏览器失败: %w", err)
		}
		defer bf.Close()
		fetcher = bf
	}

	queue := scraper.NewQueue(scraper.QueueConfig{
		Workers: sc.Workers,
		Rate:    sc.Rate,
		Retries: sc.Retries,
	})
	s := scraper.New(scraper.Config{
		BaseURL:      sc.BaseURL,
		TotalPages:   sc.TotalPages,
		ItemsPerPage: sc.ItemsPerPage,
		ImagesDir:    sc.ImagesDir,
	}, fetcher, client, queue)

	logging.Info().
		Int("pages", sc.TotalPages).
		Int("workers", sc.Workers).
		Float64("rate", sc.Rate).
		Bool("browser", sc.Browser).
		Msg("[爬虫] 开始抓取")

	start := time.Now()
	records, report, err := s.Run(ctx)
	if errors.Is(err, context.Canceled) {
		logging.Warn().Int("movies", len(records)).Msg("[爬虫] 收到中断信号，保存已抓取的数据")
	} else if err != nil {
		return err
	}

	path := filepath.Join(sc.OutputDir, "movies.json")
	if err := scraper.WriteJSON(path, records); err != nil {
		return fmt.Errorf("写入 %s 失败: %w", path, err)
	}

	logging.Info().
		Str("file", path).
		Int("movies", report.Movies).
		Int("pageFailures", report.PageFailures).
		Int("detailFailures", report.DetailFailures).
		Int("imageFailures", report.ImageFailures).
		Dur("elapsed", time.Since(start)).
		Msg("[爬虫] 抓取完成")
	return nil
}

func main() {
	envErr := godotenv.Load()
	cfg := config.Load()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if envErr != nil {
		logging.Debug().Msg("未找到 .env 文件，使用系统环境变量")
	}

	if err := rootCmd.Execute(); err != nil {
		logging.Error().Err(err).Msg("[爬虫] 失败")
		os.Exit(1)
	}
}
