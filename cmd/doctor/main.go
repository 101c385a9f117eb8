package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/user/moviehub/internal/config"
	"github.com/user/moviehub/internal/logging"
	"github.com/user/moviehub/internal/repository"
	"github.com/user/moviehub/internal/utils"
)

const probeTimeout = 3 * time.Second

var healthURL string

var rootCmd = &cobra.Command{
	Use:           "doctor",
	Short:         "检查数据库、后端服务和数据文件",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if healthURL == "" {
			healthURL = fmt.Sprintf("http://localhost:%s/api/health", cfg.Port)
		}

		failed := 0
		for _, check := range []struct {
			name string
			fn   func(context.Context, *config.Config) error
		}{
			{"数据库", checkDatabase},
			{"后端服务", checkServer},
			{"数据文件", checkFiles},
		} {
			fmt.Printf("\n== 检查%s ==\n", check.name)
			if err := check.fn(cmd.Context(), cfg); err != nil {
				failed++
				fmt.Printf("✗ %s: %v\n", check.name, err)
				continue
			}
			fmt.Printf("✓ %s正常\n", check.name)
		}

		if failed > 0 {
			return fmt.Errorf("%d 项检查失败", failed)
		}
		fmt.Println("\n全部检查通过")
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&healthURL, "health-url", "", "健康检查地址（默认 http://localhost:PORT/api/health）")
}

func checkDatabase(ctx context.Context, cfg *config.Config) error {
	db, err := repository.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer repository.Close(db)

	counts, err := repository.NewRepositories(db).TableCounts(ctx)
	if err != nil {
		return err
	}

	tables := make([]string, 0, len(counts))
	for name := range counts {
		tables = append(tables, name)
	}
	sort.Strings(tables)
	for _, name := range tables {
		fmt.Printf("  %-10s %d\n", name, counts[name])
	}
	if counts["movies"] == 0 {
		fmt.Println("  ⚠ 电影表为空，请先运行 scraper 和 importer")
	}
	return nil
}

func checkServer(ctx context.Context, _ *config.Config) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	body, err := utils.NewHTTPClient(probeTimeout).GetHTML(ctx, healthURL)
	if err != nil {
		return fmt.Errorf("无法访问 %s: %w", healthURL, err)
	}
	fmt.Printf("  %s\n", body)
	return nil
}

func checkFiles(_ context.Context, cfg *config.Config) error {
	dataFile := filepath.Join(cfg.DataDir, "movies.json")
	if _, err := os.Stat(dataFile); err != nil {
		return fmt.Errorf("数据文件不存在: %s", dataFile)
	}

	entries, err := os.ReadDir(cfg.ImagesDir)
	if err != nil {
		return fmt.Errorf("图片目录不存在: %s", cfg.ImagesDir)
	}
	fmt.Printf("  %s\n  %s (%d 个文件)\n", dataFile, cfg.ImagesDir, len(entries))
	return nil
}

func main() {
	envErr := godotenv.Load()
	cfg := config.Load()
	logging.Init(logging.Config{Level: "warn", Format: cfg.LogFormat})
	if envErr != nil {
		logging.Debug().Msg("未找到 .env 文件，使用系统环境变量")
	}

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
