package scraper

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/user/moviehub/internal/logging"
	"github.com/user/moviehub/internal/utils"
	"golang.org/x/time/rate"
)

const (
	initialDelay = 1 * time.Second
	maxDelay     = 32 * time.Second
	tripAfter    = 5
)

// QueueConfig 抓取队列配置
type QueueConfig struct {
	Workers      int
	Rate         float64 // 每秒请求数，<=0 不限速
	Retries      int
	InitialDelay time.Duration
	BreakerOpen  time.Duration // 熔断后的冷却时间
}

// Task 队列中的一个抓取任务
type Task func(ctx context.Context) error

// Queue 限速、限并发并带重试和熔断的任务队列，限速器和熔断器在多次 Run 之间共享
type Queue struct {
	cfg     QueueConfig
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[string]
}

// NewQueue 创建队列
func NewQueue(cfg QueueConfig) *Queue {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = initialDelay
	}
	if cfg.BreakerOpen <= 0 {
		cfg.BreakerOpen = time.Minute
	}

	limit := rate.Inf
	if cfg.Rate > 0 {
		limit = rate.Limit(cfg.Rate)
	}

	q := &Queue{
		cfg:     cfg,
		limiter: rate.NewLimiter(limit, 1),
	}
	q.breaker = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:    "douban",
		Timeout: cfg.BreakerOpen,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= tripAfter
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("[爬虫] 熔断器状态变化，可能触发了反爬限制")
		},
	})
	return q
}

// Run 用 Workers 个 goroutine 执行全部任务并等待完成，ctx 取消后剩余任务不再执行
func (q *Queue) Run(ctx context.Context, tasks []Task) {
	ch := make(chan Task, q.cfg.Workers*2)

	var wg sync.WaitGroup
	for i := 0; i < q.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range ch {
				if ctx.Err() != nil {
					continue
				}
				if err := task(ctx); err != nil {
					logging.Debug().Err(err).Msg("[爬虫] 任务失败")
				}
			}
		}()
	}

feed:
	for _, task := range tasks {
		select {
		case ch <- task:
		case <-ctx.Done():
			break feed
		}
	}
	close(ch)
	wg.Wait()
}

// Fetch 限速后抓取页面，可重试的错误按指数退避重试
func (q *Queue) Fetch(ctx context.Context, fetcher Fetcher, url string) (string, error) {
	var lastErr error
	delay := q.cfg.InitialDelay

	for attempt := 0; attempt <= q.cfg.Retries; attempt++ {
		if err := q.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("限速等待中断: %w", err)
		}

		html, err := q.breaker.Execute(func() (string, error) {
			return fetcher.Fetch(ctx, url)
		})
		if err == nil {
			return html, nil
		}
		lastErr = err

		if !shouldRetry(err) || attempt == q.cfg.Retries {
			break
		}

		logging.Warn().Str("url", url).Int("attempt", attempt+1).Dur("delay", delay).Err(err).
			Msg("[爬虫] 请求失败，稍后重试")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
		delay = minDuration(delay*2, maxDelay)
	}

	return "", lastErr
}

// shouldRetry 非 HTTP 状态错误（网络、超时、浏览器加载失败）以及 429、5xx 可重试；熔断打开时不重试
func shouldRetry(err error) bool {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var se *utils.StatusError
	if errors.As(err, &se) {
		return se.Retryable()
	}

	return true
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
