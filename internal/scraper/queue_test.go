package scraper

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/moviehub/internal/utils"
)

type fetchFunc func(ctx context.Context, url string) (string, error)

func (f fetchFunc) Fetch(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}

func fastQueue(workers, retries int) *Queue {
	return NewQueue(QueueConfig{Workers: workers, Retries: retries, InitialDelay: time.Millisecond})
}

func TestQueueFetch_RetriesServerErrors(t *testing.T) {
	var calls int32
	fetcher := fetchFunc(func(ctx context.Context, url string) (string, error) {
		if atomic.AddInt32(&calls, 1) < 3 {
			return "", &utils.StatusError{URL: url, Code: http.StatusServiceUnavailable}
		}
		return "ok", nil
	})

	html, err := fastQueue(1, 3).Fetch(context.Background(), fetcher, "http://example.com")
	require.NoError(t, err)
	assert.Equal(t, "ok", html)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestQueueFetch_NoRetryOnNotFound(t *testing.T) {
	var calls int32
	fetcher := fetchFunc(func(ctx context.Context, url string) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "", &utils.StatusError{URL: url, Code: http.StatusNotFound}
	})

	_, err := fastQueue(1, 3).Fetch(context.Background(), fetcher, "http://example.com")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestQueueFetch_GivesUpAfterRetries(t *testing.T) {
	var calls int32
	fetcher := fetchFunc(func(ctx context.Context, url string) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "", errors.New("connection reset")
	})

	_, err := fastQueue(1, 2).Fetch(context.Background(), fetcher, "http://example.com")
	assert.EqualError(t, err, "connection reset")
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestQueueFetch_BreakerOpens(t *testing.T) {
	var calls int32
	fetcher := fetchFunc(func(ctx context.Context, url string) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "", &utils.StatusError{URL: url, Code: http.StatusForbidden}
	})

	q := fastQueue(1, 0)
	for i := 0; i < tripAfter; i++ {
		_, _ = q.Fetch(context.Background(), fetcher, "http://example.com")
	}

	_, err := q.Fetch(context.Background(), fetcher, "http://example.com")
	assert.Error(t, err)
	assert.Equal(t, int32(tripAfter), atomic.LoadInt32(&calls), "熔断打开后不再请求")
}

func TestQueueRun_BoundsConcurrency(t *testing.T) {
	var running, peak, done int32
	tasks := make([]Task, 0, 10)
	for i := 0; i < 10; i++ {
		tasks = append(tasks, func(ctx context.Context) error {
			n := atomic.AddInt32(&running, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&running, -1)
			atomic.AddInt32(&done, 1)
			return nil
		})
	}

	fastQueue(2, 0).Run(context.Background(), tasks)

	assert.Equal(t, int32(10), atomic.LoadInt32(&done))
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestQueueRun_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var done int32
	tasks := []Task{
		func(ctx context.Context) error { atomic.AddInt32(&done, 1); cancel(); return nil },
		func(ctx context.Context) error { atomic.AddInt32(&done, 1); return nil },
		func(ctx context.Context) error { atomic.AddInt32(&done, 1); return nil },
	}

	fastQueue(1, 0).Run(ctx, tasks)
	assert.Equal(t, int32(1), atomic.LoadInt32(&done))
}
