// Package metrics Prometheus 指标
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviehub_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moviehub_api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	ScrapeRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviehub_scrape_requests_total",
			Help: "Total number of scraper page fetches",
		},
		[]string{"kind", "outcome"}, // kind: list/detail/image
	)

	ImportRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviehub_import_records_total",
			Help: "Total number of imported movie records",
		},
		[]string{"outcome"},
	)
)

// RecordAPIRequest 记录一次 API 请求
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordScrape 记录一次抓取结果
func RecordScrape(kind string, err error) {
	ScrapeRequestsTotal.WithLabelValues(kind, outcome(err)).Inc()
}

// RecordImport 记录一条导入结果
func RecordImport(err error) {
	ImportRecordsTotal.WithLabelValues(outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
