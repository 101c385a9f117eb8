package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/movies", "200"))
	RecordAPIRequest("GET", "/api/movies", 200, 10*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/movies", "200"))
	assert.Equal(t, before+1, after)

	RecordAPIRequest("GET", "", 404, time.Millisecond)
	assert.GreaterOrEqual(t, testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "unmatched", "404")), 1.0)
}

func TestRecordScrape(t *testing.T) {
	before := testutil.ToFloat64(ScrapeRequestsTotal.WithLabelValues("detail", "failure"))
	RecordScrape("detail", errors.New("timeout"))
	assert.Equal(t, before+1, testutil.ToFloat64(ScrapeRequestsTotal.WithLabelValues("detail", "failure")))
}

func TestRecordImport(t *testing.T) {
	before := testutil.ToFloat64(ImportRecordsTotal.WithLabelValues("success"))
	RecordImport(nil)
	assert.Equal(t, before+1, testutil.ToFloat64(ImportRecordsTotal.WithLabelValues("success")))
}
