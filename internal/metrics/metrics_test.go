package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopRecorder_SatisfiesInterface(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStageDuration("render", time.Second)
	r.ObserveBuildDuration(time.Second)
	r.IncBuildOutcome(OutcomeSuccess)
	r.IncPagesRendered(PageIndex)
	r.AddAssetsCopied(3)
	r.IncBalesOpened()
	r.ObserveCloneDuration(time.Second, true)
}

func TestPrometheusRecorder_Counts(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.IncPagesRendered(PageIndex)
	pr.IncPagesRendered(PageNested)
	pr.IncPagesRendered(PageNested)
	pr.AddAssetsCopied(4)
	pr.AddAssetsCopied(0)
	pr.IncBalesOpened()
	pr.IncBuildOutcome(OutcomeFailed)
	pr.ObserveStageDuration("render", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.ObserveCloneDuration(time.Second, false)

	assert.InDelta(t, 2, testutil.ToFloat64(pr.pagesRendered.WithLabelValues("nested")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.pagesRendered.WithLabelValues("index")), 0)
	assert.InDelta(t, 4, testutil.ToFloat64(pr.assetsCopied), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.balesOpened), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.buildOutcome.WithLabelValues("failed")), 0)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.IncPagesRendered(PageIndex)
	pr.AddAssetsCopied(1)
	pr.IncBuildOutcome(OutcomeSuccess)
}

func TestHTTPHandler_ServesRegistry(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).IncBalesOpened()

	srv := httptest.NewServer(HTTPHandler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), "docket_bales_opened_total"))
}
