package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterSum adds every sample of the named counter whose labels include want.
func counterSum(t *testing.T, m *Metrics, name string, want map[string]string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)

	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			labels := make(map[string]string)
			for _, lp := range metric.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			match := true
			for k, v := range want {
				if labels[k] != v {
					match = false
				}
			}
			if match {
				total += metric.GetCounter().GetValue()
			}
		}
	}
	return total
}

func TestObserveKeywords(t *testing.T) {
	m := New()
	m.ObserveKeywords(10, 6, 4)
	m.ObserveKeywords(5, 5, 5)

	assert.Equal(t, 15.0, counterSum(t, m, "seo_content_keyword_rows_total", map[string]string{"phase": "loaded"}))
	assert.Equal(t, 11.0, counterSum(t, m, "seo_content_keyword_rows_total", map[string]string{"phase": "retained"}))
	assert.Equal(t, 9.0, counterSum(t, m, "seo_content_keyword_rows_total", map[string]string{"phase": "selected"}))
}

func TestObserveGenerationAndStage(t *testing.T) {
	m := New()
	m.ObserveGeneration("buyer_persona", time.Second, nil)
	m.ObserveGeneration("buyer_persona", time.Second, errors.New("boom"))
	m.ObserveStage("brand", time.Minute, nil)

	assert.Equal(t, 1.0, counterSum(t, m, "seo_content_generation_calls_total", map[string]string{"task": "buyer_persona", "outcome": "success"}))
	assert.Equal(t, 1.0, counterSum(t, m, "seo_content_generation_calls_total", map[string]string{"task": "buyer_persona", "outcome": "error"}))
	assert.Equal(t, 1.0, counterSum(t, m, "seo_content_stage_runs_total", map[string]string{"stage": "brand", "outcome": "success"}))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveKeywords(1, 1, 1)
	m.ObserveGeneration("x", time.Second, nil)
	m.ObserveStage("x", time.Second, nil)
	assert.Nil(t, m.Registry())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveStage("pillar", time.Second, nil)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.True(t, strings.Contains(string(body), `seo_content_stage_runs_total{outcome="success",stage="pillar"} 1`))
}
