package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func scrape(t *testing.T, m *PipelineMetrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	return rec.Body.String()
}

func TestObserveRun(t *testing.T) {
	m := NewPipelineMetrics()
	m.ObserveRun("odds", "selected", time.Now(), Stats{Total: 12, WithOdds: 7, Qualifying: 3, Selected: 3})
	m.ObserveRun("odds", "selected", time.Now(), Stats{Total: 10, WithOdds: 5, Qualifying: 2, Selected: 2})

	body := scrape(t, m)
	for _, want := range []string{
		`hapdaily_runs_total{engine="odds",outcome="selected"} 2`,
		`hapdaily_picks_selected{engine="odds"} 2`,
		`hapdaily_stage_items{engine="odds",stage="with_odds"} 5`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestObserveFailure(t *testing.T) {
	m := NewPipelineMetrics()
	m.ObserveFailure("api-football")
	m.ObserveFallback()

	body := scrape(t, m)
	if !strings.Contains(body, `hapdaily_source_errors_total{engine="api-football"} 1`) {
		t.Errorf("metrics output missing source error counter:\n%s", body)
	}
	if !strings.Contains(body, "hapdaily_fallbacks_total 1") {
		t.Errorf("metrics output missing fallback counter:\n%s", body)
	}
}

func TestNilMetrics(t *testing.T) {
	var m *PipelineMetrics
	m.ObserveRun("odds", "selected", time.Now(), Stats{})
	m.ObserveFailure("odds")
	m.ObserveFallback()
}
