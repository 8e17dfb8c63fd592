// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewClientMetrics_Isolated(t *testing.T) {
	a := NewClientMetrics("quickpoll")
	b := NewClientMetrics("quickpoll")

	a.Requests.WithLabelValues("GET", "/polls/", "200").Inc()

	if got := promtest.ToFloat64(a.Requests.WithLabelValues("GET", "/polls/", "200")); got != 1 {
		t.Errorf("Expected 1 request on a, got %v", got)
	}
	if got := promtest.ToFloat64(b.Requests.WithLabelValues("GET", "/polls/", "200")); got != 0 {
		t.Errorf("Registries must not share state, b saw %v", got)
	}
}

func TestGatherer(t *testing.T) {
	m := NewClientMetrics("quickpoll")
	m.Latency.WithLabelValues("/polls/{id}").Observe(0.1)
	m.Unauthorized.Inc()

	count, err := promtest.GatherAndCount(m.Gatherer(),
		"quickpoll_api_request_duration_seconds", "quickpoll_api_unauthorized_total")
	if err != nil {
		t.Fatalf("GatherAndCount() error = %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 series, got %d", count)
	}
}

func TestHandler(t *testing.T) {
	m := NewClientMetrics("quickpoll")
	m.Requests.WithLabelValues("POST", "/votes/", "200").Inc()

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	want := `quickpoll_api_requests_total{method="POST",route="/votes/",status="200"} 1`
	if !strings.Contains(w.Body.String(), want) {
		t.Errorf("Expected %q in:\n%s", want, w.Body.String())
	}
}
