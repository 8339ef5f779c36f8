package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aussiebroadwan/clientdesk/internal/clients/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareLabelsByPattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.NewCollector(reg)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /clients/{id}/{$}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	h := c.Middleware(mux)

	for _, path := range []string{"/clients/1/", "/clients/2/", "/nowhere"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	expected := `
# HELP clientdesk_http_requests_total HTTP requests by route pattern, method and status code.
# TYPE clientdesk_http_requests_total counter
clientdesk_http_requests_total{method="GET",route="GET /clients/{id}/{$}",status="404"} 2
clientdesk_http_requests_total{method="GET",route="unmatched",status="404"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "clientdesk_http_requests_total"))
}

func TestTokenCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.NewCollector(reg)

	c.RecordTokenIssued("obtain")
	c.RecordTokenIssued("obtain")
	c.RecordTokenIssued("refresh")
	c.RecordTokenFailure("refresh")

	mfs, err := reg.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			for _, lp := range m.GetLabel() {
				key += ":" + lp.GetValue()
			}
			values[key] = m.GetCounter().GetValue()
		}
	}
	require.Equal(t, 2.0, values["clientdesk_tokens_issued_total:obtain"])
	require.Equal(t, 1.0, values["clientdesk_tokens_issued_total:refresh"])
	require.Equal(t, 1.0, values["clientdesk_token_failures_total:refresh"])
}

func TestNilCollectorIsInert(t *testing.T) {
	var c *metrics.Collector
	c.RecordTokenIssued("obtain")
	c.RecordTokenFailure("obtain")

	called := false
	h := c.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.True(t, called)
}

func TestHandlerServesExposition(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.NewCollector(reg).RecordTokenIssued("obtain")

	rec := httptest.NewRecorder()
	metrics.Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `clientdesk_tokens_issued_total{grant="obtain"} 1`)
}
