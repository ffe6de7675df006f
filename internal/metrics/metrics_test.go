package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()
	m.Redirect("go", "redirect")
	m.Redirect("go", "redirect")
	m.Created("normal")
	m.Bot("social_preview", true)
	m.ClickDropped()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Redirects.WithLabelValues("go", "redirect")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LinksCreated.WithLabelValues("normal")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BotRequests.WithLabelValues("social_preview", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ClicksDropped))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "linkwrap_redirects_total")
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Redirect("go", "not_found")
		m.Created("normal")
		m.Bot("human", false)
		m.ClickDropped()
	})
}
