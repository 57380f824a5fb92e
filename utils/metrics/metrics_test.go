package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.PanelPublished("abmeldung", nil)
	m.FlowStarted()
	m.FlowFinished("stance", "skipped")
	m.AbsencesExpired(3)
	m.Interaction("command", "ok")
	assert.Nil(t, m.Registry())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCounters(t *testing.T) {
	m := New()
	m.PanelPublished("abmeldung", nil)
	m.PanelPublished("abmeldung", errors.New("boom"))
	m.AbsencesExpired(2)
	m.AbsencesExpired(0)
	m.FlowStarted()
	m.FlowFinished("xenon", "image")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.panelPublishes.WithLabelValues("abmeldung", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.panelPublishes.WithLabelValues("abmeldung", "error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.absencesExpired))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.activeFlows))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.flowOutcomes.WithLabelValues("xenon", "image")))
}

func TestRouter(t *testing.T) {
	m := New()
	m.AbsencesExpired(1)

	r := NewRouter(m, stubPinger{})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "werkstatt_absences_expired_total 1")

	r = NewRouter(m, stubPinger{err: errors.New("closed")})
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
