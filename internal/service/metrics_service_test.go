package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsServiceRecords(t *testing.T) {
	m := NewMetricsService()

	m.ObserveHTTPRequest(http.MethodGet, "/api/v1/students", http.StatusOK, 20*time.Millisecond)
	m.ObserveDBQuery("students.page", 3*time.Millisecond)
	m.ObserveDBQuery("students.page", 4*time.Millisecond)
	m.ObserveDBQuery("students.count", time.Millisecond)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `http_requests_total{method="GET",path="/api/v1/students",status="200"} 1`)
	assert.Contains(t, body, `db_queries_total{query="students.page"} 2`)
	assert.Contains(t, body, `db_queries_total{query="students.count"} 1`)
	assert.Contains(t, body, `db_query_duration_seconds_count{query="students.page"} 2`)
}

func TestNilMetricsServiceIsSafe(t *testing.T) {
	var m *MetricsService

	m.ObserveHTTPRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	m.ObserveDBQuery("courses.page", time.Millisecond)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
