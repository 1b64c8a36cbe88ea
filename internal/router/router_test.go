package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/student-management-api/internal/handler"
	"github.com/noah-isme/student-management-api/internal/service"
	"github.com/noah-isme/student-management-api/pkg/config"
)

func testConfig(env string) *config.Config {
	return &config.Config{
		Env:       env,
		APIPrefix: "/api/v1",
		Metrics:   config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

func routeSet(cfg *config.Config) map[string]bool {
	metrics := service.NewMetricsService()
	r := New(cfg, Dependencies{
		StudentHandler: handler.NewStudentHandler(service.NewStudentService(nil, nil, nil)),
		CourseHandler:  handler.NewCourseHandler(service.NewCourseService(nil, nil, nil)),
		MetricsHandler: handler.NewMetricsHandler(metrics, nil),
		Metrics:        metrics,
	})
	set := make(map[string]bool)
	for _, route := range r.Routes() {
		set[route.Method+" "+route.Path] = true
	}
	return set
}

func TestRoutesRegistered(t *testing.T) {
	routes := routeSet(testConfig(config.EnvDevelopment))

	for _, want := range []string{
		"GET /health",
		"GET /ready",
		"GET /metrics",
		"GET /docs/*any",
		"GET /api/v1/students",
		"GET /api/v1/students/:id",
		"POST /api/v1/students",
		"PUT /api/v1/students/:id",
		"DELETE /api/v1/students/:id",
		"GET /api/v1/courses",
		"GET /api/v1/courses/:id",
		"POST /api/v1/courses",
		"PUT /api/v1/courses/:id",
		"DELETE /api/v1/courses/:id",
	} {
		assert.True(t, routes[want], want)
	}
}

func TestDocsHiddenInProduction(t *testing.T) {
	routes := routeSet(testConfig(config.EnvProduction))

	assert.False(t, routes["GET /docs/*any"])
	assert.True(t, routes["GET /api/v1/students"])
}

func TestHealthThroughMiddlewareChain(t *testing.T) {
	metrics := service.NewMetricsService()
	r := New(testConfig(config.EnvDevelopment), Dependencies{
		MetricsHandler: handler.NewMetricsHandler(metrics, nil),
		Metrics:        metrics,
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, w.Body.String(), `http_requests_total{method="GET",path="/health",status="200"} 1`)
}
