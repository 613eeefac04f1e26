package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	QuestionaryDrafts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "questionary_drafts_total",
			Help: "Number of per-student question sets drafted",
		},
	)

	QuestionaryFinishes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "questionary_finishes_total",
			Help: "Number of questionaries finished by students",
		},
	)

	ReportGenerations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_generations_total",
			Help: "Number of interaction reports generated",
		},
		[]string{"status"},
	)

	ReportDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "report_generation_duration_seconds",
			Help:    "Duration of interaction report generation including exports",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30},
		},
	)
)

var once sync.Once

func Init() {
	once.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			QuestionaryDrafts,
			QuestionaryFinishes,
			ReportGenerations,
			ReportDuration,
		)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
