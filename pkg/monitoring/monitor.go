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
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	LoginCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "elearning_logins_total",
			Help: "Login attempts by outcome",
		},
		[]string{"result"},
	)

	EnrollmentCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "elearning_enrollments_total",
		Help: "Successful course enrollments",
	})

	SubmissionCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "elearning_submissions_total",
		Help: "Accepted assignment submissions",
	})

	GradeCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "elearning_grades_total",
		Help: "Grades recorded, including overwrites",
	})
)

var registerOnce sync.Once

// Init registers the collectors with the default registry. Later calls are no-ops.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			LoginCounter,
			EnrollmentCounter,
			SubmissionCounter,
			GradeCounter,
		)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(time.Since(start).Seconds())
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
