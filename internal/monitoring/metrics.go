package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics 监控指标
type Metrics struct {
	// HTTP 请求指标
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// 表单提交指标
	SubmissionsTotal *prometheus.CounterVec

	// 投递指标
	DeliveriesTotal  *prometheus.CounterVec
	DeliveryDuration *prometheus.HistogramVec
	AttachmentSize   prometheus.Histogram

	// 错误指标
	PanicsTotal prometheus.Counter
}

// NewMetrics 创建监控指标
func NewMetrics() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "formrelay_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "formrelay_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		SubmissionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "formrelay_submissions_total",
				Help: "Total number of form submissions received",
			},
			[]string{"form"},
		),
		DeliveriesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "formrelay_deliveries_total",
				Help: "Total number of mail delivery attempts",
			},
			[]string{"transport", "outcome"},
		),
		DeliveryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "formrelay_delivery_duration_seconds",
				Help:    "Mail delivery duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"transport"},
		),
		AttachmentSize: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "formrelay_attachment_size_bytes",
				Help:    "Size of uploaded attachments in bytes",
				Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
			},
		),
		PanicsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "formrelay_panics_total",
				Help: "Total number of recovered panics",
			},
		),
	}
}

// RecordHTTPRequest 记录一次 HTTP 请求
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordSubmission 记录一次表单提交
func (m *Metrics) RecordSubmission(form string) {
	m.SubmissionsTotal.WithLabelValues(form).Inc()
}

// RecordDelivery 记录一次投递尝试
func (m *Metrics) RecordDelivery(transport string, err error, duration time.Duration) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.DeliveriesTotal.WithLabelValues(transport, outcome).Inc()
	m.DeliveryDuration.WithLabelValues(transport).Observe(duration.Seconds())
}

// RecordAttachment 记录一次附件上传
func (m *Metrics) RecordAttachment(sizeBytes int64) {
	m.AttachmentSize.Observe(float64(sizeBytes))
}

// RecordPanic 记录一次 panic 恢复
func (m *Metrics) RecordPanic() {
	m.PanicsTotal.Inc()
}
