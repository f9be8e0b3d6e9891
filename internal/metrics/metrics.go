// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPRecorder はHTTPリクエストメトリクス記録のインターフェース。
// ロギングミドルウェアから利用する。
type HTTPRecorder interface {
	RecordHTTPRequest(method string, statusCode int, duration time.Duration)
}

// MutationRecorder はプロジェクト変更操作の記録インターフェース。
// ハンドラー層から利用する。
type MutationRecorder interface {
	RecordProjectMutation(operation string)
	RecordLoginAttempt(success bool)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpRequests     *prometheus.CounterVec
	httpDuration     prometheus.Histogram
	projectMutations *prometheus.CounterVec
	loginAttempts    *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "apphub_http_requests_total",
			Help: "メソッド・ステータスコード別のHTTPリクエスト数",
		}, []string{"method", "status_code"}),
		httpDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "apphub_http_request_duration_seconds",
			Help:    "HTTPリクエスト処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		projectMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "apphub_project_mutations_total",
			Help: "操作種別（create/update/delete/seed）ごとのプロジェクト変更数",
		}, []string{"operation"}),
		loginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "apphub_login_attempts_total",
			Help: "結果（success/failure）別の管理者ログイン試行数",
		}, []string{"result"}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.projectMutations,
		c.loginAttempts,
	)

	return c
}

// RecordHTTPRequest はHTTPリクエストの完了を記録する。
func (c *Collector) RecordHTTPRequest(method string, statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, strconv.Itoa(statusCode)).Inc()
	c.httpDuration.Observe(duration.Seconds())
}

// RecordProjectMutation はプロジェクト変更操作を記録する。
func (c *Collector) RecordProjectMutation(operation string) {
	c.projectMutations.WithLabelValues(operation).Inc()
}

// RecordLoginAttempt は管理者ログイン試行の結果を記録する。
func (c *Collector) RecordLoginAttempt(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	c.loginAttempts.WithLabelValues(result).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// compile-time interface checks
var (
	_ HTTPRecorder     = (*Collector)(nil)
	_ MutationRecorder = (*Collector)(nil)
)
