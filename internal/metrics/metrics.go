package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// WalletMetrics holds the payment workflow metrics
type WalletMetrics struct {
	PaymentsTotal       *prometheus.CounterVec
	FetchesTotal        *prometheus.CounterVec
	SubmissionDuration  *prometheus.HistogramVec
	ReconcileRunsTotal  *prometheus.CounterVec
	PriceRefreshTotal   *prometheus.CounterVec
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// Global Metrics Instance
var Wallet *WalletMetrics

var once sync.Once

// Init registers wallet metrics with the default registry. Safe to call more than once.
func Init() {
	once.Do(func() {
		Wallet = &WalletMetrics{
			PaymentsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "stellar_pay_payments_total",
				Help: "Payment attempts by network and outcome",
			}, []string{"network", "outcome"}),
			FetchesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "stellar_pay_account_fetches_total",
				Help: "Account state fetches by network and outcome",
			}, []string{"network", "outcome"}),
			SubmissionDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "stellar_pay_submission_duration_seconds",
				Help:    "Duration of envelope submissions",
				Buckets: prometheus.DefBuckets,
			}, []string{"network", "transport"}),
			ReconcileRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "stellar_pay_reconcile_runs_total",
				Help: "Reconciliation refreshes by trigger",
			}, []string{"trigger"}),
			PriceRefreshTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "stellar_pay_price_refresh_total",
				Help: "Price feed refreshes by outcome",
			}, []string{"outcome"}),
			HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			}, []string{"method", "path", "status"}),
			HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency distributions.",
				Buckets: []float64{0.1, 0.3, 0.5, 1.0, 2.0, 5.0, 30.0},
			}, []string{"method", "path"}),
		}
	})
}

// Helpers below are no-ops until Init, so packages can be used without metrics wiring.

func ObservePayment(network, outcome string) {
	if Wallet == nil {
		return
	}
	Wallet.PaymentsTotal.WithLabelValues(network, outcome).Inc()
}

func ObserveFetch(network, outcome string) {
	if Wallet == nil {
		return
	}
	Wallet.FetchesTotal.WithLabelValues(network, outcome).Inc()
}

func ObserveSubmission(network, transport string, d time.Duration) {
	if Wallet == nil {
		return
	}
	Wallet.SubmissionDuration.WithLabelValues(network, transport).Observe(d.Seconds())
}

func ObserveReconcile(trigger string) {
	if Wallet == nil {
		return
	}
	Wallet.ReconcileRunsTotal.WithLabelValues(trigger).Inc()
}

func ObservePriceRefresh(outcome string) {
	if Wallet == nil {
		return
	}
	Wallet.PriceRefreshTotal.WithLabelValues(outcome).Inc()
}

func ObserveHTTP(method, path, status string, d time.Duration) {
	if Wallet == nil {
		return
	}
	Wallet.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	Wallet.HTTPRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}
