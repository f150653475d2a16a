package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/AlexZinkM/stellar-pay/internal/handler"
	"github.com/AlexZinkM/stellar-pay/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// SetupRouter sets up router with handlers
func SetupRouter(h *handler.StellarHandler, log *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Prometheus scrape endpoint
	mux.Handle("/metrics", promhttp.Handler())

	// Wallet endpoints
	mux.HandleFunc("/wallet/connect", h.Connect)
	mux.HandleFunc("/wallet/disconnect", h.Disconnect)
	mux.HandleFunc("/wallet/balance", h.GetBalance)
	mux.HandleFunc("/wallet/pay", h.Pay)
	mux.HandleFunc("/wallet/reset", h.Reset)
	mux.HandleFunc("/wallet/receive", h.Receive)
	mux.HandleFunc("/wallet/payments", h.Payments)

	mux.HandleFunc("/network", h.Network)
	mux.HandleFunc("/price", h.Price)

	return withMetrics(mux, log)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withMetrics records request counts and latency per route and logs each request
func withMetrics(next http.Handler, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		// Pattern is set by the mux; empty means no route matched
		if r.Pattern != "" {
			metrics.ObserveHTTP(r.Method, r.Pattern, strconv.Itoa(rec.status), elapsed)
		}
		log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", elapsed),
		)
	})
}
