package telemetry

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Gachet-A/IYFFA-Website-Back/internal/infra/config"
)

// Provider represents a telemetry provider handle.
type Provider struct {
	requestCounter prometheus.Counter
	paymentCounter *prometheus.CounterVec
}

// Attach configures telemetry exporters and returns a provider handle.
func Attach(_ context.Context, cfg *config.AppConfig) (*Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	requests := promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "assoc",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests",
	})

	payments := promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "assoc",
		Name:      "payments_recorded_total",
		Help:      "Payments recorded from Stripe webhooks by type",
	}, []string{"kind"})

	return &Provider{
		requestCounter: requests,
		paymentCounter: payments,
	}, nil
}

// RequestCounter exposes the HTTP request metric.
func (p *Provider) RequestCounter() prometheus.Counter {
	if p == nil {
		return prometheus.NewCounter(prometheus.CounterOpts{})
	}
	return p.requestCounter
}

// PaymentRecorded increments the payment counter for the given kind.
func (p *Provider) PaymentRecorded(kind string) {
	if p == nil || p.paymentCounter == nil {
		return
	}
	p.paymentCounter.WithLabelValues(kind).Inc()
}
