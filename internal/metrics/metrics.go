package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the storefront's Prometheus collectors.
type Metrics struct {
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	ordersPlaced     prometheus.Counter
	orderRevenue     prometheus.Counter
	paymentsRecorded prometheus.Counter
}

// New registers collectors with the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers collectors with reg. Registering twice returns
// the collectors already in place.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &Metrics{
		httpRequests: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_http_requests_total",
			Help: "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"})),
		httpDuration: register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "storefront_http_request_duration_seconds",
			Help:    "HTTP request latency by route and method.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"})),
		ordersPlaced: register(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_orders_placed_total",
			Help: "Carts converted into orders.",
		})),
		orderRevenue: register(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_order_revenue_total",
			Help: "Sum of order totals at checkout.",
		})),
		paymentsRecorded: register(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_payments_recorded_total",
			Help: "Payments settled against existing orders.",
		})),
	}
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			existing, ok := already.ExistingCollector.(C)
			if !ok {
				panic(fmt.Sprintf("collector already registered with unexpected type: %T", already.ExistingCollector))
			}
			return existing
		}
		panic(fmt.Sprintf("register collector: %v", err))
	}
	return c
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(route, method string, code int, seconds float64) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, fmt.Sprint(code)).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(seconds)
}

// OrderPlaced counts a completed checkout of total.
func (m *Metrics) OrderPlaced(total float64) {
	if m == nil {
		return
	}
	m.ordersPlaced.Inc()
	m.orderRevenue.Add(total)
}

// PaymentRecorded counts a settled payment.
func (m *Metrics) PaymentRecorded() {
	if m == nil {
		return
	}
	m.paymentsRecorded.Inc()
}
