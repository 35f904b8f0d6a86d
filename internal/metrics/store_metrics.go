package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics содержит метрики магазина.
type StoreMetrics struct {
	// Счётчики заказов
	ordersCreated prometheus.Counter
	ordersFailed  prometheus.Counter
	statusUpdates *prometheus.CounterVec

	// Счётчик неудачных уведомлений
	notifyFailed prometheus.Counter

	// Гистограммы времени выполнения
	createDuration  prometheus.Histogram
	requestDuration *prometheus.HistogramVec

	// Gauge для уведомлений в полёте
	pendingNotifications prometheus.Gauge
}

// NewStoreMetrics создаёт новый экземпляр метрик магазина.
func NewStoreMetrics() *StoreMetrics {
	return newStoreMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newStoreMetricsWithRegisterer(registerer prometheus.Registerer) *StoreMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &StoreMetrics{
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "clearr_orders_created_total",
			Help: "Total number of orders created",
		}),
		ordersFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "clearr_orders_failed_total",
			Help: "Total number of order creation attempts that failed",
		}),
		statusUpdates: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "clearr_order_status_updates_total",
			Help: "Total number of order status updates",
		}, []string{"status"}),
		notifyFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "clearr_notifications_failed_total",
			Help: "Total number of operator notifications that failed to deliver",
		}),
		createDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "clearr_order_create_duration_seconds",
			Help:    "Duration of order creation in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		requestDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "clearr_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"method", "route", "status"}),
		pendingNotifications: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "clearr_pending_notifications",
			Help: "Number of operator notifications currently in flight",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOrderCreated увеличивает счётчик созданных заказов.
func (m *StoreMetrics) RecordOrderCreated() {
	m.ordersCreated.Inc()
}

// RecordOrderFailed увеличивает счётчик неудачных попыток создания.
func (m *StoreMetrics) RecordOrderFailed() {
	m.ordersFailed.Inc()
}

// RecordStatusUpdate увеличивает счётчик смен статуса с меткой нового статуса.
func (m *StoreMetrics) RecordStatusUpdate(status string) {
	m.statusUpdates.WithLabelValues(status).Inc()
}

// RecordNotificationFailed увеличивает счётчик недоставленных уведомлений.
func (m *StoreMetrics) RecordNotificationFailed() {
	m.notifyFailed.Inc()
}

// RecordNotificationStarted увеличивает количество уведомлений в полёте.
func (m *StoreMetrics) RecordNotificationStarted() {
	m.pendingNotifications.Inc()
}

// RecordNotificationFinished уменьшает количество уведомлений в полёте.
func (m *StoreMetrics) RecordNotificationFinished() {
	m.pendingNotifications.Dec()
}

// RecordCreateDuration записывает время создания заказа.
func (m *StoreMetrics) RecordCreateDuration(duration time.Duration) {
	m.createDuration.Observe(duration.Seconds())
}

// RecordRequestDuration записывает время обработки HTTP-запроса.
func (m *StoreMetrics) RecordRequestDuration(method, route, status string, duration time.Duration) {
	m.requestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}
