package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestNewStoreMetrics(t *testing.T) {
	metrics := newStoreMetricsWithRegisterer(prometheus.NewRegistry())

	if metrics == nil {
		t.Fatal("newStoreMetricsWithRegisterer should not return nil")
	}

	if metrics.ordersCreated == nil {
		t.Error("ordersCreated counter should not be nil")
	}

	if metrics.ordersFailed == nil {
		t.Error("ordersFailed counter should not be nil")
	}

	if metrics.statusUpdates == nil {
		t.Error("statusUpdates counter vec should not be nil")
	}

	if metrics.notifyFailed == nil {
		t.Error("notifyFailed counter should not be nil")
	}

	if metrics.createDuration == nil {
		t.Error("createDuration histogram should not be nil")
	}

	if metrics.requestDuration == nil {
		t.Error("requestDuration histogram vec should not be nil")
	}

	if metrics.pendingNotifications == nil {
		t.Error("pendingNotifications gauge should not be nil")
	}
}

func TestNewStoreMetricsIdempotent(t *testing.T) {
	reg := prometheus.NewRegistry()

	first := newStoreMetricsWithRegisterer(reg)
	second := newStoreMetricsWithRegisterer(reg)

	// Повторная регистрация возвращает существующие коллекторы.
	first.RecordOrderCreated()
	second.RecordOrderCreated()

	metric := &dto.Metric{}
	if err := first.ordersCreated.Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}

	if metric.Counter.GetValue() != 2.0 {
		t.Errorf("expected counter value 2.0, got %f", metric.Counter.GetValue())
	}
}

func TestRecordOrderCreated(t *testing.T) {
	metrics := newStoreMetricsWithRegisterer(prometheus.NewRegistry())

	metrics.RecordOrderCreated()
	metrics.RecordOrderCreated()
	metrics.RecordOrderCreated()

	metric := &dto.Metric{}
	if err := metrics.ordersCreated.Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}

	if metric.Counter.GetValue() != 3.0 {
		t.Errorf("expected counter value 3.0, got %f", metric.Counter.GetValue())
	}
}

func TestRecordOrderFailed(t *testing.T) {
	metrics := newStoreMetricsWithRegisterer(prometheus.NewRegistry())

	metrics.RecordOrderFailed()

	metric := &dto.Metric{}
	if err := metrics.ordersFailed.Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}

	if metric.Counter.GetValue() != 1.0 {
		t.Errorf("expected counter value 1.0, got %f", metric.Counter.GetValue())
	}
}

func TestRecordStatusUpdate(t *testing.T) {
	metrics := newStoreMetricsWithRegisterer(prometheus.NewRegistry())

	metrics.RecordStatusUpdate("confirmed")
	metrics.RecordStatusUpdate("confirmed")
	metrics.RecordStatusUpdate("cancelled")

	confirmed := &dto.Metric{}
	if err := metrics.statusUpdates.WithLabelValues("confirmed").Write(confirmed); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}

	if confirmed.Counter.GetValue() != 2.0 {
		t.Errorf("expected confirmed count 2.0, got %f", confirmed.Counter.GetValue())
	}

	cancelled := &dto.Metric{}
	if err := metrics.statusUpdates.WithLabelValues("cancelled").Write(cancelled); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}

	if cancelled.Counter.GetValue() != 1.0 {
		t.Errorf("expected cancelled count 1.0, got %f", cancelled.Counter.GetValue())
	}
}

func TestNotificationLifecycle(t *testing.T) {
	metrics := newStoreMetricsWithRegisterer(prometheus.NewRegistry())

	metrics.RecordNotificationStarted()
	metrics.RecordNotificationStarted()
	metrics.RecordNotificationFailed()
	metrics.RecordNotificationFinished()

	gaugeMetric := &dto.Metric{}
	if err := metrics.pendingNotifications.Write(gaugeMetric); err != nil {
		t.Fatalf("failed to write gauge: %v", err)
	}

	if gaugeMetric.Gauge.GetValue() != 1.0 {
		t.Errorf("expected 1 pending notification, got %f", gaugeMetric.Gauge.GetValue())
	}

	failedMetric := &dto.Metric{}
	if err := metrics.notifyFailed.Write(failedMetric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}

	if failedMetric.Counter.GetValue() != 1.0 {
		t.Errorf("expected 1 failed notification, got %f", failedMetric.Counter.GetValue())
	}
}

func TestRecordCreateDuration(t *testing.T) {
	metrics := newStoreMetricsWithRegisterer(prometheus.NewRegistry())

	metrics.RecordCreateDuration(100 * time.Millisecond)
	metrics.RecordCreateDuration(500 * time.Millisecond)
	metrics.RecordCreateDuration(1 * time.Second)

	metric := &dto.Metric{}
	if err := metrics.createDuration.Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}

	if metric.Histogram.GetSampleCount() != 3 {
		t.Errorf("expected 3 samples, got %d", metric.Histogram.GetSampleCount())
	}

	sum := metric.Histogram.GetSampleSum()
	if sum < 1.5 || sum > 1.7 {
		t.Errorf("expected sum around 1.6, got %f", sum)
	}
}

func TestRecordRequestDuration(t *testing.T) {
	metrics := newStoreMetricsWithRegisterer(prometheus.NewRegistry())

	metrics.RecordRequestDuration("POST", "/api/orders", "200", 50*time.Millisecond)
	metrics.RecordRequestDuration("GET", "/api/orders", "200", 10*time.Millisecond)
	metrics.RecordRequestDuration("POST", "/api/orders", "200", 30*time.Millisecond)

	observer := metrics.requestDuration.WithLabelValues("POST", "/api/orders", "200")

	metric := &dto.Metric{}
	if err := observer.(prometheus.Histogram).Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}

	if metric.Histogram.GetSampleCount() != 2 {
		t.Errorf("expected 2 samples for POST /api/orders, got %d", metric.Histogram.GetSampleCount())
	}
}
