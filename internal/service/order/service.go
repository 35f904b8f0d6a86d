// Package order реализует серверную логику размещения и администрирования заказов.
package order

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/ryan24411390/clearr-vision-sub000/internal/domain"
	"github.com/ryan24411390/clearr-vision-sub000/internal/metrics"
)

// ValidationError агрегирует нарушения инвариантов заказа.
// Ошибки этого типа транслируются в ответ 400.
type ValidationError struct {
	Errs []error
}

func (e *ValidationError) Error() string {
	if len(e.Errs) == 1 {
		return e.Errs[0].Error()
	}
	return fmt.Sprintf("order validation failed: %d problems, first: %v", len(e.Errs), e.Errs[0])
}

// Unwrap отдаёт первую причину, чтобы errors.Is работал с доменными sentinel-ошибками.
func (e *ValidationError) Unwrap() error {
	if len(e.Errs) == 0 {
		return nil
	}
	return e.Errs[0]
}

// Has проверяет наличие конкретного нарушения среди собранных.
func (e *ValidationError) Has(target error) bool {
	for _, err := range e.Errs {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

const (
	// numberPrefix — префикс человекочитаемых номеров заказов.
	numberPrefix = "CLR"
	// maxNumberRetries ограничивает повторы при коллизии номера.
	maxNumberRetries = 5
)

// Service — сервис заказов: создание с генерацией номера, выборка и
// частичное обновление для админки. Уведомление оператора уходит
// асинхронно и не влияет на результат создания.
type Service struct {
	repo     domain.OrderRepository
	notifier domain.Notifier
	metrics  *metrics.StoreMetrics
	logger   *log.Entry

	// now подменяется в тестах.
	now func() time.Time

	notifyWG sync.WaitGroup
}

// New создаёт рабочий экземпляр сервиса.
func New(repo domain.OrderRepository, notifier domain.Notifier, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "order-service")
	}
	return &Service{
		repo:     repo,
		notifier: notifier,
		metrics:  metrics.NewStoreMetrics(),
		logger:   logger,
		now:      time.Now,
	}
}

// NewWithoutMetrics создаёт сервис без метрик (для тестов).
func NewWithoutMetrics(repo domain.OrderRepository, notifier domain.Notifier, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "order-service")
	}
	return &Service{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateInput — данные нового заказа от публичного API.
// Номер, идентификатор, статус и временные метки назначает сервис.
type CreateInput struct {
	Type             domain.OrderType
	Customer         domain.Customer
	DeliveryLocation string
	Items            []domain.OrderItem
	Subtotal         int64
	DeliveryCharge   int64
	Total            int64
	PaymentMethod    string
	Notes            string
}

// Create валидирует входные данные, назначает номер и сохраняет заказ.
// При коллизии номера генерация повторяется; после успешной записи
// уведомление оператора отправляется в фоне.
func (s *Service) Create(ctx context.Context, in CreateInput) (domain.Order, error) {
	start := s.now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordCreateDuration(time.Since(start))
		}
	}()

	now := s.now().UTC()
	order := domain.Order{
		ID:               uuid.NewString(),
		Type:             in.Type,
		Customer:         in.Customer,
		DeliveryLocation: in.DeliveryLocation,
		Items:            in.Items,
		Subtotal:         in.Subtotal,
		DeliveryCharge:   in.DeliveryCharge,
		Total:            in.Total,
		Status:           domain.OrderStatusPending,
		PaymentMethod:    in.PaymentMethod,
		Notes:            in.Notes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if order.Type == "" {
		order.Type = domain.OrderTypeDirect
	}
	if order.PaymentMethod == "" {
		order.PaymentMethod = domain.PaymentMethodCOD
	}

	if errs := order.ValidateInvariants(); len(errs) > 0 {
		if s.metrics != nil {
			s.metrics.RecordOrderFailed()
		}
		return domain.Order{}, &ValidationError{Errs: errs}
	}

	var err error
	for attempt := 0; attempt < maxNumberRetries; attempt++ {
		if ctx.Err() != nil {
			return domain.Order{}, ctx.Err()
		}

		order.OrderNumber = s.generateNumber(now)
		err = s.repo.Create(order)
		if err == nil {
			break
		}
		if !domain.IsNumberConflict(err) {
			break
		}
		s.logger.WithField("order_number", order.OrderNumber).Warn("order number collision, retrying")
	}
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordOrderFailed()
		}
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordOrderCreated()
	}
	s.logger.WithFields(log.Fields{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"type":         string(order.Type),
		"total":        order.Total,
	}).Info("order created")

	s.notifyAsync(order)

	return order, nil
}

// notifyAsync отправляет уведомление оператору в отдельной горутине.
// Ошибка доставки логируется и учитывается в метриках, заказ при этом
// уже сохранён и не откатывается.
func (s *Service) notifyAsync(order domain.Order) {
	if s.notifier == nil {
		return
	}

	if s.metrics != nil {
		s.metrics.RecordNotificationStarted()
	}
	s.notifyWG.Add(1)
	go func() {
		defer s.notifyWG.Done()
		defer func() {
			if s.metrics != nil {
				s.metrics.RecordNotificationFinished()
			}
		}()

		if err := s.notifier.OrderPlaced(order); err != nil {
			if s.metrics != nil {
				s.metrics.RecordNotificationFailed()
			}
			s.logger.WithError(err).WithField("order_number", order.OrderNumber).
				Warn("operator notification failed")
		}
	}()
}

// Close дожидается завершения фоновых уведомлений. Вызывается при
// остановке приложения.
func (s *Service) Close() {
	s.notifyWG.Wait()
}

// Get возвращает заказ по идентификатору.
func (s *Service) Get(_ context.Context, id string) (domain.Order, error) {
	order, err := s.repo.Get(id)
	if err != nil {
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}

// List возвращает страницу заказов для админки, свежие первыми.
func (s *Service) List(_ context.Context, filter domain.OrderFilter) ([]domain.Order, int, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, fmt.Errorf("list orders: %w", domain.ErrStatusInvalid)
	}
	orders, total, err := s.repo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	return orders, total, nil
}

// Update применяет частичное обновление статуса и заметок.
func (s *Service) Update(_ context.Context, id string, upd domain.OrderUpdate) (domain.Order, error) {
	if upd.Empty() {
		return domain.Order{}, domain.ErrNoUpdates
	}
	if upd.Status != nil && !upd.Status.Valid() {
		return domain.Order{}, fmt.Errorf("update order: %w", domain.ErrStatusInvalid)
	}

	order, err := s.repo.Update(id, upd)
	if err != nil {
		return domain.Order{}, fmt.Errorf("update order: %w", err)
	}

	if upd.Status != nil {
		if s.metrics != nil {
			s.metrics.RecordStatusUpdate(string(*upd.Status))
		}
		s.logger.WithFields(log.Fields{
			"order_id": order.ID,
			"status":   string(order.Status),
		}).Info("order status updated")
	}

	return order, nil
}

// generateNumber собирает номер вида CLR-YYYYMMDD-NNNNNN со случайным суффиксом.
func (s *Service) generateNumber(now time.Time) string {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand на практике не отказывает; фолбэк на часы.
		binary.BigEndian.PutUint32(buf[:], uint32(s.now().UnixNano()))
	}
	suffix := binary.BigEndian.Uint32(buf[:]) % 1000000
	return fmt.Sprintf("%s-%s-%06d", numberPrefix, now.Format("20060102"), suffix)
}
