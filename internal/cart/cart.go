// Package cart реализует корзину покупателя: коллекцию позиций с
// дедупликацией одинаковых вариантов и производными суммами.
// Состояние переживает перезапуск за счёт подключаемого backend:
// корзина гидрируется при создании и сохраняется после каждой мутации.
package cart

import (
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/ryan24411390/clearr-vision-sub000/internal/domain"
)

// Item — одна позиция корзины.
type Item struct {
	// ID детерминированно выводится из товара и варианта,
	// поэтому одинаковые варианты схлопываются в одну строку.
	ID        string          `json:"id"`
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     int64           `json:"price"`
	Image     string          `json:"image,omitempty"`
	Quantity  int32           `json:"quantity"`
	Variant   *domain.Variant `json:"variant,omitempty"`
}

// ItemID строит идентификатор строки корзины из товара и варианта.
func ItemID(productID, color, power string) string {
	return fmt.Sprintf("%s-%s-%s", productID, color, power)
}

// Backend отвечает за персистентность корзины.
type Backend interface {
	// Load возвращает сохранённые позиции (пустой срез, если корзины ещё нет).
	Load() ([]Item, error)
	// Save перезаписывает сохранённое состояние.
	Save(items []Item) error
}

// Store — корзина с явным владельцем и жизненным циклом; создаётся через
// NewStore и передаётся зависимостью, а не живёт глобальным синглтоном.
type Store struct {
	mu      sync.Mutex
	items   []Item
	backend Backend
	logger  *log.Entry
}

// NewStore гидрирует корзину из backend.
func NewStore(backend Backend, logger *log.Entry) (*Store, error) {
	if logger == nil {
		logger = log.WithField("component", "cart")
	}

	items, err := backend.Load()
	if err != nil {
		return nil, fmt.Errorf("hydrate cart: %w", err)
	}

	return &Store{
		items:   items,
		backend: backend,
		logger:  logger,
	}, nil
}

// AddItem добавляет позицию; если строка с тем же ID уже есть,
// количество увеличивается вместо создания дубликата.
func (s *Store) AddItem(item Item) error {
	if item.Quantity <= 0 {
		return domain.ErrItemQtyInvalid
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i].Quantity += item.Quantity
			return s.persistLocked()
		}
	}
	s.items = append(s.items, item)
	return s.persistLocked()
}

// RemoveItem удаляет строку по идентификатору. Отсутствующая строка не ошибка.
func (s *Store) RemoveItem(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[:0]
	for _, item := range s.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	s.items = kept
	return s.persistLocked()
}

// UpdateQuantity выставляет количество; значение <= 0 удаляет строку,
// количество никогда не опускается ниже единицы.
func (s *Store) UpdateQuantity(id string, quantity int32) error {
	if quantity <= 0 {
		return s.RemoveItem(id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Quantity = quantity
			break
		}
	}
	return s.persistLocked()
}

// Clear опустошает корзину (после успешного чекаута или по запросу).
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	return s.persistLocked()
}

// Items возвращает копию позиций.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Total — производная сумма корзины: Σ price × quantity.
// Считается от строк каждый раз, кэша нет.
func (s *Store) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total int64
	for _, item := range s.items {
		total += item.Price * int64(item.Quantity)
	}
	return total
}

// ItemCount — суммарное количество единиц товара в корзине.
func (s *Store) ItemCount() int32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int32
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

func (s *Store) persistLocked() error {
	snapshot := make([]Item, len(s.items))
	copy(snapshot, s.items)
	if err := s.backend.Save(snapshot); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}
