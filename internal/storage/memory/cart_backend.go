package memory

import (
	"sync"

	"github.com/ryan24411390/clearr-vision-sub000/internal/cart"
)

// cartBackendInMemory хранит корзину в памяти процесса; для тестов и разработки.
type cartBackendInMemory struct {
	mu    sync.Mutex
	items []cart.Item
}

// NewCartBackend возвращает непersistent backend корзины.
func NewCartBackend() cart.Backend {
	return &cartBackendInMemory{}
}

func (b *cartBackendInMemory) Load() ([]cart.Item, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]cart.Item, len(b.items))
	copy(out, b.items)
	return out, nil
}

func (b *cartBackendInMemory) Save(items []cart.Item) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.items = make([]cart.Item, len(items))
	copy(b.items, items)
	return nil
}

var _ cart.Backend = (*cartBackendInMemory)(nil)
