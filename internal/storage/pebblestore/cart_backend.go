// Package pebblestore — персистентный backend корзины на PebbleDB.
// Содержимое корзины переживает перезапуск процесса: состояние
// сериализуется в JSON под одним ключом и читается при старте.
package pebblestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/cockroachdb/pebble"

	"github.com/ryan24411390/clearr-vision-sub000/internal/cart"
)

// cartKey — единственный ключ с состоянием корзины.
var cartKey = []byte("cart/items")

// CartBackend реализует cart.Backend поверх Pebble.
type CartBackend struct {
	db *pebble.DB
}

// Open открывает (или создаёт) базу корзины в каталоге dir.
func Open(dir string) (*CartBackend, error) {
	db, err := pebble.Open(filepath.Clean(dir), &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open cart db: %w", err)
	}
	return &CartBackend{db: db}, nil
}

// Load читает сохранённые позиции. Отсутствие ключа — пустая корзина.
func (b *CartBackend) Load() ([]cart.Item, error) {
	raw, closer, err := b.db.Get(cartKey)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("read cart state: %w", err)
	}
	defer closer.Close()

	var items []cart.Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode cart state: %w", err)
	}
	return items, nil
}

// Save перезаписывает состояние корзины. Запись синхронная: потеря
// корзины при падении процесса раздражает сильнее, чем лишний fsync.
func (b *CartBackend) Save(items []cart.Item) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart state: %w", err)
	}
	if err := b.db.Set(cartKey, raw, pebble.Sync); err != nil {
		return fmt.Errorf("write cart state: %w", err)
	}
	return nil
}

// Close закрывает базу.
func (b *CartBackend) Close() error {
	return b.db.Close()
}

var _ cart.Backend = (*CartBackend)(nil)
