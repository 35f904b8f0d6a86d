// Package catalog содержит справочник товаров магазина.
// Каталог статичен: он загружается вместе с бинарём и не меняется в рантайме.
package catalog

import "errors"

// ErrProductNotFound возвращается, если товара нет в справочнике.
var ErrProductNotFound = errors.New("product not found")

// Product — карточка товара. Цены хранятся в целых таках.
type Product struct {
	ID            string
	Name          string
	Slug          string
	Price         int64
	OriginalPrice int64
	Discount      string
	Category      string
	Description   string
	Image         string
	// AvailableColors и AvailablePowers непусты для любого товара,
	// доступного к заказу.
	AvailableColors []string
	AvailablePowers []string
	IsOnSale        bool
	Reviews         int
}

// Orderable сообщает, можно ли оформить заказ на товар:
// у него должны быть варианты цвета и диоптрий.
func (p Product) Orderable() bool {
	return len(p.AvailableColors) > 0 && len(p.AvailablePowers) > 0
}

// HasColor проверяет, что цвет есть в списке доступных.
func (p Product) HasColor(color string) bool {
	for _, c := range p.AvailableColors {
		if c == color {
			return true
		}
	}
	return false
}

// HasPower проверяет, что диоптрия есть в списке доступных.
func (p Product) HasPower(power string) bool {
	for _, v := range p.AvailablePowers {
		if v == power {
			return true
		}
	}
	return false
}

// Products возвращает копию списка товаров.
func Products() []Product {
	out := make([]Product, len(products))
	copy(out, products)
	return out
}

// ByID ищет товар по идентификатору.
func ByID(id string) (Product, error) {
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrProductNotFound
}

// BySlug ищет товар по slug страницы.
func BySlug(slug string) (Product, error) {
	for _, p := range products {
		if p.Slug == slug {
			return p, nil
		}
	}
	return Product{}, ErrProductNotFound
}
