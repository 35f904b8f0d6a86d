package domain

import "errors"

var (
	// Ошибка отсутствующего имени покупателя.
	ErrCustomerNameRequired = errors.New("customer name is required")
	// Ошибка отсутствующего телефона покупателя.
	ErrCustomerPhoneRequired = errors.New("customer phone is required")
	// Ошибка отсутствующего адреса доставки.
	ErrCustomerAddressRequired = errors.New("customer address is required")
	// Ошибка отсутствия хотя бы одного товара в заказе.
	ErrItemsRequired = errors.New("order must contain at least one item")
	// Ошибка при некорректном количестве товара (<= 0).
	ErrItemQtyInvalid = errors.New("item quantity must be greater than zero")
	// Ошибка, если цена позиции отрицательная.
	ErrItemPriceInvalid = errors.New("item price must be non-negative")
	// Ошибка отрицательной суммы заказа или доставки.
	ErrAmountNegative = errors.New("order amounts must be non-negative")
	// Ошибка несоответствия total сумме subtotal + delivery_charge.
	ErrTotalMismatch = errors.New("order total does not match subtotal plus delivery charge")
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderNumberConflict — сгенерированный номер заказа уже занят;
	// сервис генерирует новый и повторяет вставку.
	ErrOrderNumberConflict = errors.New("order number already taken")
	// ErrStatusInvalid — статус вне известного множества.
	ErrStatusInvalid = errors.New("unknown order status")
	// ErrNoUpdates — в PATCH-запросе не оказалось ни одного допустимого поля.
	ErrNoUpdates = errors.New("no valid updates provided")
)

// IsNumberConflict проверяет, является ли ошибка конфликтом номера заказа.
func IsNumberConflict(err error) bool {
	return errors.Is(err, ErrOrderNumberConflict)
}
