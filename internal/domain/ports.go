package domain

// Notifier уведомляет оператора магазина о новом заказе.
// Вызов best-effort: ошибка логируется и никогда не влияет на создание заказа.
type Notifier interface {
	OrderPlaced(order Order) error
}
