package domain

// OrderFilter задаёт параметры выборки заказов для админки.
type OrderFilter struct {
	// Status фильтрует по статусу; пустое значение означает "все".
	Status OrderStatus
	// Limit ограничивает размер страницы; <=0 трактуется как значение по умолчанию.
	Limit int
	// Offset — смещение страницы.
	Offset int
}

// OrderUpdate перечисляет поля, которые админка может менять у заказа.
// nil означает "не трогать".
type OrderUpdate struct {
	Status *OrderStatus
	Notes  *string
}

// Empty сообщает, что обновление не содержит ни одного поля.
func (u OrderUpdate) Empty() bool {
	return u.Status == nil && u.Notes == nil
}

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create сохраняет новый заказ. Возвращает ErrOrderNumberConflict,
	// если номер заказа уже занят.
	Create(order Order) error
	// Get возвращает заказ по идентификатору или ErrOrderNotFound, если его нет.
	Get(id string) (Order, error)
	// List возвращает страницу заказов (свежие первыми) и общее количество
	// строк, подходящих под фильтр.
	List(filter OrderFilter) ([]Order, int, error)
	// Update применяет частичное обновление и возвращает итоговую запись.
	// Поле updated_at обновляется на стороне хранилища.
	Update(id string, upd OrderUpdate) (Order, error)
}
