package domain

import "time"

// OrderStatus описывает жизненный цикл заказа в админке магазина.
type OrderStatus string

const (
	// OrderStatusPending — заказ создан, оператор ещё не связался с покупателем.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusConfirmed — заказ подтверждён по телефону.
	OrderStatusConfirmed OrderStatus = "confirmed"
	// OrderStatusProcessing — заказ собирается к отправке.
	OrderStatusProcessing OrderStatus = "processing"
	// OrderStatusShipped — заказ передан курьерской службе.
	OrderStatusShipped OrderStatus = "shipped"
	// OrderStatusDelivered — заказ доставлен и оплачен наложенным платежом.
	OrderStatusDelivered OrderStatus = "delivered"
	// OrderStatusCancelled — заказ отменён.
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid проверяет, что статус входит в известное множество.
// Переходы между статусами намеренно не ограничены: админка
// может выставить любой статус из любого.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderType различает заказ "в один клик" со страницы товара и заказ из корзины.
type OrderType string

const (
	OrderTypeDirect OrderType = "direct"
	OrderTypeCart   OrderType = "cart"
)

// PaymentMethodCOD — единственный поддерживаемый способ оплаты: наложенный платёж.
const PaymentMethodCOD = "COD"

// Variant фиксирует выбранный вариант товара. Для товаров с вариантами
// цвет и диоптрия обязательны вместе; товары без вариантов идут без Variant.
type Variant struct {
	Color string `json:"color"`
	Power string `json:"power"`
}

// OrderItem — снимок позиции на момент оформления. Последующие изменения
// каталога и цен не влияют на уже размещённый заказ.
type OrderItem struct {
	ProductID string   `json:"productId"`
	Name      string   `json:"name"`
	Price     int64    `json:"price"`
	Quantity  int32    `json:"quantity"`
	Variant   *Variant `json:"variant,omitempty"`
}

// Customer — снимок данных покупателя, введённых при оформлении.
// Город и район заполняются только на чекауте корзины.
type Customer struct {
	Name    string
	Phone   string
	Address string
	City    string
	Area    string
}

// Order агрегирует состояние заказа и снимок его позиций.
type Order struct {
	ID string
	// OrderNumber — человекочитаемый номер, который видит покупатель.
	OrderNumber      string
	Type             OrderType
	Customer         Customer
	DeliveryLocation string
	Items            []OrderItem
	Subtotal         int64
	DeliveryCharge   int64
	Total            int64
	Status           OrderStatus
	PaymentMethod    string
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
// Это серверная проверка, независимая от клиентской валидации формы.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.Customer.Name == "" {
		errs = append(errs, ErrCustomerNameRequired)
	}
	if o.Customer.Phone == "" {
		errs = append(errs, ErrCustomerPhoneRequired)
	}
	if o.Customer.Address == "" {
		errs = append(errs, ErrCustomerAddressRequired)
	}
	if len(o.Items) == 0 {
		errs = append(errs, ErrItemsRequired)
	}

	for _, item := range o.Items {
		if item.Quantity <= 0 {
			errs = append(errs, ErrItemQtyInvalid)
		}
		if item.Price < 0 {
			errs = append(errs, ErrItemPriceInvalid)
		}
	}

	if o.Subtotal < 0 || o.DeliveryCharge < 0 {
		errs = append(errs, ErrAmountNegative)
	}
	// На момент создания total обязан сходиться с subtotal + доставка.
	if o.Total != o.Subtotal+o.DeliveryCharge {
		errs = append(errs, ErrTotalMismatch)
	}

	return errs
}
