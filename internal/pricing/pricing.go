// Package pricing реализует расчёт стоимости заказа:
// подытог, стоимость доставки по зоне и правило бесплатной доставки от двух штук.
package pricing

// Zone — тарифная зона доставки относительно Дакки.
type Zone string

const (
	ZoneInside  Zone = "inside"
	ZoneOutside Zone = "outside"
)

// Label возвращает человекочитаемую метку зоны для снимка заказа.
func (z Zone) Label() string {
	if z == ZoneInside {
		return "Inside Dhaka"
	}
	return "Outside Dhaka"
}

// Quantity — количество в форме заказа. Это закрытое перечисление {1, 2},
// а не произвольное целое: форма предлагает ровно два варианта.
type Quantity int32

const (
	QtyOne Quantity = 1
	QtyTwo Quantity = 2
)

// Valid проверяет, что количество входит в перечисление формы.
func (q Quantity) Valid() bool {
	return q == QtyOne || q == QtyTwo
}

// Тарифы доставки в таках.
const (
	insideCharge  = 60
	outsideCharge = 100
	// freeDeliveryMinQty — от скольких штук доставка бесплатна.
	freeDeliveryMinQty = 2
)

// Breakdown — результат расчёта. Все суммы в целых таках.
type Breakdown struct {
	Subtotal       int64
	DeliveryCharge int64
	Total          int64
	FreeDelivery   bool
}

// Quote считает стоимость заказа. Входы ограничены типами-перечислениями,
// ошибочных исходов нет; функция без побочных эффектов.
func Quote(unitPrice int64, qty Quantity, zone Zone) Breakdown {
	subtotal := unitPrice * int64(qty)

	free := int(qty) >= freeDeliveryMinQty
	var charge int64
	if !free {
		if zone == ZoneInside {
			charge = insideCharge
		} else {
			charge = outsideCharge
		}
	}

	return Breakdown{
		Subtotal:       subtotal,
		DeliveryCharge: charge,
		Total:          subtotal + charge,
		FreeDelivery:   free,
	}
}
