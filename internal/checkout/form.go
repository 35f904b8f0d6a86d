package checkout

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ryan24411390/clearr-vision-sub000/internal/cart"
	"github.com/ryan24411390/clearr-vision-sub000/internal/catalog"
	"github.com/ryan24411390/clearr-vision-sub000/internal/domain"
	"github.com/ryan24411390/clearr-vision-sub000/internal/pricing"
)

// FormDeps — зависимости формы заказа.
type FormDeps struct {
	Cart      *cart.Store
	Submitter Submitter
	Receipts  ReceiptStore
	Notices   NoticeSink
	Nav       Navigator
	Logger    *log.Entry
}

// Form — машина состояний формы заказа на странице товара.
// Жизненный цикл: редактирование -> валидация -> отправка -> успех,
// либо возврат в редактирование при ошибке отправки.
type Form struct {
	product catalog.Product

	quantity pricing.Quantity
	zone     pricing.Zone
	color    string
	power    string

	customerName string
	phoneNumber  string
	address      string

	errors  FieldErrors
	touched FieldTouched

	// Два независимых in-flight флага: добавление в корзину и отправка заказа.
	addingToCart    bool
	submittingOrder bool

	cart      *cart.Store
	submitter Submitter
	receipts  ReceiptStore
	notices   NoticeSink
	nav       Navigator
	logger    *log.Entry
	now       func() time.Time
}

// NewForm создаёт форму для товара. Значения по умолчанию совпадают с
// предзаполнением на странице: две штуки, доставка внутри Дакки.
func NewForm(product catalog.Product, deps FormDeps) *Form {
	logger := deps.Logger
	if logger == nil {
		logger = log.WithField("component", "order-form")
	}
	notices := deps.Notices
	if notices == nil {
		notices = NewLogNotices(logger)
	}
	nav := deps.Nav
	if nav == nil {
		nav = nopNavigator{}
	}
	receipts := deps.Receipts
	if receipts == nil {
		receipts = NewMemoryReceipts()
	}

	return &Form{
		product:   product,
		quantity:  pricing.QtyTwo,
		zone:      pricing.ZoneInside,
		cart:      deps.Cart,
		submitter: deps.Submitter,
		receipts:  receipts,
		notices:   notices,
		nav:       nav,
		logger:    logger,
		now:       time.Now,
	}
}

// SetQuantity меняет количество; значения вне перечисления игнорируются.
func (f *Form) SetQuantity(q pricing.Quantity) {
	if q.Valid() {
		f.quantity = q
	}
}

// SetZone меняет зону доставки.
func (f *Form) SetZone(z pricing.Zone) {
	if z == pricing.ZoneInside || z == pricing.ZoneOutside {
		f.zone = z
	}
}

// SetColor обновляет цвет и, если поле уже touched, сразу перевалидирует его —
// живая обратная связь после первого blur, но не раньше.
func (f *Form) SetColor(v string) { f.setField(FieldColor, v) }

// SetPower обновляет диоптрию.
func (f *Form) SetPower(v string) { f.setField(FieldPower, v) }

// SetCustomerName обновляет имя покупателя.
func (f *Form) SetCustomerName(v string) { f.setField(FieldCustomerName, v) }

// SetPhoneNumber обновляет телефон.
func (f *Form) SetPhoneNumber(v string) { f.setField(FieldPhoneNumber, v) }

// SetAddress обновляет адрес доставки.
func (f *Form) SetAddress(v string) { f.setField(FieldAddress, v) }

func (f *Form) setField(field Field, value string) {
	switch field {
	case FieldColor:
		f.color = value
	case FieldPower:
		f.power = value
	case FieldCustomerName:
		f.customerName = value
	case FieldPhoneNumber:
		f.phoneNumber = value
	case FieldAddress:
		f.address = value
	}

	if f.touched.Get(field) {
		f.errors.set(field, ValidateField(field, value))
	}
}

// HandleBlur отмечает поле touched и валидирует его безусловно.
func (f *Form) HandleBlur(field Field) {
	f.touched.set(field)
	f.errors.set(field, ValidateField(field, f.fieldValue(field)))
}

func (f *Form) fieldValue(field Field) string {
	switch field {
	case FieldColor:
		return f.color
	case FieldPower:
		return f.power
	case FieldCustomerName:
		return f.customerName
	case FieldPhoneNumber:
		return f.phoneNumber
	case FieldAddress:
		return f.address
	}
	return ""
}

// ValidateSelection валидирует выбор варианта (цвет и диоптрию), помечая оба
// поля touched. Ошибки записываются только для невалидных полей; валидные
// не трогаются.
func (f *Form) ValidateSelection() bool {
	ok := true
	for _, field := range []Field{FieldColor, FieldPower} {
		if msg := ValidateField(field, f.fieldValue(field)); msg != "" {
			f.errors.set(field, msg)
			ok = false
		}
	}
	f.touched.set(FieldColor)
	f.touched.set(FieldPower)

	if !ok {
		f.notices.Error("Please select all product options")
	}
	return ok
}

// ValidateCustomerDetails валидирует имя, телефон и адрес, помечая все три touched.
func (f *Form) ValidateCustomerDetails() bool {
	ok := true
	for _, field := range []Field{FieldCustomerName, FieldPhoneNumber, FieldAddress} {
		if msg := ValidateField(field, f.fieldValue(field)); msg != "" {
			f.errors.set(field, msg)
			ok = false
		}
	}
	f.touched.set(FieldCustomerName)
	f.touched.set(FieldPhoneNumber)
	f.touched.set(FieldAddress)

	if !ok {
		f.notices.Error("Please fill in all details correctly")
	}
	return ok
}

// Quote возвращает текущий расчёт стоимости по выбранным количеству и зоне.
func (f *Form) Quote() pricing.Breakdown {
	return pricing.Quote(f.product.Price, f.quantity, f.zone)
}

// VisibleError возвращает ошибку поля только если поле touched:
// ошибка никогда не показывается для нетронутого поля.
func (f *Form) VisibleError(field Field) string {
	if !f.touched.Get(field) {
		return ""
	}
	return f.errors.Get(field)
}

// Errors возвращает снимок карты ошибок.
func (f *Form) Errors() FieldErrors { return f.errors }

// Touched возвращает снимок touched-флагов.
func (f *Form) Touched() FieldTouched { return f.touched }

// AddingToCart сообщает, идёт ли добавление в корзину.
func (f *Form) AddingToCart() bool { return f.addingToCart }

// SubmittingOrder сообщает, идёт ли отправка заказа.
func (f *Form) SubmittingOrder() bool { return f.submittingOrder }

// AddToCart добавляет текущий выбор в корзину. Сетевых вызовов нет.
// Возвращает false, если выбор не прошёл валидацию.
func (f *Form) AddToCart() (bool, error) {
	if !f.ValidateSelection() {
		return false, nil
	}
	if f.cart == nil {
		return false, fmt.Errorf("cart store is not attached")
	}

	f.addingToCart = true
	defer func() { f.addingToCart = false }()

	item := cart.Item{
		ID:        cart.ItemID(f.product.ID, f.color, f.power),
		ProductID: f.product.ID,
		Name:      f.product.Name,
		Price:     f.product.Price,
		Image:     f.product.Image,
		Quantity:  int32(f.quantity),
		Variant:   &domain.Variant{Color: f.color, Power: f.power},
	}
	if err := f.cart.AddItem(item); err != nil {
		return false, err
	}

	f.notices.Success(
		"Added to cart!",
		fmt.Sprintf("%dx %s (%s, %s)", f.quantity, f.product.Name, f.color, f.power),
	)
	return true, nil
}

// PlaceOrder отправляет прямой заказ. Обе валидации выполняются всегда,
// без короткого замыкания, чтобы все ошибки появились разом.
// При неудачной отправке форма остаётся редактируемой.
// Возвращает nil, nil если валидация не прошла (ошибки видны на форме).
func (f *Form) PlaceOrder(ctx context.Context) (*SubmitResult, error) {
	selectionOK := f.ValidateSelection()
	detailsOK := f.ValidateCustomerDetails()
	if !selectionOK || !detailsOK {
		return nil, nil
	}

	f.submittingOrder = true

	quote := f.Quote()
	payload := OrderPayload{
		OrderType: domain.OrderTypeDirect,
		Customer: CustomerPayload{
			Name:    f.customerName,
			Phone:   f.phoneNumber,
			Address: f.address,
		},
		DeliveryLocation: f.zone.Label(),
		Items: []ItemPayload{
			{
				ProductID: f.product.ID,
				Name:      f.product.Name,
				Price:     f.product.Price,
				Quantity:  int32(f.quantity),
				Variant:   &domain.Variant{Color: f.color, Power: f.power},
			},
		},
		Subtotal:       quote.Subtotal,
		DeliveryCharge: quote.DeliveryCharge,
		Total:          quote.Total,
		PaymentMethod:  domain.PaymentMethodCOD,
	}

	result, err := f.submitter.Submit(ctx, payload)
	if err != nil {
		f.logger.WithError(err).Warn("отправка заказа не удалась")
		f.notices.Error("Failed to place order. Please try again.")
		// Возврат в редактирование, а не терминальное состояние.
		f.submittingOrder = false
		return nil, err
	}

	// Чек сохраняется только после подтверждённого успеха.
	receipt := Receipt{
		OrderPayload: payload,
		OrderNumber:  result.OrderNumber,
		OrderDate:    f.now().UTC(),
	}
	if err := f.receipts.SaveLastOrder(receipt); err != nil {
		f.logger.WithError(err).Warn("не удалось сохранить локальный чек")
	}

	f.notices.Success(
		"Order placed successfully! (অর্ডার সফল হয়েছে!)",
		fmt.Sprintf("Order #%s - We will contact you soon.", result.OrderNumber),
	)
	f.nav.GoTo("/order-success")

	return &result, nil
}
