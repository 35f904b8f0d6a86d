package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ryan24411390/clearr-vision-sub000/internal/cart"
	"github.com/ryan24411390/clearr-vision-sub000/internal/domain"
)

// CheckoutDetails — форма покупателя на странице чекаута корзины.
type CheckoutDetails struct {
	FirstName string
	LastName  string
	Phone     string
	Address   string
	City      string
	Area      string
}

// CheckoutErrors — ошибки полей чекаута; пустая строка — поле корректно.
type CheckoutErrors struct {
	FirstName string
	LastName  string
	Phone     string
	Address   string
	City      string
	Area      string
}

// Any сообщает, есть ли хоть одна ошибка.
func (e CheckoutErrors) Any() bool {
	return e != CheckoutErrors{}
}

// ValidateCheckout валидирует все поля чекаута разом.
func ValidateCheckout(d CheckoutDetails) CheckoutErrors {
	var errs CheckoutErrors

	if strings.TrimSpace(d.FirstName) == "" {
		errs.FirstName = "First name is required"
	} else if len([]rune(strings.TrimSpace(d.FirstName))) < 2 {
		errs.FirstName = "First name must be at least 2 characters"
	}

	if strings.TrimSpace(d.LastName) == "" {
		errs.LastName = "Last name is required"
	} else if len([]rune(strings.TrimSpace(d.LastName))) < 2 {
		errs.LastName = "Last name must be at least 2 characters"
	}

	if strings.TrimSpace(d.Phone) == "" {
		errs.Phone = "Phone number is required"
	} else if !ValidPhone(d.Phone) {
		errs.Phone = "Enter a valid Bangladesh phone number (e.g., 01712345678)"
	}

	if strings.TrimSpace(d.Address) == "" {
		errs.Address = "Address is required"
	} else if len([]rune(strings.TrimSpace(d.Address))) < 10 {
		errs.Address = "Please enter a complete address"
	}

	if d.City == "" {
		errs.City = "City is required"
	}
	if strings.TrimSpace(d.Area) == "" {
		errs.Area = "Area/Thana is required"
	}

	return errs
}

// Checkout оформляет заказ из корзины (orderType = cart).
type Checkout struct {
	cart      *cart.Store
	submitter Submitter
	receipts  ReceiptStore
	notices   NoticeSink
	nav       Navigator
	logger    *log.Entry
	now       func() time.Time

	submitting bool
}

// NewCheckout собирает чекаут поверх корзины.
func NewCheckout(cartStore *cart.Store, deps FormDeps) *Checkout {
	logger := deps.Logger
	if logger == nil {
		logger = log.WithField("component", "checkout")
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

	return &Checkout{
		cart:      cartStore,
		submitter: deps.Submitter,
		receipts:  receipts,
		notices:   notices,
		nav:       nav,
		logger:    logger,
		now:       time.Now,
	}
}

// Submitting сообщает, идёт ли отправка.
func (c *Checkout) Submitting() bool { return c.submitting }

// PlaceOrder валидирует форму и отправляет заказ из корзины.
// Корзина очищается только после подтверждённого успеха.
// Возвращает nil, nil если форма или корзина не готовы (причина — в notices).
func (c *Checkout) PlaceOrder(ctx context.Context, details CheckoutDetails) (*SubmitResult, error) {
	if errs := ValidateCheckout(details); errs.Any() {
		c.notices.Error("Please fix the errors in the form")
		return nil, nil
	}

	items := c.cart.Items()
	if len(items) == 0 {
		c.notices.Error("Your cart is empty")
		return nil, nil
	}

	c.submitting = true

	payloadItems := make([]ItemPayload, 0, len(items))
	for _, item := range items {
		payloadItems = append(payloadItems, ItemPayload{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Variant:   item.Variant,
		})
	}

	total := c.cart.Total()
	payload := OrderPayload{
		OrderType: domain.OrderTypeCart,
		Customer: CustomerPayload{
			Name:    strings.TrimSpace(details.FirstName) + " " + strings.TrimSpace(details.LastName),
			Phone:   details.Phone,
			Address: details.Address,
			City:    details.City,
			Area:    details.Area,
		},
		Items:          payloadItems,
		Subtotal:       total,
		DeliveryCharge: 0,
		Total:          total,
		PaymentMethod:  domain.PaymentMethodCOD,
	}

	result, err := c.submitter.Submit(ctx, payload)
	if err != nil {
		c.logger.WithError(err).Warn("чекаут корзины не удался")
		c.notices.Error("Failed to place order. Please try again.")
		c.submitting = false
		return nil, err
	}

	if err := c.cart.Clear(); err != nil {
		c.logger.WithError(err).Warn("не удалось очистить корзину после заказа")
	}

	receipt := Receipt{
		OrderPayload: payload,
		OrderNumber:  result.OrderNumber,
		OrderDate:    c.now().UTC(),
	}
	if err := c.receipts.SaveLastOrder(receipt); err != nil {
		c.logger.WithError(err).Warn("не удалось сохранить локальный чек")
	}

	c.notices.Success("Order placed successfully!", fmt.Sprintf("Order #%s", result.OrderNumber))
	c.nav.GoTo("/order-success")

	return &result, nil
}
