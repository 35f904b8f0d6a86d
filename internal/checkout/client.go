package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ryan24411390/clearr-vision-sub000/internal/domain"
)

// CustomerPayload — данные покупателя в запросе создания заказа.
type CustomerPayload struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city,omitempty"`
	Area    string `json:"area,omitempty"`
}

// ItemPayload — позиция заказа в запросе.
type ItemPayload struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     int64           `json:"price"`
	Quantity  int32           `json:"quantity"`
	Variant   *domain.Variant `json:"variant,omitempty"`
}

// OrderPayload — тело запроса POST /api/orders.
type OrderPayload struct {
	OrderType        domain.OrderType `json:"orderType"`
	Customer         CustomerPayload  `json:"customer"`
	DeliveryLocation string           `json:"deliveryLocation,omitempty"`
	Items            []ItemPayload    `json:"items"`
	Subtotal         int64            `json:"subtotal"`
	DeliveryCharge   int64            `json:"deliveryCharge"`
	Total            int64            `json:"total"`
	PaymentMethod    string           `json:"paymentMethod,omitempty"`
}

// SubmitResult — ответ сервера на успешное создание заказа.
type SubmitResult struct {
	OrderNumber string `json:"orderNumber"`
	OrderID     string `json:"orderId"`
}

// Submitter отправляет заказ на сервер.
type Submitter interface {
	Submit(ctx context.Context, payload OrderPayload) (SubmitResult, error)
}

// Receipt — локальный снимок успешно размещённого заказа
// для экрана подтверждения после редиректа.
type Receipt struct {
	OrderPayload
	OrderNumber string    `json:"orderNumber"`
	OrderDate   time.Time `json:"orderDate"`
}

// ReceiptStore сохраняет последний успешный заказ на стороне клиента.
type ReceiptStore interface {
	SaveLastOrder(receipt Receipt) error
}

const defaultSubmitTimeout = 15 * time.Second

// Client — HTTP-клиент создания заказов.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Entry
}

// NewClient создаёт клиента для API по базовому адресу магазина.
func NewClient(baseURL string, logger *log.Entry) *Client {
	if logger == nil {
		logger = log.WithField("component", "order-client")
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultSubmitTimeout},
		logger:     logger,
	}
}

// Submit отправляет заказ. Сообщение об ошибке сервера пробрасывается как есть,
// чтобы форма могла показать внятную причину.
func (c *Client) Submit(ctx context.Context, payload OrderPayload) (SubmitResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("encode order payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/orders", bytes.NewReader(body))
	if err != nil {
		return SubmitResult{}, fmt.Errorf("build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("submit order: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error != "" {
			return SubmitResult{}, fmt.Errorf("order rejected: %s", apiErr.Error)
		}
		return SubmitResult{}, fmt.Errorf("order rejected: status %d", resp.StatusCode)
	}

	var result struct {
		Success     bool   `json:"success"`
		OrderNumber string `json:"orderNumber"`
		OrderID     string `json:"orderId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return SubmitResult{}, fmt.Errorf("decode order response: %w", err)
	}
	if result.OrderNumber == "" {
		return SubmitResult{}, fmt.Errorf("order response missing order number")
	}

	c.logger.WithField("order_number", result.OrderNumber).Info("заказ принят сервером")
	return SubmitResult{OrderNumber: result.OrderNumber, OrderID: result.OrderID}, nil
}

var _ Submitter = (*Client)(nil)
