// Package httpapi — REST-слой магазина: публичное создание заказа
// и админские ручки со статусами, заметками и аналитикой сессий.
package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/ryan24411390/clearr-vision-sub000/internal/domain"
	"github.com/ryan24411390/clearr-vision-sub000/internal/metrics"
	"github.com/ryan24411390/clearr-vision-sub000/internal/service/order"
)

// defaultPageLimit применяется, когда админка не передала limit.
const defaultPageLimit = 50

// Server связывает REST-ручки с сервисом заказов.
type Server struct {
	orders  *order.Service
	auth    *AdminAuth
	metrics *metrics.StoreMetrics
	logger  *log.Entry
}

// New создаёт сервер поверх сервиса заказов.
func New(orders *order.Service, auth *AdminAuth, logger *log.Entry) *Server {
	if logger == nil {
		logger = log.New().WithField("component", "http")
	}
	return &Server{
		orders:  orders,
		auth:    auth,
		metrics: metrics.NewStoreMetrics(),
		logger:  logger,
	}
}

// NewWithoutMetrics создаёт сервер без метрик (для тестов).
func NewWithoutMetrics(orders *order.Service, auth *AdminAuth, logger *log.Entry) *Server {
	if logger == nil {
		logger = log.New().WithField("component", "http")
	}
	return &Server{
		orders: orders,
		auth:   auth,
		logger: logger,
	}
}

// Router собирает gin-маршруты сервера.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger(), s.requestMetrics())

	api := r.Group("/api")
	{
		api.POST("/orders", s.handleCreateOrder)

		api.POST("/admin/auth", s.handleLogin)
		api.DELETE("/admin/auth", s.handleLogout)
		api.GET("/admin/auth", s.handleAuthStatus)

		admin := api.Group("", s.requireAdmin())
		{
			admin.GET("/orders", s.handleListOrders)
			admin.GET("/orders/:id", s.handleGetOrder)
			admin.PATCH("/orders/:id", s.handleUpdateOrder)
		}
	}

	return r
}

// requestLogger пишет строку на каждый запрос.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.WithFields(log.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Info("http request")
	}
}

// requestMetrics наблюдает длительность запросов по маршруту.
func (s *Server) requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.metrics == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		s.metrics.RecordRequestDuration(
			c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

// variantPayload повторяет форму варианта в JSON запроса.
type variantPayload struct {
	Color string `json:"color"`
	Power string `json:"power"`
}

type itemPayload struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     int64           `json:"price"`
	Quantity  int32           `json:"quantity"`
	Variant   *variantPayload `json:"variant,omitempty"`
}

type customerPayload struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	Area    string `json:"area"`
}

// createOrderRequest — тело POST /api/orders от витрины.
type createOrderRequest struct {
	OrderType        string          `json:"orderType"`
	Customer         customerPayload `json:"customer"`
	DeliveryLocation string          `json:"deliveryLocation"`
	Items            []itemPayload   `json:"items"`
	Subtotal         int64           `json:"subtotal"`
	DeliveryCharge   int64           `json:"deliveryCharge"`
	Total            int64           `json:"total"`
	PaymentMethod    string          `json:"paymentMethod"`
	Notes            string          `json:"notes"`
}

func (r createOrderRequest) toInput() order.CreateInput {
	items := make([]domain.OrderItem, 0, len(r.Items))
	for _, it := range r.Items {
		item := domain.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
		}
		if it.Variant != nil {
			item.Variant = &domain.Variant{Color: it.Variant.Color, Power: it.Variant.Power}
		}
		items = append(items, item)
	}

	return order.CreateInput{
		Type: domain.OrderType(r.OrderType),
		Customer: domain.Customer{
			Name:    r.Customer.Name,
			Phone:   r.Customer.Phone,
			Address: r.Customer.Address,
			City:    r.Customer.City,
			Area:    r.Customer.Area,
		},
		DeliveryLocation: r.DeliveryLocation,
		Items:            items,
		Subtotal:         r.Subtotal,
		DeliveryCharge:   r.DeliveryCharge,
		Total:            r.Total,
		PaymentMethod:    r.PaymentMethod,
		Notes:            r.Notes,
	}
}

// handleCreateOrder обрабатывает POST /api/orders.
func (s *Server) handleCreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	created, err := s.orders.Create(c.Request.Context(), req.toInput())
	if err != nil {
		var verr *order.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(verr)})
			return
		}
		s.logger.WithError(err).Error("order creation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"orderNumber": created.OrderNumber,
		"orderId":     created.ID,
	})
}

// validationMessage сводит нарушения инвариантов к сообщению для клиента.
func validationMessage(verr *order.ValidationError) string {
	switch {
	case verr.Has(domain.ErrCustomerNameRequired),
		verr.Has(domain.ErrCustomerPhoneRequired),
		verr.Has(domain.ErrCustomerAddressRequired):
		return "Missing required customer fields"
	case verr.Has(domain.ErrItemsRequired):
		return "Order must have at least one item"
	default:
		return verr.Error()
	}
}

// orderResponse — форма заказа в админских ответах.
type orderResponse struct {
	ID               string             `json:"id"`
	OrderNumber      string             `json:"order_number"`
	OrderType        string             `json:"order_type"`
	CustomerName     string             `json:"customer_name"`
	CustomerPhone    string             `json:"customer_phone"`
	CustomerAddress  string             `json:"customer_address"`
	CustomerCity     string             `json:"customer_city,omitempty"`
	CustomerArea     string             `json:"customer_area,omitempty"`
	DeliveryLocation string             `json:"delivery_location,omitempty"`
	Items            []domain.OrderItem `json:"items"`
	Subtotal         int64              `json:"subtotal"`
	DeliveryCharge   int64              `json:"delivery_charge"`
	Total            int64              `json:"total"`
	Status           string             `json:"status"`
	PaymentMethod    string             `json:"payment_method"`
	Notes            string             `json:"notes,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

func toOrderResponse(o domain.Order) orderResponse {
	return orderResponse{
		ID:               o.ID,
		OrderNumber:      o.OrderNumber,
		OrderType:        string(o.Type),
		CustomerName:     o.Customer.Name,
		CustomerPhone:    o.Customer.Phone,
		CustomerAddress:  o.Customer.Address,
		CustomerCity:     o.Customer.City,
		CustomerArea:     o.Customer.Area,
		DeliveryLocation: o.DeliveryLocation,
		Items:            o.Items,
		Subtotal:         o.Subtotal,
		DeliveryCharge:   o.DeliveryCharge,
		Total:            o.Total,
		Status:           string(o.Status),
		PaymentMethod:    o.PaymentMethod,
		Notes:            o.Notes,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}

// handleListOrders обрабатывает GET /api/orders: фильтр по статусу,
// пагинация, свежие первыми.
func (s *Server) handleListOrders(c *gin.Context) {
	filter := domain.OrderFilter{Limit: defaultPageLimit}

	if status := c.Query("status"); status != "" && status != "all" {
		filter.Status = domain.OrderStatus(status)
	}
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			filter.Limit = v
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			filter.Offset = v
		}
	}

	orders, total, err := s.orders.List(c.Request.Context(), filter)
	if err != nil {
		if errors.Is(err, domain.ErrStatusInvalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status filter"})
			return
		}
		s.logger.WithError(err).Error("failed to fetch orders")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	c.JSON(http.StatusOK, gin.H{"orders": out, "total": total})
}

// handleGetOrder обрабатывает GET /api/orders/:id.
func (s *Server) handleGetOrder(c *gin.Context) {
	o, err := s.orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		s.logger.WithError(err).Error("failed to fetch order")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(o))
}

// updateOrderRequest — тело PATCH /api/orders/:id. Разрешены только
// статус и заметки; остальные поля игнорируются.
type updateOrderRequest struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

// handleUpdateOrder обрабатывает PATCH /api/orders/:id.
func (s *Server) handleUpdateOrder(c *gin.Context) {
	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	upd := domain.OrderUpdate{Notes: req.Notes}
	if req.Status != nil {
		status := domain.OrderStatus(*req.Status)
		upd.Status = &status
	}

	o, err := s.orders.Update(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoUpdates):
			c.JSON(http.StatusBadRequest, gin.H{"error": "No valid updates provided"})
		case errors.Is(err, domain.ErrStatusInvalid):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown order status"})
		case errors.Is(err, domain.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		default:
			s.logger.WithError(err).Error("failed to update order")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		}
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(o))
}
