package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/ryan24411390/clearr-vision-sub000/internal/cart"
	"github.com/ryan24411390/clearr-vision-sub000/internal/catalog"
	"github.com/ryan24411390/clearr-vision-sub000/internal/checkout"
	"github.com/ryan24411390/clearr-vision-sub000/internal/domain"
	"github.com/ryan24411390/clearr-vision-sub000/internal/pricing"
	"github.com/ryan24411390/clearr-vision-sub000/internal/service/httpapi"
	"github.com/ryan24411390/clearr-vision-sub000/internal/service/order"
	"github.com/ryan24411390/clearr-vision-sub000/internal/storage/memory"
)

const adminPassword = "correct horse battery staple"

// OrderFlowTestSuite гоняет полный путь покупателя и админа через
// настоящий HTTP-сервер: форма товара, корзина, логин и бэк-офис.
type OrderFlowTestSuite struct {
	suite.Suite
	repo   domain.OrderRepository
	orders *order.Service
	server *httptest.Server
}

func (suite *OrderFlowTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	baseLogger := log.New()
	baseLogger.SetLevel(log.WarnLevel) // Уменьшаем шум в тестах
	logger := baseLogger.WithField("component", "integration-test")

	suite.repo = memory.NewOrderRepository()
	suite.orders = order.NewWithoutMetrics(suite.repo, nil, logger)

	srv := httpapi.NewWithoutMetrics(
		suite.orders,
		httpapi.NewAdminAuth(adminPassword, "integration-signing-secret"),
		logger,
	)
	suite.server = httptest.NewServer(srv.Router())
}

func (suite *OrderFlowTestSuite) TearDownTest() {
	suite.server.Close()
	suite.orders.Close()
}

// adminLogin логинится и возвращает cookie admin_token.
func (suite *OrderFlowTestSuite) adminLogin() *http.Cookie {
	resp := suite.postJSON("/api/admin/auth", map[string]string{"password": adminPassword})
	defer resp.Body.Close()
	require.Equal(suite.T(), http.StatusOK, resp.StatusCode)

	for _, c := range resp.Cookies() {
		if c.Name == "admin_token" {
			return c
		}
	}
	suite.T().Fatal("cookie admin_token не выставлена")
	return nil
}

func (suite *OrderFlowTestSuite) postJSON(path string, body any) *http.Response {
	raw, err := json.Marshal(body)
	require.NoError(suite.T(), err)

	resp, err := http.Post(suite.server.URL+path, "application/json", bytes.NewReader(raw))
	require.NoError(suite.T(), err)
	return resp
}

func (suite *OrderFlowTestSuite) adminGet(path string, token *http.Cookie) map[string]json.RawMessage {
	req, err := http.NewRequest(http.MethodGet, suite.server.URL+path, nil)
	require.NoError(suite.T(), err)
	req.AddCookie(token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(suite.T(), err)
	defer resp.Body.Close()
	require.Equal(suite.T(), http.StatusOK, resp.StatusCode)

	var payload map[string]json.RawMessage
	require.NoError(suite.T(), json.NewDecoder(resp.Body).Decode(&payload))
	return payload
}

func (suite *OrderFlowTestSuite) TestDirectOrderAppearsInBackOffice() {
	product, err := catalog.ByID("V004")
	require.NoError(suite.T(), err)

	form := checkout.NewForm(product, checkout.FormDeps{
		Submitter: checkout.NewClient(suite.server.URL, nil),
	})
	form.SetQuantity(pricing.QtyTwo)
	form.SetZone(pricing.ZoneInside)
	form.SetColor("Silver")
	form.SetPower("+1.00")
	form.SetCustomerName("Nusrat Jahan")
	form.SetPhoneNumber("01712345678")
	form.SetAddress("House 12, Road 5, Dhanmondi, Dhaka")

	quote := form.Quote()
	require.True(suite.T(), quote.FreeDelivery)
	require.Equal(suite.T(), quote.Subtotal, quote.Total)

	result, err := form.PlaceOrder(context.Background())
	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), result)
	require.NotEmpty(suite.T(), result.OrderNumber)
	require.Regexp(suite.T(), `^CLR-\d{8}-\d{6}$`, result.OrderNumber)

	token := suite.adminLogin()
	payload := suite.adminGet("/api/orders", token)

	var total int
	require.NoError(suite.T(), json.Unmarshal(payload["total"], &total))
	require.Equal(suite.T(), 1, total)

	var orders []struct {
		OrderNumber  string `json:"order_number"`
		OrderType    string `json:"order_type"`
		Status       string `json:"status"`
		CustomerName string `json:"customer_name"`
		Total        int64  `json:"total"`
	}
	require.NoError(suite.T(), json.Unmarshal(payload["orders"], &orders))
	require.Len(suite.T(), orders, 1)
	require.Equal(suite.T(), result.OrderNumber, orders[0].OrderNumber)
	require.Equal(suite.T(), string(domain.OrderTypeDirect), orders[0].OrderType)
	require.Equal(suite.T(), string(domain.OrderStatusPending), orders[0].Status)
	require.Equal(suite.T(), "Nusrat Jahan", orders[0].CustomerName)
	require.Equal(suite.T(), quote.Total, orders[0].Total)
}

func (suite *OrderFlowTestSuite) TestCartCheckoutClearsCartOnSuccess() {
	product, err := catalog.ByID("V004")
	require.NoError(suite.T(), err)

	cartStore, err := cart.NewStore(memory.NewCartBackend(), nil)
	require.NoError(suite.T(), err)
	require.NoError(suite.T(), cartStore.AddItem(cart.Item{
		ID:        cart.ItemID(product.ID, "Golden", "+2.00"),
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  1,
		Variant:   &domain.Variant{Color: "Golden", Power: "+2.00"},
	}))

	co := checkout.NewCheckout(cartStore, checkout.FormDeps{
		Submitter: checkout.NewClient(suite.server.URL, nil),
	})

	result, err := co.PlaceOrder(context.Background(), checkout.CheckoutDetails{
		FirstName: "Arif",
		LastName:  "Hossain",
		Phone:     "01898765432",
		Address:   "Flat 3B, Green Road",
		City:      "Dhaka",
		Area:      "Farmgate",
	})
	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), result)
	require.NotEmpty(suite.T(), result.OrderNumber)

	// Корзина очищается только после подтверждённого успеха.
	require.Empty(suite.T(), cartStore.Items())

	token := suite.adminLogin()
	payload := suite.adminGet("/api/orders?status=pending", token)

	var orders []struct {
		OrderNumber string `json:"order_number"`
		OrderType   string `json:"order_type"`
	}
	require.NoError(suite.T(), json.Unmarshal(payload["orders"], &orders))
	require.Len(suite.T(), orders, 1)
	require.Equal(suite.T(), result.OrderNumber, orders[0].OrderNumber)
	require.Equal(suite.T(), string(domain.OrderTypeCart), orders[0].OrderType)
}

func (suite *OrderFlowTestSuite) TestStatusUpdateVisibleToNextListing() {
	product, err := catalog.ByID("V001")
	require.NoError(suite.T(), err)

	form := checkout.NewForm(product, checkout.FormDeps{
		Submitter: checkout.NewClient(suite.server.URL, nil),
	})
	form.SetColor(product.AvailableColors[0])
	form.SetPower(product.AvailablePowers[0])
	form.SetCustomerName("Sadia Islam")
	form.SetPhoneNumber("01512340000")
	form.SetAddress("Mirpur 10, Dhaka")

	result, err := form.PlaceOrder(context.Background())
	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), result)

	token := suite.adminLogin()
	payload := suite.adminGet("/api/orders", token)

	var orders []struct {
		ID string `json:"id"`
	}
	require.NoError(suite.T(), json.Unmarshal(payload["orders"], &orders))
	require.Len(suite.T(), orders, 1)

	raw, err := json.Marshal(map[string]string{"status": string(domain.OrderStatusConfirmed)})
	require.NoError(suite.T(), err)
	req, err := http.NewRequest(http.MethodPatch, suite.server.URL+"/api/orders/"+orders[0].ID, bytes.NewReader(raw))
	require.NoError(suite.T(), err)
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(suite.T(), err)
	defer resp.Body.Close()
	require.Equal(suite.T(), http.StatusOK, resp.StatusCode)

	payload = suite.adminGet("/api/orders?status=confirmed", token)
	var confirmed []struct {
		Status string `json:"status"`
	}
	require.NoError(suite.T(), json.Unmarshal(payload["orders"], &confirmed))
	require.Len(suite.T(), confirmed, 1)
	require.Equal(suite.T(), string(domain.OrderStatusConfirmed), confirmed[0].Status)
}

func (suite *OrderFlowTestSuite) TestAdminEndpointsRejectAnonymous() {
	resp, err := http.Get(suite.server.URL + "/api/orders")
	require.NoError(suite.T(), err)
	defer resp.Body.Close()
	require.Equal(suite.T(), http.StatusUnauthorized, resp.StatusCode)
}

func TestOrderFlowTestSuite(t *testing.T) {
	suite.Run(t, new(OrderFlowTestSuite))
}
