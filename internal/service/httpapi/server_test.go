package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/ryan24411390/clearr-vision-sub000/internal/service/order"
	"github.com/ryan24411390/clearr-vision-sub000/internal/storage/memory"
)

func newTestServer(t *testing.T) (*Server, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := order.NewWithoutMetrics(memory.NewOrderRepository(), nil, nil)
	t.Cleanup(svc.Close)

	srv := NewWithoutMetrics(svc, NewAdminAuth("hunter2", "test-signing-secret"), nil)
	return srv, srv.Router()
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

// adminLogin выполняет вход и возвращает сессионную cookie.
func adminLogin(t *testing.T, router *gin.Engine) *http.Cookie {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/api/admin/auth", gin.H{"password": "hunter2"})
	require.Equal(t, http.StatusOK, w.Code)

	for _, c := range w.Result().Cookies() {
		if c.Name == adminCookie {
			require.True(t, c.HttpOnly)
			require.Equal(t, http.SameSiteStrictMode, c.SameSite)
			require.Equal(t, 86400, c.MaxAge)
			return c
		}
	}
	t.Fatal("admin_token cookie not set")
	return nil
}

func validOrderBody() gin.H {
	return gin.H{
		"orderType": "direct",
		"customer": gin.H{
			"name":    "Rahim Uddin",
			"phone":   "01712345678",
			"address": "House 12, Road 5, Dhanmondi, Dhaka",
		},
		"deliveryLocation": "inside",
		"items": []gin.H{
			{
				"productId": "V004",
				"name":      "Clearr V004",
				"price":     1190,
				"quantity":  2,
				"variant":   gin.H{"color": "Silver", "power": "+1.00"},
			},
		},
		"subtotal":       2380,
		"deliveryCharge": 0,
		"total":          2380,
		"paymentMethod":  "COD",
	}
}

func TestCreateOrderEndpoint(t *testing.T) {
	_, router := newTestServer(t)

	w := doJSON(t, router, http.MethodPost, "/api/orders", validOrderBody())
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	require.Equal(t, true, resp["success"])
	require.NotEmpty(t, resp["orderNumber"])
	require.NotEmpty(t, resp["orderId"])
}

func TestCreateOrderMissingCustomerFields(t *testing.T) {
	_, router := newTestServer(t)

	body := validOrderBody()
	body["customer"] = gin.H{"name": "", "phone": "01712345678", "address": "somewhere in Dhaka"}

	w := doJSON(t, router, http.MethodPost, "/api/orders", body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Missing required customer fields", decode(t, w)["error"])
}

func TestCreateOrderNoItems(t *testing.T) {
	_, router := newTestServer(t)

	body := validOrderBody()
	body["items"] = []gin.H{}
	body["subtotal"] = 0
	body["total"] = 0

	w := doJSON(t, router, http.MethodPost, "/api/orders", body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Order must have at least one item", decode(t, w)["error"])
}

func TestCreateOrderMalformedJSON(t *testing.T) {
	_, router := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminEndpointsRequireSession(t *testing.T) {
	_, router := newTestServer(t)

	for _, tc := range []struct {
		method, path string
	}{
		{http.MethodGet, "/api/orders"},
		{http.MethodGet, "/api/orders/some-id"},
		{http.MethodPatch, "/api/orders/some-id"},
	} {
		w := doJSON(t, router, tc.method, tc.path, nil)
		require.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.path)
		require.Equal(t, "Unauthorized", decode(t, w)["error"])
	}

	// Поддельная cookie тоже отклоняется.
	fake := &http.Cookie{Name: adminCookie, Value: "not-a-real-token"}
	w := doJSON(t, router, http.MethodGet, "/api/orders", nil, fake)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminLoginRejectsWrongPassword(t *testing.T) {
	_, router := newTestServer(t)

	w := doJSON(t, router, http.MethodPost, "/api/admin/auth", gin.H{"password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Invalid password", decode(t, w)["error"])
}

func TestAdminAuthStatus(t *testing.T) {
	_, router := newTestServer(t)

	w := doJSON(t, router, http.MethodGet, "/api/admin/auth", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, false, decode(t, w)["authenticated"])

	cookie := adminLogin(t, router)
	w = doJSON(t, router, http.MethodGet, "/api/admin/auth", nil, cookie)
	require.Equal(t, true, decode(t, w)["authenticated"])
}

func TestAdminLogoutClearsCookie(t *testing.T) {
	_, router := newTestServer(t)

	cookie := adminLogin(t, router)

	w := doJSON(t, router, http.MethodDelete, "/api/admin/auth", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	var cleared bool
	for _, c := range w.Result().Cookies() {
		if c.Name == adminCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	require.True(t, cleared, "logout must expire the session cookie")
}

func TestListOrders(t *testing.T) {
	_, router := newTestServer(t)
	cookie := adminLogin(t, router)

	for i := 0; i < 3; i++ {
		w := doJSON(t, router, http.MethodPost, "/api/orders", validOrderBody())
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(t, router, http.MethodGet, "/api/orders", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	require.EqualValues(t, 3, resp["total"])
	orders := resp["orders"].([]any)
	require.Len(t, orders, 3)

	first := orders[0].(map[string]any)
	require.Equal(t, "pending", first["status"])
	require.Equal(t, "Rahim Uddin", first["customer_name"])
	require.NotEmpty(t, first["order_number"])
	require.EqualValues(t, 2380, first["total"])

	// Пагинация и счётчик не зависят друг от друга.
	w = doJSON(t, router, http.MethodGet, "/api/orders?limit=2&offset=2", nil, cookie)
	resp = decode(t, w)
	require.EqualValues(t, 3, resp["total"])
	require.Len(t, resp["orders"].([]any), 1)
}

func TestListOrdersStatusFilter(t *testing.T) {
	_, router := newTestServer(t)
	cookie := adminLogin(t, router)

	w := doJSON(t, router, http.MethodPost, "/api/orders", validOrderBody())
	created := decode(t, w)
	orderID := created["orderId"].(string)

	w = doJSON(t, router, http.MethodPatch, "/api/orders/"+orderID, gin.H{"status": "confirmed"}, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/orders?status=confirmed", nil, cookie)
	resp := decode(t, w)
	require.EqualValues(t, 1, resp["total"])

	w = doJSON(t, router, http.MethodGet, "/api/orders?status=pending", nil, cookie)
	resp = decode(t, w)
	require.EqualValues(t, 0, resp["total"])

	// "all" эквивалентен отсутствию фильтра.
	w = doJSON(t, router, http.MethodGet, "/api/orders?status=all", nil, cookie)
	resp = decode(t, w)
	require.EqualValues(t, 1, resp["total"])
}

func TestGetOrder(t *testing.T) {
	_, router := newTestServer(t)
	cookie := adminLogin(t, router)

	w := doJSON(t, router, http.MethodPost, "/api/orders", validOrderBody())
	orderID := decode(t, w)["orderId"].(string)

	w = doJSON(t, router, http.MethodGet, "/api/orders/"+orderID, nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	require.Equal(t, orderID, resp["id"])
	require.Equal(t, "direct", resp["order_type"])
	require.Equal(t, "01712345678", resp["customer_phone"])

	w = doJSON(t, router, http.MethodGet, "/api/orders/missing-id", nil, cookie)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "Order not found", decode(t, w)["error"])
}

func TestUpdateOrder(t *testing.T) {
	_, router := newTestServer(t)
	cookie := adminLogin(t, router)

	w := doJSON(t, router, http.MethodPost, "/api/orders", validOrderBody())
	orderID := decode(t, w)["orderId"].(string)

	w = doJSON(t, router, http.MethodPatch, "/api/orders/"+orderID,
		gin.H{"status": "shipped", "notes": "courier picked up"}, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	require.Equal(t, "shipped", resp["status"])
	require.Equal(t, "courier picked up", resp["notes"])

	// Пустое обновление.
	w = doJSON(t, router, http.MethodPatch, "/api/orders/"+orderID, gin.H{}, cookie)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "No valid updates provided", decode(t, w)["error"])

	// Неизвестный статус.
	w = doJSON(t, router, http.MethodPatch, "/api/orders/"+orderID, gin.H{"status": "archived"}, cookie)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Возврат статуса назад разрешён.
	w = doJSON(t, router, http.MethodPatch, "/api/orders/"+orderID, gin.H{"status": "pending"}, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "pending", decode(t, w)["status"])

	w = doJSON(t, router, http.MethodPatch, "/api/orders/missing-id", gin.H{"status": "confirmed"}, cookie)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionTokenVerification(t *testing.T) {
	auth := NewAdminAuth("hunter2", "secret-a")

	token, err := auth.issueToken()
	require.NoError(t, err)
	require.True(t, auth.verifyToken(token))

	// Токен, подписанный другим ключом, отклоняется.
	other := NewAdminAuth("hunter2", "secret-b")
	require.False(t, other.verifyToken(token))

	require.False(t, auth.verifyToken("garbage"))
	require.False(t, auth.verifyToken(""))
}
