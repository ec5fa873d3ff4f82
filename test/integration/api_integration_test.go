package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront/internal/analytics"
	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/handler"
	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestServer(t *testing.T, testDB *TestDB) http.Handler {
	t.Helper()

	logger := zerolog.Nop()

	// Initialize repositories
	productRepo := repository.NewProductRepository(testDB.Pool, logger)
	orderRepo := repository.NewOrderRepository(testDB.Pool, logger)

	// Carts live in process memory for the test server
	cartStore := cart.NewMemoryStore()
	emitter := analytics.NewNopEmitter()

	// Initialize services
	productService := service.NewProductService(productRepo, logger)
	cartService := service.NewCartService(cartStore, productRepo, logger)
	checkoutService := service.NewCheckoutService(orderRepo, productRepo, cartStore, nil, logger)
	orderService := service.NewOrderService(orderRepo, logger)

	// Initialize handlers
	productHandler := handler.NewProductHandler(productService, emitter, logger)
	cartHandler := handler.NewCartHandler(cartService, emitter, logger)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, emitter, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)

	// Create router
	return router.New(productHandler, cartHandler, checkoutHandler, orderHandler, logger)
}

// session tracks the visitor cookie across requests the way a browser
// would.
type session struct {
	server http.Handler
	cookie *http.Cookie
}

func (s *session) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if s.cookie != nil {
		req.AddCookie(s.cookie)
	}

	w := httptest.NewRecorder()
	s.server.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			s.cookie = c
		}
	}
	return w
}

func TestProductAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	t.Run("GET /api/products returns catalogue page", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		s := &session{server: server}
		w := s.do(t, http.MethodGet, "/api/products", "")

		assert.Equal(t, http.StatusOK, w.Code)

		var page catalog.Page
		require.NoError(t, json.NewDecoder(w.Body).Decode(&page))
		assert.Equal(t, 5, page.TotalItems)
		assert.Equal(t, 1, page.TotalPages)
		require.Len(t, page.Items, 5)
		// priority ordering: explicit priorities first
		assert.Equal(t, "P001", page.Items[0].ID)
	})

	t.Run("GET /api/products with query filters", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		s := &session{server: server}
		w := s.do(t, http.MethodGet, "/api/products?query=Product+3", "")

		assert.Equal(t, http.StatusOK, w.Code)

		var page catalog.Page
		require.NoError(t, json.NewDecoder(w.Body).Decode(&page))
		require.Len(t, page.Items, 1)
		assert.Equal(t, "P003", page.Items[0].ID)
	})

	t.Run("GET /api/products/{id} returns specific product", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		s := &session{server: server}
		w := s.do(t, http.MethodGet, "/api/products/P001", "")

		assert.Equal(t, http.StatusOK, w.Code)

		var product model.Product
		require.NoError(t, json.NewDecoder(w.Body).Decode(&product))
		assert.Equal(t, "P001", product.ID)
		assert.Equal(t, "Test Product 1", product.Name)
		assert.Len(t, product.Media, 2)
	})

	t.Run("GET /api/products/{id} returns 404 for non-existent product", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		s := &session{server: server}
		w := s.do(t, http.MethodGet, "/api/products/P999", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("GET /health returns 200", func(t *testing.T) {
		s := &session{server: server}
		w := s.do(t, http.MethodGet, "/health", "")

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestCartAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	t.Run("cart flow across one session", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		s := &session{server: server}

		// Empty cart at first
		w := s.do(t, http.MethodGet, "/api/cart", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"totalPrice":"0"`)
		require.NotNil(t, s.cookie, "first request assigns a session cookie")

		// Add twice; lines merge
		w = s.do(t, http.MethodPost, "/api/cart/items", `{"productId":"P001","quantity":1}`)
		assert.Equal(t, http.StatusOK, w.Code)
		w = s.do(t, http.MethodPost, "/api/cart/items", `{"productId":"P001","quantity":2}`)
		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Lines      []model.CartLine `json:"lines"`
			TotalPrice string           `json:"totalPrice"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		require.Len(t, resp.Lines, 1)
		assert.Equal(t, 3, resp.Lines[0].Quantity)
		assert.Equal(t, "30", resp.TotalPrice)

		// Update quantity down to zero removes the line
		w = s.do(t, http.MethodPut, "/api/cart/items/P001", `{"quantity":0}`)
		assert.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Empty(t, resp.Lines)
	})

	t.Run("carts are isolated per session", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		first := &session{server: server}
		w := first.do(t, http.MethodPost, "/api/cart/items", `{"productId":"P001","quantity":1}`)
		assert.Equal(t, http.StatusOK, w.Code)

		second := &session{server: server}
		w = second.do(t, http.MethodGet, "/api/cart", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"totalPrice":"0"`)
	})

	t.Run("adding unknown product returns 404", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		s := &session{server: server}
		w := s.do(t, http.MethodPost, "/api/cart/items", `{"productId":"P999","quantity":1}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), model.ErrCodeProductNotFound)
	})
}

func TestCheckoutAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	contactBody := `{"customerName":"Jordan Lee","phone":"01712345678","address":"12 Harbour Road","locationType":"inside"}`

	t.Run("POST /api/checkout confirms order and clears cart", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		s := &session{server: server}
		w := s.do(t, http.MethodPost, "/api/cart/items", `{"productId":"P001","quantity":2}`)
		require.Equal(t, http.StatusOK, w.Code)

		w = s.do(t, http.MethodPost, "/api/checkout", contactBody)
		assert.Equal(t, http.StatusCreated, w.Code)

		var result model.CheckoutResult
		require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
		// 2 x 10.00 plus the inside delivery charge
		assert.Equal(t, "80", result.TotalAmount.String())
		require.Len(t, result.Items, 1)

		// The order landed in the store
		var count int
		err := testDB.Pool.QueryRow(context.Background(), `SELECT COUNT(*) FROM orders`).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		// Stock was decremented
		err = testDB.Pool.QueryRow(context.Background(), `SELECT stock FROM products WHERE id = 'P001'`).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 8, count)

		// The cart is empty afterwards
		w = s.do(t, http.MethodGet, "/api/cart", "")
		assert.Contains(t, w.Body.String(), `"totalPrice":"0"`)
	})

	t.Run("POST /api/checkout rejects empty cart", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		s := &session{server: server}
		w := s.do(t, http.MethodPost, "/api/checkout", contactBody)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), model.ErrCodeInvalidCartLine)
	})

	t.Run("POST /api/checkout rejects short stock without order", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		s := &session{server: server}
		// P005 has stock 2
		w := s.do(t, http.MethodPost, "/api/cart/items", `{"productId":"P005","quantity":3}`)
		require.Equal(t, http.StatusOK, w.Code)

		w = s.do(t, http.MethodPost, "/api/checkout", contactBody)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), model.ErrCodeOutOfStock)
		assert.Contains(t, w.Body.String(), "Test Product 5")

		var count int
		err := testDB.Pool.QueryRow(context.Background(), `SELECT COUNT(*) FROM orders`).Scan(&count)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("POST /api/checkout drops vanished products from cart", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		s := &session{server: server}
		w := s.do(t, http.MethodPost, "/api/cart/items", `{"productId":"P004","quantity":1}`)
		require.Equal(t, http.StatusOK, w.Code)

		// The product disappears between add and checkout
		_, err := testDB.Pool.Exec(context.Background(), `DELETE FROM products WHERE id = 'P004'`)
		require.NoError(t, err)

		w = s.do(t, http.MethodPost, "/api/checkout", contactBody)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), model.ErrCodeProductsUnavailable)

		// The stale line was removed from the session cart
		w = s.do(t, http.MethodGet, "/api/cart", "")
		assert.Contains(t, w.Body.String(), `"totalPrice":"0"`)
	})

	t.Run("POST /api/checkout rejects invalid contact", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		s := &session{server: server}
		w := s.do(t, http.MethodPost, "/api/cart/items", `{"productId":"P001","quantity":1}`)
		require.Equal(t, http.StatusOK, w.Code)

		w = s.do(t, http.MethodPost, "/api/checkout", `{"customerName":"","phone":"","address":"","locationType":"inside"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), model.ErrCodeInvalidContactInfo)
	})

	t.Run("GET /api/orders/{id} returns the confirmed order", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		s := &session{server: server}
		w := s.do(t, http.MethodPost, "/api/cart/items", `{"productId":"P002","quantity":1}`)
		require.Equal(t, http.StatusOK, w.Code)

		w = s.do(t, http.MethodPost, "/api/checkout", contactBody)
		require.Equal(t, http.StatusCreated, w.Code)

		var result model.CheckoutResult
		require.NoError(t, json.NewDecoder(w.Body).Decode(&result))

		w = s.do(t, http.MethodGet, "/api/orders/"+result.OrderID.String(), "")
		assert.Equal(t, http.StatusOK, w.Code)

		var confirmation struct {
			model.Order
			Items []model.OrderItem `json:"items"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&confirmation))
		assert.Equal(t, result.OrderID, confirmation.ID)
		assert.Equal(t, "Jordan Lee", confirmation.CustomerName)
		require.Len(t, confirmation.Items, 1)
		assert.Equal(t, "P002", confirmation.Items[0].ProductID)
	})

	t.Run("GET /api/orders/{id} returns 404 for unknown order", func(t *testing.T) {
		s := &session{server: server}
		w := s.do(t, http.MethodGet, "/api/orders/00000000-0000-0000-0000-000000000001", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("GET /api/delivery-charges returns defaults", func(t *testing.T) {
		s := &session{server: server}
		w := s.do(t, http.MethodGet, "/api/delivery-charges", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"inside":"60"`)
		assert.Contains(t, w.Body.String(), `"outside":"120"`)
	})
}

func TestCORS_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	t.Run("OPTIONS request returns CORS headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "GET")
	})
}
