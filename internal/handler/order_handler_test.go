package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"storefront/internal/model"
)

// MockOrderService is a mock implementation of service.OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*model.Order), args.Get(1).([]model.OrderItem), args.Error(2)
}

func TestOrderHandler_GetByID(t *testing.T) {
	orderID := uuid.New()
	order := &model.Order{
		ID:           orderID,
		CustomerName: "Jordan Lee",
		TotalAmount:  decimal.NewFromInt(80),
		Status:       model.OrderStatusPending,
	}
	items := []model.OrderItem{
		{ID: uuid.New(), OrderID: orderID, ProductID: "P1", Quantity: 2, Price: decimal.NewFromInt(10)},
	}

	tests := []struct {
		name           string
		method         string
		path           string
		mockOrder      *model.Order
		mockItems      []model.OrderItem
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{
			name:           "Success",
			method:         http.MethodGet,
			path:           "/api/orders/" + orderID.String(),
			mockOrder:      order,
			mockItems:      items,
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Order not found",
			method:         http.MethodGet,
			path:           "/api/orders/" + uuid.New().String(),
			expectedStatus: http.StatusNotFound,
			expectService:  true,
		},
		{
			name:           "Malformed order ID",
			method:         http.MethodGet,
			path:           "/api/orders/not-a-uuid",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Missing order ID",
			method:         http.MethodGet,
			path:           "/api/orders/",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Service error",
			method:         http.MethodGet,
			path:           "/api/orders/" + orderID.String(),
			mockError:      errors.New("database error"),
			expectedStatus: http.StatusInternalServerError,
			expectService:  true,
		},
		{
			name:           "Method not allowed",
			method:         http.MethodPost,
			path:           "/api/orders/" + orderID.String(),
			expectedStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockOrderService)
			if tt.expectService {
				if tt.mockError != nil {
					mockService.On("GetByID", mock.Anything, mock.Anything).Return(nil, nil, tt.mockError)
				} else if tt.mockOrder != nil {
					mockService.On("GetByID", mock.Anything, orderID).Return(tt.mockOrder, tt.mockItems, nil)
				} else {
					mockService.On("GetByID", mock.Anything, mock.Anything).Return(nil, nil, nil)
				}
			}

			h := NewOrderHandler(mockService, zerolog.Nop())

			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()
			h.GetByID(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Contains(t, w.Body.String(), "Jordan Lee")
				assert.Contains(t, w.Body.String(), "P1")
			}
			if tt.expectedStatus == http.StatusNotFound {
				assert.Contains(t, w.Body.String(), model.ErrCodeOrderNotFound)
			}
			mockService.AssertExpectations(t)
		})
	}
}
