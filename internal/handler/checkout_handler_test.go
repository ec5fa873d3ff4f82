package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront/internal/model"
)

// MockCheckoutService is a mock implementation of service.CheckoutService.
type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) Submit(ctx context.Context, sessionID string, contact model.ContactInfo) (*model.CheckoutResult, error) {
	args := m.Called(ctx, sessionID, contact)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CheckoutResult), args.Error(1)
}

func (m *MockCheckoutService) Charges() model.DeliveryCharges {
	args := m.Called()
	return args.Get(0).(model.DeliveryCharges)
}

func TestCheckoutHandler_Submit(t *testing.T) {
	validBody := `{"customerName":"Jordan Lee","phone":"01712345678","address":"12 Harbour Road","locationType":"inside"}`

	result := &model.CheckoutResult{
		OrderID:        uuid.New(),
		TotalAmount:    decimal.NewFromInt(80),
		DeliveryCharge: decimal.NewFromInt(60),
	}

	tests := []struct {
		name           string
		method         string
		body           string
		mockResult     *model.CheckoutResult
		mockError      error
		expectedStatus int
		expectService  bool
		expectedCode   string
	}{
		{
			name:           "Success",
			method:         http.MethodPost,
			body:           validBody,
			mockResult:     result,
			expectedStatus: http.StatusCreated,
			expectService:  true,
		},
		{
			name:           "Malformed body",
			method:         http.MethodPost,
			body:           `{"customerName":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Method not allowed",
			method:         http.MethodGet,
			body:           "",
			expectedStatus: http.StatusMethodNotAllowed,
		},
		{
			name:           "Invalid contact info",
			method:         http.MethodPost,
			body:           validBody,
			mockError:      model.ErrInvalidContactInfo.WithDetails("phone is required"),
			expectedStatus: http.StatusBadRequest,
			expectService:  true,
			expectedCode:   model.ErrCodeInvalidContactInfo,
		},
		{
			name:           "Products unavailable",
			method:         http.MethodPost,
			body:           validBody,
			mockError:      model.ErrProductsUnavailable.WithDetails("Ceramic Mug"),
			expectedStatus: http.StatusConflict,
			expectService:  true,
			expectedCode:   model.ErrCodeProductsUnavailable,
		},
		{
			name:           "Out of stock",
			method:         http.MethodPost,
			body:           validBody,
			mockError:      model.ErrOutOfStock.WithDetails("Ceramic Mug (only 2 available)"),
			expectedStatus: http.StatusConflict,
			expectService:  true,
			expectedCode:   model.ErrCodeOutOfStock,
		},
		{
			name:           "Checkout already in progress",
			method:         http.MethodPost,
			body:           validBody,
			mockError:      model.ErrCheckoutInProgress,
			expectedStatus: http.StatusConflict,
			expectService:  true,
			expectedCode:   model.ErrCodeCheckoutInProgress,
		},
		{
			name:           "Order persistence failure",
			method:         http.MethodPost,
			body:           validBody,
			mockError:      model.ErrOrderItemsFailed,
			expectedStatus: http.StatusBadGateway,
			expectService:  true,
			expectedCode:   model.ErrCodeOrderItemsInsertFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockCheckoutService)
			if tt.expectService {
				if tt.mockError != nil {
					mockService.On("Submit", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.mockError)
				} else {
					mockService.On("Submit", mock.Anything, mock.Anything, mock.Anything).Return(tt.mockResult, nil)
				}
			}

			emitter := &recordingEmitter{}
			h := NewCheckoutHandler(mockService, emitter, zerolog.Nop())

			req := httptest.NewRequest(tt.method, "/api/checkout", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			h.Submit(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				assert.Contains(t, w.Body.String(), tt.expectedCode)
			}
			if tt.expectedStatus == http.StatusCreated {
				events := emitter.recorded()
				require.Len(t, events, 1)
				assert.Equal(t, model.ActivityOrder, events[0].ActivityType)
				assert.Equal(t, tt.mockResult.OrderID.String(), events[0].Metadata["order_id"])
			} else {
				assert.Empty(t, emitter.recorded(), "rejections must not emit order events")
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestCheckoutHandler_Charges(t *testing.T) {
	mockService := new(MockCheckoutService)
	mockService.On("Charges").Return(model.DefaultDeliveryCharges())

	h := NewCheckoutHandler(mockService, &recordingEmitter{}, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/delivery-charges", nil)
	w := httptest.NewRecorder()
	h.Charges(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"inside":"60"`)
	assert.Contains(t, w.Body.String(), `"outside":"120"`)
}
