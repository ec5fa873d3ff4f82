package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON            = "INVALID_JSON"
	ErrCodeInvalidCartLine        = "INVALID_CART_LINE"
	ErrCodeInvalidContactInfo     = "INVALID_CONTACT_INFO"
	ErrCodeProductsUnavailable    = "PRODUCTS_UNAVAILABLE"
	ErrCodeOutOfStock             = "OUT_OF_STOCK"
	ErrCodeOrderCreateFailed      = "ORDER_CREATE_FAILED"
	ErrCodeOrderItemsInsertFailed = "ORDER_ITEMS_INSERT_FAILED"
	ErrCodeCheckoutInProgress     = "CHECKOUT_IN_PROGRESS"
	ErrCodeProductNotFound        = "PRODUCT_NOT_FOUND"
	ErrCodeOrderNotFound          = "ORDER_NOT_FOUND"
	ErrCodeInvalidQuantity        = "INVALID_QUANTITY"
	ErrCodeBackendError           = "BACKEND_ERROR"
	ErrCodeInternalError          = "INTERNAL_ERROR"
)

// DomainError carries a business rejection with a stable code. Details
// lists the affected products for the rejections that name them.
type DomainError struct {
	Code    string
	Message string
	Details []string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error carrying the given detail
// lines.
func (e *DomainError) WithDetails(details ...string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
	}
}

// Common domain errors
var (
	ErrInvalidCartLine     = NewDomainError(ErrCodeInvalidCartLine, "Cart contains an invalid line")
	ErrInvalidContactInfo  = NewDomainError(ErrCodeInvalidContactInfo, "Customer name, phone and address are required")
	ErrProductsUnavailable = NewDomainError(ErrCodeProductsUnavailable, "Some products are no longer available and were removed from the cart")
	ErrOutOfStock          = NewDomainError(ErrCodeOutOfStock, "Insufficient stock for some products")
	ErrOrderCreateFailed   = NewDomainError(ErrCodeOrderCreateFailed, "Order could not be created")
	ErrOrderItemsFailed    = NewDomainError(ErrCodeOrderItemsInsertFailed, "Order items could not be saved; the order was rolled back")
	ErrCheckoutInProgress  = NewDomainError(ErrCodeCheckoutInProgress, "A checkout is already in progress for this session")
	ErrProductNotFound     = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrInvalidQuantity     = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
)
