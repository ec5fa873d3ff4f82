package model

import "time"

// Activity event types emitted to the analytics sink.
const (
	ActivityPageView  = "page_view"
	ActivitySearch    = "search"
	ActivityAddToCart = "add_to_cart"
	ActivityOrder     = "order_placed"
)

// Activity is a best-effort behavioural event. It is never load-bearing:
// losing one must not affect any storefront operation.
type Activity struct {
	SessionID    string            `json:"sessionId" db:"session_id"`
	UserAgent    string            `json:"userAgent,omitempty" db:"user_agent"`
	IPAddress    string            `json:"ipAddress,omitempty" db:"ip_address"`
	ActivityType string            `json:"activityType" db:"activity_type"`
	PagePath     string            `json:"pagePath,omitempty" db:"page_path"`
	ProductID    string            `json:"productId,omitempty" db:"product_id"`
	ProductName  string            `json:"productName,omitempty" db:"product_name"`
	Metadata     map[string]string `json:"metadata,omitempty" db:"metadata"`
	Timestamp    time.Time         `json:"timestamp" db:"timestamp"`
}
