package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"storefront/internal/cart"
	"storefront/internal/model"
	"storefront/internal/repository"
)

// phonePattern is deliberately permissive: digits plus the separators
// customers actually type.
var phonePattern = regexp.MustCompile(`^[0-9+\-\s()]+$`)

// checkoutService implements CheckoutService.
//
// A submission walks Validating -> Submitting -> Confirmed, or rejects
// back to Idle. There is no transaction spanning the order and item
// inserts; the compensating delete in Submit is the only consistency
// safeguard, so it must run on every item-insert failure.
type checkoutService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	cartStore   cart.Store
	charges     model.DeliveryCharges
	logger      zerolog.Logger

	// One submission in flight per session, mirroring the client's
	// resubmission lock.
	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewCheckoutService creates a new checkout service. The delivery
// charges are resolved once at construction; overrides from the store
// replace the built-in defaults per location type.
func NewCheckoutService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	cartStore cart.Store,
	overrides model.DeliveryCharges,
	logger zerolog.Logger,
) CheckoutService {
	charges := model.DefaultDeliveryCharges()
	for location, charge := range overrides {
		charges[location] = charge
	}

	return &checkoutService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		cartStore:   cartStore,
		charges:     charges,
		logger:      logger.With().Str("service", "checkout").Logger(),
		inFlight:    make(map[string]struct{}),
	}
}

// Charges returns the effective delivery charges.
func (s *checkoutService) Charges() model.DeliveryCharges {
	out := model.DeliveryCharges{}
	for location, charge := range s.charges {
		out[location] = charge
	}
	return out
}

// Submit runs the checkout reconciliation and order submission.
func (s *checkoutService) Submit(ctx context.Context, sessionID string, contact model.ContactInfo) (*model.CheckoutResult, error) {
	if !s.begin(sessionID) {
		return nil, model.ErrCheckoutInProgress
	}
	defer s.end(sessionID)

	c, err := s.cartStore.Get(ctx, sessionID)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to load cart for checkout")
		return nil, model.NewDomainError(model.ErrCodeBackendError, "Could not load the cart")
	}

	if err := validateLines(c); err != nil {
		return nil, err
	}
	if err := validateContact(contact); err != nil {
		return nil, err
	}

	lines, infoByID, err := s.reconcile(ctx, sessionID, c)
	if err != nil {
		return nil, err
	}

	return s.submitOrder(ctx, sessionID, contact, lines, infoByID)
}

func (s *checkoutService) begin(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[sessionID]; busy {
		return false
	}
	s.inFlight[sessionID] = struct{}{}
	return true
}

func (s *checkoutService) end(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, sessionID)
}

// validateLines checks the cart's own integrity before touching the
// backend.
func validateLines(c model.Cart) error {
	if c.IsEmpty() {
		return model.ErrInvalidCartLine.WithDetails("cart is empty")
	}

	for _, line := range c.Lines {
		switch {
		case line.ProductID == "" || line.Name == "":
			return model.ErrInvalidCartLine.WithDetails("a cart line is missing its product identity")
		case line.Quantity <= 0:
			return model.ErrInvalidCartLine.WithDetails(fmt.Sprintf("%s has a non-positive quantity", line.Name))
		case !line.Price.IsPositive():
			return model.ErrInvalidCartLine.WithDetails(fmt.Sprintf("%s has a non-positive price", line.Name))
		}
	}
	return nil
}

func validateContact(contact model.ContactInfo) error {
	var problems []string
	if strings.TrimSpace(contact.CustomerName) == "" {
		problems = append(problems, "name is required")
	}
	if strings.TrimSpace(contact.Address) == "" {
		problems = append(problems, "address is required")
	}
	phone := strings.TrimSpace(contact.Phone)
	if phone == "" {
		problems = append(problems, "phone is required")
	} else if !phonePattern.MatchString(phone) {
		problems = append(problems, "phone may only contain digits, spaces, +, - and parentheses")
	}
	if !contact.LocationType.Valid() {
		problems = append(problems, "location type must be inside or outside")
	}

	if len(problems) > 0 {
		return model.ErrInvalidContactInfo.WithDetails(problems...)
	}
	return nil
}

// reconcile checks every cart line against the live catalogue. Lines
// whose product no longer exists are removed from the cart before the
// rejection is returned, so a retry is immediately possible; short
// stock rejects without mutating the cart, since only the customer can
// decide how to adjust quantities.
func (s *checkoutService) reconcile(ctx context.Context, sessionID string, c model.Cart) ([]model.CartLine, map[string]model.StockInfo, error) {
	ids := make([]string, len(c.Lines))
	for i, line := range c.Lines {
		ids[i] = line.ProductID
	}

	infos, err := s.productRepo.GetStockInfo(ctx, ids)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to fetch live stock")
		return nil, nil, model.NewDomainError(model.ErrCodeBackendError, "Could not verify stock")
	}

	infoByID := make(map[string]model.StockInfo, len(infos))
	for _, info := range infos {
		infoByID[info.ID] = info
	}

	if len(infoByID) != len(c.Lines) {
		var missingNames []string
		for _, line := range c.Lines {
			if _, ok := infoByID[line.ProductID]; !ok {
				missingNames = append(missingNames, line.Name)
				if _, err := s.cartStore.RemoveItem(ctx, sessionID, line.ProductID); err != nil {
					s.logger.Error().
						Err(err).
						Str("session_id", sessionID).
						Str("product_id", line.ProductID).
						Msg("failed to drop unavailable product from cart")
				}
			}
		}

		s.logger.Warn().
			Str("session_id", sessionID).
			Strs("missing", missingNames).
			Msg("cart referenced unavailable products")
		return nil, nil, model.ErrProductsUnavailable.WithDetails(missingNames...)
	}

	var short []string
	for _, line := range c.Lines {
		info := infoByID[line.ProductID]
		if info.Stock < line.Quantity {
			short = append(short, fmt.Sprintf("%s (only %d available)", info.Name, info.Stock))
		}
	}
	if len(short) > 0 {
		s.logger.Warn().
			Str("session_id", sessionID).
			Strs("short", short).
			Msg("cart exceeds available stock")
		return nil, nil, model.ErrOutOfStock.WithDetails(short...)
	}

	return c.Lines, infoByID, nil
}

// submitOrder persists the order and its items, compensating on
// partial failure, and clears the cart on full success.
func (s *checkoutService) submitOrder(
	ctx context.Context,
	sessionID string,
	contact model.ContactInfo,
	lines []model.CartLine,
	infoByID map[string]model.StockInfo,
) (*model.CheckoutResult, error) {
	charge := s.charges[contact.LocationType]

	total := decimal.Zero
	items := make([]model.OrderItem, 0, len(lines))
	for _, line := range lines {
		// Snapshot the live price, not the add-time one.
		unit := infoByID[line.ProductID].Price.Round(2)
		total = total.Add(unit.Mul(decimal.NewFromInt(int64(line.Quantity))))
		items = append(items, model.OrderItem{
			ID:        uuid.New(),
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     unit,
		})
	}
	total = total.Add(charge).Round(2)

	if len(items) == 0 {
		// Unreachable after validation, kept as the final guard: an
		// order with no items must never be persisted.
		return nil, model.ErrOrderCreateFailed
	}

	order := &model.Order{
		ID:           uuid.New(),
		CustomerName: strings.TrimSpace(contact.CustomerName),
		Phone:        strings.TrimSpace(contact.Phone),
		Address:      strings.TrimSpace(contact.Address),
		LocationType: contact.LocationType,
		TotalAmount:  total,
		Status:       model.OrderStatusPending,
		CreatedAt:    time.Now(),
	}

	if err := s.orderRepo.CreateOrder(ctx, order); err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("order insert failed")
		return nil, model.ErrOrderCreateFailed
	}

	for i := range items {
		items[i].OrderID = order.ID
	}

	if err := s.orderRepo.CreateOrderItems(ctx, items); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("order items insert failed, deleting order")

		if delErr := s.orderRepo.DeleteOrder(ctx, order.ID); delErr != nil {
			// The compensating delete itself failed: the order row
			// is orphaned and needs manual cleanup.
			s.logger.Error().
				Err(delErr).
				Str("order_id", order.ID.String()).
				Msg("compensating delete failed")
		}
		return nil, model.ErrOrderItemsFailed
	}

	for _, item := range items {
		ok, err := s.productRepo.DecrementStock(ctx, item.ProductID, item.Quantity)
		if err != nil || !ok {
			// The order stands either way; stock drift is corrected
			// by the next reconciliation against live rows.
			s.logger.Warn().
				Err(err).
				Str("order_id", order.ID.String()).
				Str("product_id", item.ProductID).
				Msg("stock decrement did not apply")
		}
	}

	if err := s.cartStore.Clear(ctx, sessionID); err != nil {
		s.logger.Warn().
			Err(err).
			Str("session_id", sessionID).
			Str("order_id", order.ID.String()).
			Msg("failed to clear cart after order")
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("session_id", sessionID).
		Int("item_count", len(items)).
		Str("total", total.String()).
		Msg("order confirmed")

	return &model.CheckoutResult{
		OrderID:        order.ID,
		TotalAmount:    total,
		DeliveryCharge: charge,
		Items:          items,
	}, nil
}
