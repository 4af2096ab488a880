package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/renaldyr/gigtix/config"
	"github.com/renaldyr/gigtix/internal/models"
	"github.com/renaldyr/gigtix/internal/payment"
	"github.com/renaldyr/gigtix/internal/repository"
	"github.com/renaldyr/gigtix/pkg/apperrors"
	"go.uber.org/zap"
)

type CheckoutRequest struct {
	EventID    uuid.UUID
	Selections map[uuid.UUID]int
}

type CheckoutResult struct {
	OrderID   uuid.UUID
	SessionID string
	URL       string
}

// InventoryShortage reports one ticket type that could not satisfy the
// requested quantity, so buyers can adjust per line.
type InventoryShortage struct {
	TicketTypeID uuid.UUID `json:"ticketTypeId"`
	Requested    int       `json:"requested"`
	Available    int       `json:"available"`
}

type InsufficientInventoryError struct {
	Shortages []InventoryShortage
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("insufficient inventory for %d ticket type(s)", len(e.Shortages))
}

func (e *InsufficientInventoryError) Unwrap() error {
	return apperrors.ErrInsufficientInventory
}

type CheckoutService interface {
	// CreateSession validates availability, persists the pending order with
	// its line items and requests a hosted payment session. Availability is
	// checked but never decremented here; the decrement happens at issuance.
	CreateSession(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*CheckoutResult, error)
}

type CheckoutServiceImpl struct {
	events  repository.EventRepository
	orders  repository.OrderRepository
	users   repository.UserRepository
	gateway payment.Gateway
	cfg     *config.CheckoutConfig
	logger  *zap.Logger
}

func NewCheckoutService(
	events repository.EventRepository,
	orders repository.OrderRepository,
	users repository.UserRepository,
	gateway payment.Gateway,
	cfg *config.CheckoutConfig,
	logger *zap.Logger,
) CheckoutService {
	return &CheckoutServiceImpl{
		events:  events,
		orders:  orders,
		users:   users,
		gateway: gateway,
		cfg:     cfg,
		logger:  logger,
	}
}

func (s *CheckoutServiceImpl) CreateSession(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*CheckoutResult, error) {
	if len(req.Selections) == 0 {
		return nil, fmt.Errorf("empty ticket selection: %w", apperrors.ErrInvalidRequest)
	}
	for _, quantity := range req.Selections {
		if quantity <= 0 {
			return nil, fmt.Errorf("quantities must be positive: %w", apperrors.ErrInvalidRequest)
		}
	}

	event, err := s.events.FindPublishedWithTicketTypes(ctx, req.EventID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	typesByID := make(map[uuid.UUID]*models.TicketType, len(event.TicketTypes))
	for i := range event.TicketTypes {
		typesByID[event.TicketTypes[i].ID] = &event.TicketTypes[i]
	}

	// All-or-nothing: collect every shortage before rejecting so the buyer
	// can fix the whole selection at once. A ticket type that does not
	// belong to the event counts as zero availability.
	var shortages []InventoryShortage
	for typeID, quantity := range req.Selections {
		ticketType, ok := typesByID[typeID]
		if !ok {
			shortages = append(shortages, InventoryShortage{TicketTypeID: typeID, Requested: quantity})
			continue
		}
		if ticketType.Available < quantity {
			shortages = append(shortages, InventoryShortage{
				TicketTypeID: typeID,
				Requested:    quantity,
				Available:    ticketType.Available,
			})
		}
	}
	if len(shortages) > 0 {
		return nil, &InsufficientInventoryError{Shortages: shortages}
	}

	var (
		items []models.OrderItem
		lines []payment.SessionLine
	)
	for typeID, quantity := range req.Selections {
		ticketType := typesByID[typeID]
		items = append(items, models.OrderItem{
			TicketTypeID:   typeID,
			Quantity:       quantity,
			UnitPriceCents: ticketType.PriceCents,
		})
		lines = append(lines, payment.SessionLine{
			Name:           fmt.Sprintf("%s - %s", event.Title, ticketType.Name),
			UnitPriceCents: ticketType.PriceCents,
			Quantity:       quantity,
		})
	}

	pricingLines := make([]PricingLine, 0, len(items))
	for _, item := range items {
		pricingLines = append(pricingLines, PricingLine{
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
		})
	}
	subtotal := Subtotal(pricingLines)
	fee := ServiceFee(subtotal, s.cfg.FeeBasisPoints)

	order := &models.Order{
		Status:        models.OrderStatusPending,
		SubtotalCents: subtotal,
		FeeCents:      fee,
		TotalCents:    subtotal + fee,
		Currency:      s.cfg.Currency,
		UserID:        userID,
		EventID:       event.ID,
		Items:         items,
	}
	if err := s.orders.CreateWithItems(ctx, order); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}

	gatewayCtx, cancel := context.WithTimeout(ctx, s.cfg.GatewayTimeout)
	defer cancel()

	session, err := s.gateway.CreateSession(gatewayCtx, payment.CreateSessionInput{
		ReferenceID:        order.ID.String(),
		Currency:           order.Currency,
		Lines:              lines,
		FeeCents:           fee,
		TotalCents:         order.TotalCents,
		PayerEmail:         user.Email,
		Description:        fmt.Sprintf("Tickets for %s", event.Title),
		SuccessRedirectURL: s.cfg.SuccessRedirectURL,
		FailureRedirectURL: s.cfg.FailureRedirectURL,
		ExpiresIn:          s.cfg.InvoiceDuration,
	})
	if err != nil {
		// The pending order is left behind on purpose: it can never reach
		// completed without a payment session, and the invoice-expiry
		// callback path never sees it, so it is inert.
		s.logger.Warn("payment session creation failed",
			zap.String("order_id", order.ID.String()),
			zap.Error(err))
		return nil, err
	}

	if err := s.orders.SetPaymentSession(ctx, order.ID, session.ID); err != nil {
		return nil, fmt.Errorf("store payment session: %w", err)
	}

	return &CheckoutResult{
		OrderID:   order.ID,
		SessionID: session.ID,
		URL:       session.URL,
	}, nil
}
