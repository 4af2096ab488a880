package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v3"
	"github.com/renaldyr/gigtix/internal/models"
	"github.com/renaldyr/gigtix/internal/repository"
	"github.com/renaldyr/gigtix/pkg/apperrors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const codeRetryLimit = 3

type IssuerService interface {
	// Issue creates one ticket per purchased unit and decrements each ticket
	// type's availability, atomically per order. It is idempotent: re-invoking
	// it only creates the shortfall between purchased quantity and tickets
	// already on record.
	Issue(ctx context.Context, order *models.Order) error
}

type IssuerServiceImpl struct {
	tx          repository.TxManager
	ticketTypes repository.TicketTypeRepository
	tickets     repository.TicketRepository
	shortfalls  repository.ShortfallRepository
	logger      *zap.Logger
	newCode     func() string
}

func NewIssuerService(
	tx repository.TxManager,
	ticketTypes repository.TicketTypeRepository,
	tickets repository.TicketRepository,
	shortfalls repository.ShortfallRepository,
	logger *zap.Logger,
) *IssuerServiceImpl {
	return &IssuerServiceImpl{
		tx:          tx,
		ticketTypes: ticketTypes,
		tickets:     tickets,
		shortfalls:  shortfalls,
		logger:      logger,
		newCode:     shortuuid.New,
	}
}

func (s *IssuerServiceImpl) Issue(ctx context.Context, order *models.Order) error {
	if order.Status != models.OrderStatusCompleted {
		return fmt.Errorf("order %s is %s: %w", order.ID, order.Status, apperrors.ErrInvalidState)
	}
	for _, item := range order.Items {
		if item.Quantity <= 0 {
			return fmt.Errorf("order item %s has quantity %d: %w", item.ID, item.Quantity, apperrors.ErrInvalidRequest)
		}
	}

	type pendingItem struct {
		item models.OrderItem
		need int
	}

	var oversold []models.InventoryShortfall

	err := s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		var pending []pendingItem
		needByType := make(map[uuid.UUID]int)

		for _, item := range order.Items {
			existing, err := s.tickets.CountForOrderItem(ctx, tx, item.ID)
			if err != nil {
				return err
			}
			need := item.Quantity - int(existing)
			if need <= 0 {
				continue
			}
			pending = append(pending, pendingItem{item: item, need: need})
			needByType[item.TicketTypeID] += need
		}

		typeIDs := make([]uuid.UUID, 0, len(needByType))
		for typeID := range needByType {
			typeIDs = append(typeIDs, typeID)
		}
		// Row locks are taken in id order so two multi-type orders sharing
		// ticket types cannot deadlock on opposite lock order.
		sort.Slice(typeIDs, func(i, j int) bool {
			return bytes.Compare(typeIDs[i][:], typeIDs[j][:]) < 0
		})

		// Decrement before inserting so a successful commit can never hold
		// more tickets than inventory. Collect every failing type rather than
		// stopping at the first; the rollback undoes partial decrements.
		for _, typeID := range typeIDs {
			need := needByType[typeID]
			ok, err := s.ticketTypes.DecrementAvailable(ctx, tx, typeID, need)
			if err != nil {
				return err
			}
			if !ok {
				oversold = append(oversold, models.InventoryShortfall{
					OrderID:      order.ID,
					TicketTypeID: typeID,
					Quantity:     need,
				})
			}
		}
		if len(oversold) > 0 {
			return apperrors.ErrOversellConflict
		}

		for _, p := range pending {
			for i := 0; i < p.need; i++ {
				if err := s.createTicket(ctx, tx, order, p.item); err != nil {
					return err
				}
			}
		}
		return nil
	})

	if errors.Is(err, apperrors.ErrOversellConflict) {
		// The payment already settled; the shortfall must not vanish. Record
		// it outside the rolled-back transaction for the refund process.
		for i := range oversold {
			if recordErr := s.shortfalls.Record(ctx, &oversold[i]); recordErr != nil {
				s.logger.Error("failed to record inventory shortfall",
					zap.String("order_id", order.ID.String()),
					zap.String("ticket_type_id", oversold[i].TicketTypeID.String()),
					zap.Int("quantity", oversold[i].Quantity),
					zap.Error(recordErr))
			}
		}
		s.logger.Error("oversell at issuance",
			zap.String("order_id", order.ID.String()),
			zap.Int("ticket_types", len(oversold)))
		return err
	}
	return err
}

func (s *IssuerServiceImpl) createTicket(ctx context.Context, tx *gorm.DB, order *models.Order, item models.OrderItem) error {
	for attempt := 0; attempt < codeRetryLimit; attempt++ {
		ticket := &models.Ticket{
			Code:         s.newCode(),
			Status:       models.TicketStatusValid,
			OrderID:      order.ID,
			OrderItemID:  item.ID,
			TicketTypeID: item.TicketTypeID,
			EventID:      order.EventID,
		}
		// Each attempt runs under its own savepoint. Postgres aborts the
		// surrounding transaction after a failed statement, so retrying a
		// collided insert directly could never succeed.
		err := s.tx.WithinSavepoint(ctx, tx, func(sp *gorm.DB) error {
			return s.tickets.Create(ctx, sp, ticket)
		})
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
	}
	return apperrors.ErrTicketCodeExhausted
}
