package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
)

// Store is the slice of the repository the service mutates through.
type Store interface {
	CreateTransaction(ctx context.Context, t core.Transaction) (int64, error)
	UpdateTransaction(ctx context.Context, id, userID int64, typ core.TransactionType, category, note string, amount decimal.Decimal) error
	DeleteTransaction(ctx context.Context, id, userID int64) error
}

// EventPublisher emits transaction mutation events for the audit
// worker. A nil publisher disables the event feed.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, msg *amqp.TransactionEventMessage) error
}

// TransactionService persists transaction mutations and publishes the
// matching audit events. Publishing is best-effort: the local write is
// the source of truth and a broker failure never fails the request.
type TransactionService struct {
	store  Store
	events EventPublisher
}

func NewTransactionService(store Store, events EventPublisher) *TransactionService {
	return &TransactionService{store: store, events: events}
}

// Create validates and saves a new transaction, then publishes a
// created event.
func (s *TransactionService) Create(ctx context.Context, t core.Transaction) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}

	id, err := s.store.CreateTransaction(ctx, t)
	if err != nil {
		return 0, fmt.Errorf("save transaction: %w", err)
	}

	s.publish(ctx, id, t.UserID, amqp.ActionCreated)
	return id, nil
}

// Update edits type, category, note and amount of an owned
// transaction. The type is normalized before storage the same way the
// add flow does it.
func (s *TransactionService) Update(ctx context.Context, id, userID int64, rawType, category, note string, amount decimal.Decimal) error {
	// Only the editable fields are validated; date and payment method
	// stay as stored.
	typ := core.NormalizeType(rawType)
	if typ != core.Income && typ != core.Expense {
		return core.ErrInvalidType
	}
	if strings.TrimSpace(category) == "" {
		return core.ErrEmptyCategory
	}
	if amount.IsNegative() {
		return core.ErrInvalidAmount
	}

	if err := s.store.UpdateTransaction(ctx, id, userID, typ, category, note, amount); err != nil {
		return err
	}

	s.publish(ctx, id, userID, amqp.ActionUpdated)
	return nil
}

// Delete removes an owned transaction irreversibly.
func (s *TransactionService) Delete(ctx context.Context, id, userID int64) error {
	if err := s.store.DeleteTransaction(ctx, id, userID); err != nil {
		return err
	}

	s.publish(ctx, id, userID, amqp.ActionDeleted)
	return nil
}

func (s *TransactionService) publish(ctx context.Context, id, userID int64, action string) {
	if s.events == nil {
		return
	}
	msg := amqp.NewTransactionEventMessage(id, userID, action)
	if err := s.events.PublishTransactionEvent(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"transaction_id", id, "action", action, "error", err)
	}
}
