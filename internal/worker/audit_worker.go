package worker

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/storage"
)

// AuditStore is the repository slice the worker appends to.
type AuditStore interface {
	InsertAuditEvent(ctx context.Context, ev storage.TransactionEvent) error
}

// AuditWorker turns transaction event messages into audit trail rows.
type AuditWorker struct {
	store AuditStore
}

func NewAuditWorker(store AuditStore) *AuditWorker {
	return &AuditWorker{store: store}
}

// HandleEvent records one transaction event. Returning an error makes
// the consumer nack and requeue the delivery.
func (w *AuditWorker) HandleEvent(ctx context.Context, msg *amqp.TransactionEventMessage) error {
	if msg.Action != amqp.ActionCreated && msg.Action != amqp.ActionUpdated && msg.Action != amqp.ActionDeleted {
		return fmt.Errorf("unknown event action %q", msg.Action)
	}

	ev := storage.TransactionEvent{
		TransactionID: msg.TransactionID,
		UserID:        msg.UserID,
		Action:        msg.Action,
		OccurredAt:    msg.Timestamp,
	}
	if err := w.store.InsertAuditEvent(ctx, ev); err != nil {
		return fmt.Errorf("record audit event: %w", err)
	}

	slog.InfoContext(ctx, "Audit event recorded",
		"transaction_id", msg.TransactionID,
		"user_id", msg.UserID,
		"action", msg.Action)

	return nil
}
