package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/storage"
)

type fakeAuditStore struct {
	events []storage.TransactionEvent
	err    error
}

func (f *fakeAuditStore) InsertAuditEvent(ctx context.Context, ev storage.TransactionEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, ev)
	return nil
}

func TestHandleEvent(t *testing.T) {
	store := &fakeAuditStore{}
	w := NewAuditWorker(store)

	msg := &amqp.TransactionEventMessage{
		TransactionID: 7,
		UserID:        2,
		Action:        amqp.ActionCreated,
		Timestamp:     time.Now(),
	}
	if err := w.HandleEvent(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(store.events) != 1 {
		t.Fatalf("event not recorded")
	}
	ev := store.events[0]
	if ev.TransactionID != 7 || ev.UserID != 2 || ev.Action != amqp.ActionCreated {
		t.Fatalf("recorded wrong event: %+v", ev)
	}
}

func TestHandleEventRejectsUnknownAction(t *testing.T) {
	store := &fakeAuditStore{}
	w := NewAuditWorker(store)

	msg := &amqp.TransactionEventMessage{TransactionID: 1, UserID: 1, Action: "exploded"}
	if err := w.HandleEvent(context.Background(), msg); err == nil {
		t.Fatalf("expected error for unknown action")
	}
	if len(store.events) != 0 {
		t.Fatalf("unknown action must not be recorded")
	}
}

func TestHandleEventPropagatesStoreError(t *testing.T) {
	store := &fakeAuditStore{err: errors.New("disk full")}
	w := NewAuditWorker(store)

	msg := &amqp.TransactionEventMessage{TransactionID: 1, UserID: 1, Action: amqp.ActionDeleted}
	if err := w.HandleEvent(context.Background(), msg); err == nil {
		t.Fatalf("expected store error to propagate for requeue")
	}
}
