package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

func testRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedUser(t *testing.T, repo *SQLiteRepository) int64 {
	t.Helper()
	id, err := repo.CreateUser(context.Background(), "Test", "test@example.com", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return id
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	if _, err := repo.CreateUser(ctx, "A", "dup@example.com", "h1"); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := repo.CreateUser(ctx, "B", "dup@example.com", "h2")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
}

func TestGetUserByEmail(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	id := seedUser(t, repo)

	u, err := repo.GetUserByEmail(ctx, "test@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if u.ID != id || u.Name != "Test" || u.PasswordHash != "hash" {
		t.Fatalf("unexpected user: %+v", u)
	}

	if _, err := repo.GetUserByEmail(ctx, "missing@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestTransactionCRUD(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	userID := seedUser(t, repo)

	tx := core.Transaction{
		UserID:        userID,
		Type:          core.Income,
		Category:      "Salary",
		Amount:        decimal.RequireFromString("1234.56"),
		Date:          core.NewDate(2024, 1, 5),
		Note:          "January pay",
		PaymentMethod: core.PaymentUPI,
	}
	id, err := repo.CreateTransaction(ctx, tx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetTransaction(ctx, id, userID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Type != core.Income || !got.Amount.Equal(tx.Amount) || got.Date.String() != "2024-01-05" || got.Note != "January pay" {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	if err := repo.UpdateTransaction(ctx, id, userID, core.Expense, "Rent", "corrected", decimal.RequireFromString("900")); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err = repo.GetTransaction(ctx, id, userID)
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if got.Type != core.Expense || got.Category != "Rent" || !got.Amount.Equal(decimal.RequireFromString("900")) {
		t.Fatalf("update not applied: %+v", got)
	}
	// Date and payment method are not editable.
	if got.Date.String() != "2024-01-05" || got.PaymentMethod != core.PaymentUPI {
		t.Fatalf("update touched immutable fields: %+v", got)
	}

	if err := repo.DeleteTransaction(ctx, id, userID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetTransaction(ctx, id, userID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound after delete", err)
	}
}

func TestTransactionOwnershipScope(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	owner := seedUser(t, repo)
	other, err := repo.CreateUser(ctx, "Other", "other@example.com", "hash")
	if err != nil {
		t.Fatalf("create other user: %v", err)
	}

	id, err := repo.CreateTransaction(ctx, core.Transaction{
		UserID:   owner,
		Type:     core.Expense,
		Category: "Food",
		Amount:   decimal.RequireFromString("10"),
		Date:     core.NewDate(2024, 2, 1),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := repo.GetTransaction(ctx, id, other); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign get: err = %v, want ErrNotFound", err)
	}
	if err := repo.UpdateTransaction(ctx, id, other, core.Income, "x", "", decimal.Zero); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign update: err = %v, want ErrNotFound", err)
	}
	if err := repo.DeleteTransaction(ctx, id, other); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign delete: err = %v, want ErrNotFound", err)
	}
}

func TestListTransactionsOrder(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	userID := seedUser(t, repo)

	dates := []core.Date{
		core.NewDate(2024, 1, 5),
		core.NewDate(2024, 2, 1),
		core.NewDate(2024, 1, 6),
	}
	for _, d := range dates {
		_, err := repo.CreateTransaction(ctx, core.Transaction{
			UserID: userID, Type: core.Income, Category: "c",
			Amount: decimal.RequireFromString("1"), Date: d,
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	txs, err := repo.ListTransactions(ctx, userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 3 {
		t.Fatalf("len = %d, want 3", len(txs))
	}
	want := []string{"2024-02-01", "2024-01-06", "2024-01-05"}
	for i, w := range want {
		if txs[i].Date.String() != w {
			t.Fatalf("position %d date = %s, want %s", i, txs[i].Date.String(), w)
		}
	}

	n, err := repo.CountTransactions(ctx, userID)
	if err != nil || n != 3 {
		t.Fatalf("count = %d (err=%v), want 3", n, err)
	}
}

func TestInsertAuditEvent(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	ev := TransactionEvent{TransactionID: 1, UserID: 2, Action: "created", OccurredAt: time.Now()}
	if err := repo.InsertAuditEvent(ctx, ev); err != nil {
		t.Fatalf("insert event: %v", err)
	}
	n, err := repo.CountAuditEvents(ctx, 1)
	if err != nil || n != 1 {
		t.Fatalf("count = %d (err=%v), want 1", n, err)
	}
}

func TestRunMigrationsKeepsConnectionOpen(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	if err := RunMigrations(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// Re-running against an up-to-date schema is a no-op.
	if err := RunMigrations(db); err != nil {
		t.Fatalf("second migrate: %v", err)
	}

	// The caller's connection must survive the migration run.
	if err := db.Ping(); err != nil {
		t.Fatalf("ping after migrate: %v", err)
	}
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&n); err != nil {
		t.Fatalf("query migrated schema: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected empty users table, got %d rows", n)
	}
}
