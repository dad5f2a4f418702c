package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// Payment method labels the dashboard summarizes. Anything else is
// stored but excluded from the payment-method totals.
const (
	PaymentCash = "Cash"
	PaymentUPI  = "UPI"
)

type (
	TransactionType string

	// Date is a calendar day. The time component is always midnight UTC.
	Date struct {
		time.Time
	}

	User struct {
		ID           int64
		Name         string
		Email        string
		PasswordHash string
	}

	Transaction struct {
		ID            int64
		UserID        int64
		Type          TransactionType
		Category      string
		Amount        decimal.Decimal
		Date          Date
		Note          string
		PaymentMethod string
	}
)

var (
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
	ErrEmptyEmail    = errors.New("empty email")
	ErrMissingOwner  = errors.New("transaction has no owner")
	ErrEmptyCategory = errors.New("empty category")
)

// NormalizeType lower-cases a raw type value the way the add flow
// stores it. The result is only meaningful when it equals Income or
// Expense; Transaction.Validate rejects anything else.
func NormalizeType(raw string) TransactionType {
	return TransactionType(strings.ToLower(strings.TrimSpace(raw)))
}

// IsIncome reports whether the type classifies as income, ignoring
// case so rows written before normalization still count.
func (t TransactionType) IsIncome() bool {
	return strings.EqualFold(string(t), string(Income))
}

// IsExpense reports whether the type classifies as expense.
func (t TransactionType) IsExpense() bool {
	return strings.EqualFold(string(t), string(Expense))
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO calendar date (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t.UTC()}, nil
}

// SameDay reports calendar-day equality regardless of any time
// component carried by either side.
func (d Date) SameDay(other Date) bool {
	y1, m1, d1 := d.Date()
	y2, m2, d2 := other.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// Month returns the month as an int in 1..12.
func (d Date) Month() int {
	return int(d.Time.Month())
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String renders the ISO form used in storage and templates.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (u User) Validate() error {
	if strings.TrimSpace(u.Email) == "" {
		return ErrEmptyEmail
	}
	return nil
}

func (t Transaction) Validate() error {
	if t.UserID == 0 {
		return ErrMissingOwner
	}
	if t.Type != Income && t.Type != Expense {
		return ErrInvalidType
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if t.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	return nil
}
