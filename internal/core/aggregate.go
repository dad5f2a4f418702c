package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// RecentLimit is how many running-balance entries the dashboard shows.
const RecentLimit = 5

// PeriodSummary holds income/expense totals for a (possibly filtered)
// period and their difference.
type PeriodSummary struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
}

// PaymentSummary holds totals for the recognized payment methods.
// Combined is Cash+UPI only; unrecognized methods count in neither.
type PaymentSummary struct {
	Cash     decimal.Decimal
	UPI      decimal.Decimal
	Combined decimal.Decimal
}

// BalanceEntry pairs a transaction with the cumulative balance after
// it is applied.
type BalanceEntry struct {
	Transaction Transaction
	Balance     decimal.Decimal
}

// PeriodTotals sums income and expense over the given transactions.
// When filter is non-zero only transactions falling on that calendar
// day are counted. Types other than income/expense contribute to
// neither total.
func PeriodTotals(txs []Transaction, filter Date) PeriodSummary {
	s := PeriodSummary{
		Income:  decimal.Zero,
		Expense: decimal.Zero,
	}
	for _, t := range txs {
		if !filter.IsZero() && !t.Date.SameDay(filter) {
			continue
		}
		switch {
		case t.Type.IsIncome():
			s.Income = s.Income.Add(t.Amount)
		case t.Type.IsExpense():
			s.Expense = s.Expense.Add(t.Amount)
		}
	}
	s.Balance = s.Income.Sub(s.Expense)
	return s
}

// PaymentTotals sums amounts per recognized payment method over all
// transactions, matching the Cash and UPI labels exactly. Other
// methods are excluded from all three figures on purpose; the
// dashboard only breaks out these two.
func PaymentTotals(txs []Transaction) PaymentSummary {
	s := PaymentSummary{
		Cash: decimal.Zero,
		UPI:  decimal.Zero,
	}
	for _, t := range txs {
		switch t.PaymentMethod {
		case PaymentCash:
			s.Cash = s.Cash.Add(t.Amount)
		case PaymentUPI:
			s.UPI = s.UPI.Add(t.Amount)
		}
	}
	s.Combined = s.Cash.Add(s.UPI)
	return s
}

// MonthlyTotals returns per-month income and expense sums for
// transactions dated within year. Months without transactions are
// absent from the maps rather than zero-filled.
func MonthlyTotals(txs []Transaction, year int) (income, expense map[int]decimal.Decimal) {
	income = make(map[int]decimal.Decimal)
	expense = make(map[int]decimal.Decimal)
	for _, t := range txs {
		if t.Date.Year() != year {
			continue
		}
		m := t.Date.Month()
		switch {
		case t.Type.IsIncome():
			income[m] = monthSum(income, m).Add(t.Amount)
		case t.Type.IsExpense():
			expense[m] = monthSum(expense, m).Add(t.Amount)
		}
	}
	return income, expense
}

func monthSum(totals map[int]decimal.Decimal, month int) decimal.Decimal {
	if v, ok := totals[month]; ok {
		return v
	}
	return decimal.Zero
}

// RunningBalance replays the transactions chronologically and records
// the balance after each one. Same-date transactions keep their input
// order. Income adds to the balance; every other type subtracts,
// including types the totals above ignore.
func RunningBalance(txs []Transaction) []BalanceEntry {
	ordered := make([]Transaction, len(txs))
	copy(ordered, txs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date.Time)
	})

	entries := make([]BalanceEntry, 0, len(ordered))
	balance := decimal.Zero
	for _, t := range ordered {
		if t.Type.IsIncome() {
			balance = balance.Add(t.Amount)
		} else {
			balance = balance.Sub(t.Amount)
		}
		entries = append(entries, BalanceEntry{Transaction: t, Balance: balance})
	}
	return entries
}

// Recent returns the last n running-balance entries, most recent
// first. Fewer than n entries means all of them, still reversed.
func Recent(entries []BalanceEntry, n int) []BalanceEntry {
	if n > len(entries) {
		n = len(entries)
	}
	out := make([]BalanceEntry, 0, n)
	for i := len(entries) - 1; i >= len(entries)-n; i-- {
		out = append(out, entries[i])
	}
	return out
}
