package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"fintrack/internal/auth"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

type addTransactionView struct {
	Flash *flashMessage
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.render(w, r, "add_transaction.html", addTransactionView{Flash: popFlash(w, r)})
		return
	}

	userID, _ := auth.UserIDFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		setFlash(w, flashDanger, "Invalid form submission.")
		http.Redirect(w, r, "/add_transaction", http.StatusSeeOther)
		return
	}

	rawType := r.Form.Get("type")
	category := sanitizeInput(r.Form.Get("category"))
	amountStr := sanitizeInput(r.Form.Get("amount"))
	dateStr := sanitizeInput(r.Form.Get("date"))
	paymentMethod := sanitizeInput(r.Form.Get("payment_method"))
	note := sanitizeInput(r.Form.Get("notes"))

	amount, err := decimal.NewFromString(amountStr)
	if err != nil || amount.IsNegative() {
		setFlash(w, flashDanger, "Invalid amount.")
		http.Redirect(w, r, "/add_transaction", http.StatusSeeOther)
		return
	}

	date, err := core.ParseDate(dateStr)
	if err != nil {
		setFlash(w, flashDanger, "Invalid date format.")
		http.Redirect(w, r, "/add_transaction", http.StatusSeeOther)
		return
	}

	tx := core.Transaction{
		UserID:        userID,
		Type:          core.NormalizeType(rawType),
		Category:      category,
		Amount:        amount,
		Date:          date,
		Note:          note,
		PaymentMethod: paymentMethod,
	}
	if _, err := s.svc.Create(r.Context(), tx); err != nil {
		if isValidationError(err) {
			setFlash(w, flashDanger, "Invalid transaction: "+err.Error())
			http.Redirect(w, r, "/add_transaction", http.StatusSeeOther)
			return
		}
		slog.ErrorContext(r.Context(), "Transaction create failed", "error", err, "user_id", userID)
		setFlash(w, flashDanger, "Could not save the transaction.")
		http.Redirect(w, r, "/add_transaction", http.StatusSeeOther)
		return
	}

	s.invalidateDashboards(userID)
	setFlash(w, flashSuccess, "Transaction added successfully!")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

type transactionListView struct {
	Flash        *flashMessage
	Transactions []core.Transaction
}

func (s *Server) handleViewTransactions(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	txs, err := s.txs.ListTransactions(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions failed", "error", err, "user_id", userID)
		http.Error(w, "could not load transactions", http.StatusInternalServerError)
		return
	}

	s.render(w, r, "view_transactions.html", transactionListView{
		Flash:        popFlash(w, r),
		Transactions: txs,
	})
}

type editTransactionView struct {
	Flash       *flashMessage
	Transaction core.Transaction
}

func (s *Server) handleEditTransaction(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if r.Method != http.MethodPost {
		tx, err := s.txs.GetTransaction(r.Context(), id, userID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.NotFound(w, r)
				return
			}
			slog.ErrorContext(r.Context(), "Get transaction failed", "error", err, "id", id)
			http.Error(w, "could not load transaction", http.StatusInternalServerError)
			return
		}
		s.render(w, r, "edit_transaction.html", editTransactionView{Flash: popFlash(w, r), Transaction: tx})
		return
	}

	if err := r.ParseForm(); err != nil {
		setFlash(w, flashDanger, "Invalid form submission.")
		http.Redirect(w, r, "/view_transactions", http.StatusSeeOther)
		return
	}

	amount, err := decimal.NewFromString(sanitizeInput(r.Form.Get("amount")))
	if err != nil || amount.IsNegative() {
		setFlash(w, flashDanger, "Invalid amount.")
		http.Redirect(w, r, "/edit_transaction/"+strconv.FormatInt(id, 10), http.StatusSeeOther)
		return
	}

	err = s.svc.Update(r.Context(), id, userID,
		r.Form.Get("type"),
		sanitizeInput(r.Form.Get("category")),
		sanitizeInput(r.Form.Get("note")),
		amount)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		if isValidationError(err) {
			setFlash(w, flashDanger, "Invalid transaction: "+err.Error())
			http.Redirect(w, r, "/edit_transaction/"+strconv.FormatInt(id, 10), http.StatusSeeOther)
			return
		}
		slog.ErrorContext(r.Context(), "Transaction update failed", "error", err, "id", id)
		setFlash(w, flashDanger, "Could not update the transaction.")
		http.Redirect(w, r, "/view_transactions", http.StatusSeeOther)
		return
	}

	s.invalidateDashboards(userID)
	setFlash(w, flashSuccess, "Transaction updated successfully!")
	http.Redirect(w, r, "/view_transactions", http.StatusSeeOther)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := s.svc.Delete(r.Context(), id, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		slog.ErrorContext(r.Context(), "Transaction delete failed", "error", err, "id", id)
		setFlash(w, flashDanger, "Could not delete the transaction.")
		http.Redirect(w, r, "/view_transactions", http.StatusSeeOther)
		return
	}

	s.invalidateDashboards(userID)
	setFlash(w, flashSuccess, "Transaction deleted successfully!")
	http.Redirect(w, r, "/view_transactions", http.StatusSeeOther)
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrInvalidType) ||
		errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrInvalidDate) ||
		errors.Is(err, core.ErrEmptyCategory)
}
