package expense

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/expense-tracker/internal/transport"
)

const (
	MsgExpenseAdded   = "Expense added successfully"
	MsgExpenseUpdated = "Expense updated successfully"
	MsgExpenseDeleted = "Expense deleted successfully"
)

type ServiceAPI interface {
	CreateExpense(ctx context.Context, dto CreateExpenseDTO) (*Expense, error)
	ListExpenses(ctx context.Context) ([]*Expense, error)
	UpdateExpense(ctx context.Context, dto UpdateExpenseDTO) (*Expense, error)
	DeleteExpense(ctx context.Context, dto DeleteExpenseDTO) error
	FilterExpenses(ctx context.Context, dto FilterExpensesDTO) ([]*Expense, error)
	SummaryByCategory(ctx context.Context) ([]CategoryTotal, error)
	SummaryByMonth(ctx context.Context) ([]MonthTotal, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI, lg *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// AddExpense handles POST /api/add_expense
func (h *Handler) AddExpense(w http.ResponseWriter, r *http.Request) {
	var dto CreateExpenseDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteError(w, err)
		return
	}

	if _, err := h.Service.CreateExpense(r.Context(), dto); err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteMessage(w, MsgExpenseAdded)
}

// GetExpenses handles GET /api/get_expenses
func (h *Handler) GetExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.Service.ListExpenses(r.Context())
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, PublicViews(expenses))
}

// UpdateExpense handles POST /api/update_expense
func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	var dto UpdateExpenseDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteError(w, err)
		return
	}

	if _, err := h.Service.UpdateExpense(r.Context(), dto); err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteMessage(w, MsgExpenseUpdated)
}

// DeleteExpense handles POST /api/delete_expense
func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	var dto DeleteExpenseDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteError(w, err)
		return
	}

	if err := h.Service.DeleteExpense(r.Context(), dto); err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteMessage(w, MsgExpenseDeleted)
}

// FilterExpenses handles GET /api/filter_expenses
func (h *Handler) FilterExpenses(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	dto := FilterExpensesDTO{
		Category:  query.Get("category"),
		StartDate: query.Get("start_date"),
		EndDate:   query.Get("end_date"),
	}

	expenses, err := h.Service.FilterExpenses(r.Context(), dto)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, PublicViews(expenses))
}

// SummaryByCategory handles GET /api/summary/category
func (h *Handler) SummaryByCategory(w http.ResponseWriter, r *http.Request) {
	totals, err := h.Service.SummaryByCategory(r.Context())
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, totals)
}

// SummaryByMonth handles GET /api/summary/month
func (h *Handler) SummaryByMonth(w http.ResponseWriter, r *http.Request) {
	totals, err := h.Service.SummaryByMonth(r.Context())
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, totals)
}
