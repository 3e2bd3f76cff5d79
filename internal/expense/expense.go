package expense

import (
	"time"

	expenseDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/expense"
	"github.com/frahmantamala/expense-tracker/internal/core/common/validation"
)

const (
	DefaultCategory  = "Other"
	DefaultCreatedBy = "system"

	TimestampLayout = "2006-01-02 15:04:05"
)

type Expense struct {
	ID        int64
	Amount    float64
	Date      time.Time
	Note      *string
	Category  string
	CreatedOn time.Time
	CreatedBy string
	UpdatedOn *time.Time
	UpdatedBy *string
	IsActive  bool
}

// PublicView is the shape every expense endpoint returns.
type PublicView struct {
	ID       int64   `json:"id"`
	Amount   float64 `json:"amount"`
	Date     string  `json:"date"`
	Note     *string `json:"note"`
	Category string  `json:"category"`
}

type FullView struct {
	ID        int64   `json:"id"`
	Amount    float64 `json:"amount"`
	Date      string  `json:"date"`
	Note      *string `json:"note"`
	Category  string  `json:"category"`
	CreatedOn *string `json:"created_on"`
	CreatedBy string  `json:"created_by"`
	UpdatedOn *string `json:"updated_on"`
	UpdatedBy *string `json:"updated_by"`
	IsActive  bool    `json:"is_active"`
}

// NewExpense fills in the creation defaults: category, creator, created_on
// and the active flag.
func NewExpense(amount float64, date time.Time, note *string, category, createdBy string) *Expense {
	if category == "" {
		category = DefaultCategory
	}
	if createdBy == "" {
		createdBy = DefaultCreatedBy
	}
	return &Expense{
		Amount:    amount,
		Date:      date,
		Note:      note,
		Category:  category,
		CreatedOn: time.Now().UTC(),
		CreatedBy: createdBy,
		IsActive:  true,
	}
}

func (e *Expense) PublicView() PublicView {
	return PublicView{
		ID:       e.ID,
		Amount:   e.Amount,
		Date:     e.Date.Format(validation.DateLayout),
		Note:     e.Note,
		Category: e.Category,
	}
}

func (e *Expense) FullView() FullView {
	view := FullView{
		ID:        e.ID,
		Amount:    e.Amount,
		Date:      e.Date.Format(validation.DateLayout),
		Note:      e.Note,
		Category:  e.Category,
		CreatedBy: e.CreatedBy,
		UpdatedBy: e.UpdatedBy,
		IsActive:  e.IsActive,
	}
	if !e.CreatedOn.IsZero() {
		view.CreatedOn = formatTimestamp(e.CreatedOn)
	}
	if e.UpdatedOn != nil {
		view.UpdatedOn = formatTimestamp(*e.UpdatedOn)
	}
	return view
}

func formatTimestamp(t time.Time) *string {
	s := t.Format(TimestampLayout)
	return &s
}

func PublicViews(expenses []*Expense) []PublicView {
	views := make([]PublicView, len(expenses))
	for i, e := range expenses {
		views[i] = e.PublicView()
	}
	return views
}

func ToDataModel(e *Expense) *expenseDatamodel.Expense {
	return &expenseDatamodel.Expense{
		ID:        e.ID,
		Amount:    e.Amount,
		Date:      e.Date,
		Note:      e.Note,
		Category:  e.Category,
		CreatedOn: e.CreatedOn,
		CreatedBy: e.CreatedBy,
		UpdatedOn: e.UpdatedOn,
		UpdatedBy: e.UpdatedBy,
		IsActive:  e.IsActive,
	}
}

func FromDataModel(e *expenseDatamodel.Expense) *Expense {
	return &Expense{
		ID:        e.ID,
		Amount:    e.Amount,
		Date:      e.Date.UTC(),
		Note:      e.Note,
		Category:  e.Category,
		CreatedOn: e.CreatedOn,
		CreatedBy: e.CreatedBy,
		UpdatedOn: e.UpdatedOn,
		UpdatedBy: e.UpdatedBy,
		IsActive:  e.IsActive,
	}
}

func FromDataModelSlice(expenses []*expenseDatamodel.Expense) []*Expense {
	result := make([]*Expense, len(expenses))
	for i, e := range expenses {
		result[i] = FromDataModel(e)
	}
	return result
}
