package expense

import (
	"strconv"
	"strings"
	"time"

	errors "github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/core/common/validation"
	"github.com/spf13/cast"
)

// CreateExpenseDTO represents the request payload for adding an expense.
// Amount is loose: any JSON value cast can read as a number.
type CreateExpenseDTO struct {
	Amount    interface{} `json:"amount"`
	Date      string      `json:"date"`
	Note      *string     `json:"note"`
	Category  *string     `json:"category"`
	CreatedBy *string     `json:"created_by"`
}

func (dto *CreateExpenseDTO) Validate() error {
	required := validation.NewValidator()
	required.Field("amount", dto.Amount).Required()
	required.Field("date", dto.Date).Required()
	if appErr := required.Validate(); appErr != nil {
		return errors.ErrAmountAndDateRequired
	}

	validator := validation.NewValidator()
	validator.Field("amount", dto.Amount).Numeric()
	validator.Field("date", dto.Date).Date()
	validator.Field("note", dto.Note).MaxLength(validation.MaxNoteLength)
	validator.Field("category", dto.Category).MaxLength(validation.MaxCategoryLength)
	validator.Field("created_by", dto.CreatedBy).MaxLength(validation.MaxCreatedByLength)

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// ToExpense assumes Validate passed.
func (dto *CreateExpenseDTO) ToExpense() *Expense {
	amount := cast.ToFloat64(dto.Amount)
	date, _ := validation.ParseDate(dto.Date)
	return NewExpense(amount, date, dto.Note, stringOrEmpty(dto.Category), stringOrEmpty(dto.CreatedBy))
}

// UpdateExpenseDTO is a partial patch. Absent and null fields are left alone.
type UpdateExpenseDTO struct {
	ID       interface{} `json:"id"`
	Amount   interface{} `json:"amount"`
	Date     *string     `json:"date"`
	Note     *string     `json:"note"`
	Category *string     `json:"category"`
}

func (dto *UpdateExpenseDTO) Validate() error {
	if _, err := ParseExpenseID(dto.ID); err != nil {
		return err
	}

	validator := validation.NewValidator()
	validator.Field("amount", dto.Amount).Numeric()
	if dto.Date != nil {
		validator.Field("date", *dto.Date).Required().Date()
	}
	validator.Field("note", dto.Note).MaxLength(validation.MaxNoteLength)
	validator.Field("category", dto.Category).MaxLength(validation.MaxCategoryLength)

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// Apply writes the present fields onto e and returns their column names.
func (dto *UpdateExpenseDTO) Apply(e *Expense) []string {
	var changed []string
	if dto.Amount != nil {
		e.Amount = cast.ToFloat64(dto.Amount)
		changed = append(changed, "amount")
	}
	if dto.Date != nil {
		e.Date, _ = validation.ParseDate(*dto.Date)
		changed = append(changed, "date")
	}
	if dto.Note != nil {
		note := *dto.Note
		e.Note = &note
		changed = append(changed, "note")
	}
	if dto.Category != nil {
		e.Category = *dto.Category
		changed = append(changed, "category")
	}
	return changed
}

type DeleteExpenseDTO struct {
	ID interface{} `json:"id"`
}

func (dto *DeleteExpenseDTO) Validate() error {
	_, err := ParseExpenseID(dto.ID)
	return err
}

// ParseExpenseID rejects falsy ids as missing. Strings must be base-10
// integers, so "010" is 10 and "0x10" is rejected; JSON numbers go through
// cast.
func ParseExpenseID(raw interface{}) (int64, error) {
	required := validation.NewValidator()
	required.Field("id", raw).Required()
	if appErr := required.Validate(); appErr != nil {
		return 0, errors.ErrExpenseIDRequired
	}

	if s, ok := raw.(string); ok {
		id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return 0, errors.ErrExpenseIDNotInteger.WithCause(err)
		}
		return id, nil
	}

	id, err := cast.ToInt64E(raw)
	if err != nil {
		return 0, errors.ErrExpenseIDNotInteger.WithCause(err)
	}
	return id, nil
}

// FilterExpensesDTO carries the raw query string of a filter request.
// Empty values mean "no constraint".
type FilterExpensesDTO struct {
	Category  string
	StartDate string
	EndDate   string
}

func (dto *FilterExpensesDTO) Validate() error {
	validator := validation.NewValidator()
	validator.Field("start_date", dto.StartDate).Date()
	validator.Field("end_date", dto.EndDate).Date()
	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// ToParams assumes Validate passed.
func (dto *FilterExpensesDTO) ToParams() FilterParams {
	var params FilterParams
	if dto.Category != "" {
		category := dto.Category
		params.Category = &category
	}
	if dto.StartDate != "" {
		start, _ := validation.ParseDate(dto.StartDate)
		params.StartDate = &start
	}
	if dto.EndDate != "" {
		end, _ := validation.ParseDate(dto.EndDate)
		params.EndDate = &end
	}
	return params
}

// FilterParams are ANDed; nil fields are ignored. Date bounds are inclusive.
type FilterParams struct {
	Category  *string
	StartDate *time.Time
	EndDate   *time.Time
}

type CategoryTotal struct {
	Category   string  `json:"category" gorm:"column:category"`
	TotalSpent float64 `json:"total_spent" gorm:"column:total_spent"`
}

type MonthTotal struct {
	Month      string  `json:"month"`
	TotalSpent float64 `json:"total_spent"`
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
