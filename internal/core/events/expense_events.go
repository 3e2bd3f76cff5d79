package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeExpenseCreated   = "expense.created"
	EventTypeExpenseUpdated   = "expense.updated"
	EventTypeExpenseDeleted   = "expense.deleted"
	EventTypeExpensesImported = "expenses.imported"
)

type ExpenseEvent struct {
	BaseEvent
	ExpenseID int64 `json:"expense_id"`
}

func newExpenseEvent(eventType string, expenseID int64, data map[string]interface{}) *ExpenseEvent {
	if data == nil {
		data = make(map[string]interface{})
	}
	data["expense_id"] = expenseID
	return &ExpenseEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data:      data,
		},
		ExpenseID: expenseID,
	}
}

func NewExpenseCreatedEvent(expenseID int64, amount float64, category, createdBy string) *ExpenseEvent {
	return newExpenseEvent(EventTypeExpenseCreated, expenseID, map[string]interface{}{
		"amount":     amount,
		"category":   category,
		"created_by": createdBy,
	})
}

// NewExpenseUpdatedEvent records which columns a patch touched.
func NewExpenseUpdatedEvent(expenseID int64, fields []string) *ExpenseEvent {
	return newExpenseEvent(EventTypeExpenseUpdated, expenseID, map[string]interface{}{
		"fields": fields,
	})
}

func NewExpenseDeletedEvent(expenseID int64) *ExpenseEvent {
	return newExpenseEvent(EventTypeExpenseDeleted, expenseID, nil)
}

type ExpensesImportedEvent struct {
	BaseEvent
	Source     string `json:"source"`
	Inserted   int    `json:"inserted"`
	Duplicates int    `json:"duplicates"`
	Skipped    int    `json:"skipped"`
}

func NewExpensesImportedEvent(source string, inserted, duplicates, skipped int) *ExpensesImportedEvent {
	return &ExpensesImportedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeExpensesImported,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"source":     source,
				"inserted":   inserted,
				"duplicates": duplicates,
				"skipped":    skipped,
			},
		},
		Source:     source,
		Inserted:   inserted,
		Duplicates: duplicates,
		Skipped:    skipped,
	}
}
