package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/frahmantamala/expense-tracker/internal/core/common/validation"
	expenseDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/expense"
	"github.com/frahmantamala/expense-tracker/internal/core/events"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	"github.com/spf13/cast"
	"gorm.io/gorm"
)

var (
	ErrSourceNotFound = errors.New("import file not found")
	ErrMalformedFile  = errors.New("import file is not a JSON array of records")
)

// Result counts what a load did with each record.
type Result struct {
	Inserted   int `json:"inserted"`
	Duplicates int `json:"duplicates"`
	Skipped    int `json:"skipped"`
}

type Loader struct {
	db        *gorm.DB
	publisher events.Publisher
	logger    *slog.Logger
}

func NewLoader(db *gorm.DB, publisher events.Publisher, logger *slog.Logger) *Loader {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Loader{
		db:        db,
		publisher: publisher,
		logger:    logger,
	}
}

// LoadFile imports the JSON document at path. A missing or unreadable file is
// reported as an error with a zero Result.
func (l *Loader) LoadFile(ctx context.Context, path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			l.logger.Warn("import file not found", "path", path)
			return Result{}, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		l.logger.Error("failed to open import file", "path", path, "error", err)
		return Result{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return l.Load(ctx, f, path)
}

// Load imports every usable record from r in one transaction. Elements that
// are not objects are skipped on their own. Records whose
// (amount, date, note) already exist, in the store or earlier in r, are
// skipped. Any insert or commit failure rolls the whole batch back.
func (l *Loader) Load(ctx context.Context, r io.Reader, source string) (Result, error) {
	var records []json.RawMessage
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		l.logger.Error("failed to parse import file", "source", source, "error", err)
		return Result{}, fmt.Errorf("%w: %v", ErrMalformedFile, err)
	}

	tx := l.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		l.logger.Error("failed to begin import transaction", "error", tx.Error)
		return Result{}, tx.Error
	}

	var (
		result Result
		batch  []*expenseDatamodel.Expense
		staged = make(map[string]struct{})
	)

	for i, record := range records {
		var raw map[string]interface{}
		if err := json.Unmarshal(record, &raw); err != nil {
			l.logger.Warn("skipping import record", "index", i, "reason", "record is not an object")
			result.Skipped++
			continue
		}

		row, reason := l.buildRow(raw)
		if row == nil {
			l.logger.Warn("skipping import record", "index", i, "reason", reason)
			result.Skipped++
			continue
		}

		key := dedupeKey(row)
		if _, ok := staged[key]; ok {
			result.Duplicates++
			continue
		}

		exists, err := existsInStore(tx, row)
		if err != nil {
			tx.Rollback()
			l.logger.Error("failed to check for existing expense", "index", i, "error", err)
			return Result{}, err
		}
		if exists {
			result.Duplicates++
			continue
		}

		staged[key] = struct{}{}
		batch = append(batch, row)
	}

	if len(batch) > 0 {
		if err := tx.Create(&batch).Error; err != nil {
			tx.Rollback()
			l.logger.Error("failed to insert imported expenses", "count", len(batch), "error", err)
			return Result{}, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		l.logger.Error("failed to commit imported expenses", "count", len(batch), "error", err)
		return Result{}, err
	}
	result.Inserted = len(batch)

	l.logger.Info("import finished",
		"source", source,
		"inserted", result.Inserted,
		"duplicates", result.Duplicates,
		"skipped", result.Skipped)

	event := events.NewExpensesImportedEvent(source, result.Inserted, result.Duplicates, result.Skipped)
	if err := l.publisher.Publish(ctx, event); err != nil {
		l.logger.Warn("failed to publish import event", "error", err)
	}

	return result, nil
}

// buildRow turns one raw record into a row, or returns the reason it cannot.
func (l *Loader) buildRow(raw map[string]interface{}) (*expenseDatamodel.Expense, string) {
	if raw == nil {
		return nil, "record is not an object"
	}

	rawAmount := raw["amount"]
	amount, err := cast.ToFloat64E(rawAmount)
	if rawAmount == nil || err != nil {
		l.logger.Warn("missing or invalid amount in import record, using 0", "amount", rawAmount)
		amount = 0
	}

	dateValue, ok := raw["date"].(string)
	if !ok || dateValue == "" {
		return nil, "missing date"
	}
	date, err := validation.ParseDate(dateValue)
	if err != nil {
		return nil, err.Error()
	}

	note := optionalString(raw, "note", "")
	category := stringOrDefault(raw, "category", expense.DefaultCategory)
	createdBy := stringOrDefault(raw, "created_by", expense.DefaultCreatedBy)

	if appErr := validation.ValidateExpenseText(note, category, createdBy); appErr != nil {
		return nil, appErr.GetDetailedMessage()
	}

	return expense.ToDataModel(expense.NewExpense(amount, date, note, category, createdBy)), ""
}

func existsInStore(tx *gorm.DB, row *expenseDatamodel.Expense) (bool, error) {
	query := tx.Model(&expenseDatamodel.Expense{}).Where("amount = ? AND date = ?", row.Amount, row.Date)
	if row.Note == nil {
		query = query.Where("note IS NULL")
	} else {
		query = query.Where("note = ?", *row.Note)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func dedupeKey(row *expenseDatamodel.Expense) string {
	note := "\x00"
	if row.Note != nil {
		note = "=" + *row.Note
	}
	return fmt.Sprintf("%v|%s|%s", row.Amount, row.Date.Format(validation.DateLayout), note)
}

// optionalString defaults an absent key and keeps an explicit null as nil.
func optionalString(raw map[string]interface{}, key, def string) *string {
	v, present := raw[key]
	if !present {
		return &def
	}
	if v == nil {
		return nil
	}
	s := cast.ToString(v)
	return &s
}

func stringOrDefault(raw map[string]interface{}, key, def string) string {
	s := optionalString(raw, key, def)
	if s == nil || *s == "" {
		return def
	}
	return *s
}
