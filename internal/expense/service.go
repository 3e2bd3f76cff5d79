package expense

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sort"
	"time"

	"github.com/frahmantamala/expense-tracker/internal"
	expenseDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/expense"
	"github.com/frahmantamala/expense-tracker/internal/core/events"
	"github.com/shopspring/decimal"
)

// RepositoryAPI is the store behind the service. GetByID and Delete return
// internal.ErrExpenseNotFound for unknown ids.
type RepositoryAPI interface {
	Create(ctx context.Context, e *expenseDatamodel.Expense) error
	GetByID(ctx context.Context, id int64) (*expenseDatamodel.Expense, error)
	GetAll(ctx context.Context) ([]*expenseDatamodel.Expense, error)
	Update(ctx context.Context, e *expenseDatamodel.Expense) error
	Delete(ctx context.Context, id int64) error
	Filter(ctx context.Context, params FilterParams) ([]*expenseDatamodel.Expense, error)
	SumByCategory(ctx context.Context) ([]CategoryTotal, error)
}

type Service struct {
	repo      RepositoryAPI
	publisher events.Publisher
	logger    *slog.Logger
	timeout   time.Duration
}

func NewService(repo RepositoryAPI, publisher events.Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		timeout:   internal.DefaultTimeout,
	}
}

// WithTimeout overrides the per-call store deadline.
func (s *Service) WithTimeout(d time.Duration) *Service {
	s.timeout = d
	return s
}

func (s *Service) CreateExpense(ctx context.Context, dto CreateExpenseDTO) (*Expense, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Warn("expense validation failed", "error", err)
		return nil, err
	}

	exp := dto.ToExpense()
	row := ToDataModel(exp)

	ctx, cancel := internal.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create expense", "error", err)
		return nil, internal.NewInternalError("failed to create expense", err)
	}
	exp.ID = row.ID

	s.logger.Info("expense created",
		"expense_id", exp.ID,
		"amount", exp.Amount,
		"category", exp.Category)

	s.publish(ctx, events.NewExpenseCreatedEvent(exp.ID, exp.Amount, exp.Category, exp.CreatedBy))
	return exp, nil
}

func (s *Service) ListExpenses(ctx context.Context) ([]*Expense, error) {
	ctx, cancel := internal.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to list expenses", "error", err)
		return nil, internal.NewInternalError("failed to list expenses", err)
	}
	return FromDataModelSlice(rows), nil
}

func (s *Service) UpdateExpense(ctx context.Context, dto UpdateExpenseDTO) (*Expense, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Warn("expense update validation failed", "error", err)
		return nil, err
	}
	id, _ := ParseExpenseID(dto.ID)

	ctx, cancel := internal.WithTimeout(ctx, s.timeout)
	defer cancel()

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(err, id)
	}

	exp := FromDataModel(row)
	changed := dto.Apply(exp)
	if len(changed) == 0 {
		s.logger.Debug("expense update carried no fields", "expense_id", id)
		return exp, nil
	}

	if err := s.repo.Update(ctx, ToDataModel(exp)); err != nil {
		if stderrors.Is(err, internal.ErrExpenseNotFound) {
			return nil, internal.ErrExpenseNotFound
		}
		s.logger.Error("failed to update expense", "error", err, "expense_id", id)
		return nil, internal.NewInternalError("failed to update expense", err)
	}

	s.logger.Info("expense updated", "expense_id", id, "fields", changed)
	s.publish(ctx, events.NewExpenseUpdatedEvent(id, changed))
	return exp, nil
}

func (s *Service) DeleteExpense(ctx context.Context, dto DeleteExpenseDTO) error {
	id, err := ParseExpenseID(dto.ID)
	if err != nil {
		s.logger.Warn("expense delete validation failed", "error", err)
		return err
	}

	ctx, cancel := internal.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.lookupError(err, id)
	}

	s.logger.Info("expense deleted", "expense_id", id)
	s.publish(ctx, events.NewExpenseDeletedEvent(id))
	return nil
}

func (s *Service) FilterExpenses(ctx context.Context, dto FilterExpensesDTO) ([]*Expense, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Warn("expense filter validation failed", "error", err)
		return nil, err
	}

	ctx, cancel := internal.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.repo.Filter(ctx, dto.ToParams())
	if err != nil {
		s.logger.Error("failed to filter expenses", "error", err)
		return nil, internal.NewInternalError("failed to filter expenses", err)
	}
	return FromDataModelSlice(rows), nil
}

func (s *Service) SummaryByCategory(ctx context.Context) ([]CategoryTotal, error) {
	ctx, cancel := internal.WithTimeout(ctx, s.timeout)
	defer cancel()

	totals, err := s.repo.SumByCategory(ctx)
	if err != nil {
		s.logger.Error("failed to summarize by category", "error", err)
		return nil, internal.NewInternalError("failed to summarize expenses by category", err)
	}
	if totals == nil {
		totals = []CategoryTotal{}
	}
	return totals, nil
}

// SummaryByMonth buckets every expense by its YYYY-MM and sums in decimal,
// ascending by month.
func (s *Service) SummaryByMonth(ctx context.Context) ([]MonthTotal, error) {
	expenses, err := s.ListExpenses(ctx)
	if err != nil {
		return nil, err
	}

	sums := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		month := e.Date.Format("2006-01")
		sums[month] = sums[month].Add(decimal.NewFromFloat(e.Amount))
	}

	months := make([]string, 0, len(sums))
	for month := range sums {
		months = append(months, month)
	}
	sort.Strings(months)

	totals := make([]MonthTotal, len(months))
	for i, month := range months {
		totals[i] = MonthTotal{Month: month, TotalSpent: sums[month].InexactFloat64()}
	}
	return totals, nil
}

func (s *Service) lookupError(err error, id int64) error {
	if stderrors.Is(err, internal.ErrExpenseNotFound) {
		s.logger.Warn("expense not found", "expense_id", id)
		return internal.ErrExpenseNotFound
	}
	s.logger.Error("failed to load expense", "error", err, "expense_id", id)
	return internal.NewInternalError("failed to load expense", err)
}

// publish never fails the caller; the write has already committed.
func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"error", err)
	}
}
