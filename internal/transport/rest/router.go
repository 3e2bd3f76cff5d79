package rest

import (
	"log/slog"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/category"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	"github.com/frahmantamala/expense-tracker/internal/transport/middleware"
	"github.com/frahmantamala/expense-tracker/internal/transport/swagger"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

type Handlers struct {
	Expense  *expense.Handler
	Category *category.Handler
	Health   *HealthHandler
}

// NewRouter builds the mux with the global middleware chain and every route.
func NewRouter(cfg internal.ServerConfig, handlers Handlers, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()

	router.Use(middleware.CORS(cfg.Origins()))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))
	if cfg.RequestTimeout > 0 {
		router.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	RegisterAllRoutes(router, handlers)
	return router
}

func RegisterAllRoutes(router *chi.Mux, handlers Handlers) {
	// Serve OpenAPI spec at root (outside API prefix)
	router.Get(swagger.SpecPath, swagger.SpecHandler)
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api", func(r chi.Router) {
		if handlers.Health != nil {
			r.Get("/health", handlers.Health.Health)
			r.Get("/ping", handlers.Health.Ping)
		}

		if handlers.Expense != nil {
			r.Post("/add_expense", handlers.Expense.AddExpense)
			r.Get("/get_expenses", handlers.Expense.GetExpenses)
			r.Post("/update_expense", handlers.Expense.UpdateExpense)
			r.Post("/delete_expense", handlers.Expense.DeleteExpense)
			r.Get("/filter_expenses", handlers.Expense.FilterExpenses)

			r.Route("/summary", func(sr chi.Router) {
				sr.Get("/category", handlers.Expense.SummaryByCategory)
				sr.Get("/month", handlers.Expense.SummaryByMonth)
			})
		}

		if handlers.Category != nil {
			r.Get("/categories", handlers.Category.GetCategories)
		}
	})
}
