package category_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/category"
	categoryPostgres "github.com/frahmantamala/expense-tracker/internal/category/postgres"
	"github.com/frahmantamala/expense-tracker/internal/database"
	"github.com/frahmantamala/expense-tracker/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("Category Handler Integration", func() {
	var (
		db      *gorm.DB
		handler *category.Handler
		slogger *slog.Logger
	)

	BeforeEach(func() {
		var err error
		slogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = database.Open(internal.DatabaseConfig{
			Driver:       internal.DriverSQLite,
			Name:         ":memory:",
			MaxOpenConns: 1,
			MaxIdleConns: 1,
		}, slogger)
		Expect(err).NotTo(HaveOccurred())
		Expect(database.EnsureSchema(db)).To(Succeed())

		for _, c := range []string{"Travel", "Food", "Food", "Other"} {
			err := db.Exec("INSERT INTO expenses (amount, date, category, created_by, is_active) VALUES (?, ?, ?, ?, ?)",
				1.0, "2024-01-01", c, "system", true).Error
			Expect(err).NotTo(HaveOccurred())
		}

		sx, err := database.SQLX(db, internal.DriverSQLite)
		Expect(err).NotTo(HaveOccurred())

		service := category.NewService(categoryPostgres.NewCategoryRepository(sx), slogger)
		handler = category.NewHandler(transport.NewBaseHandler(slogger), service)
	})

	AfterEach(func() {
		Expect(database.Close(db)).To(Succeed())
	})

	It("should handle GET /api/categories request successfully", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
		w := httptest.NewRecorder()

		handler.GetCategories(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

		var response []string
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response).To(Equal([]string{"Food", "Other", "Travel"}))
	})

	It("should report store failures in the error envelope", func() {
		Expect(db.Exec("DROP TABLE expenses").Error).To(Succeed())

		req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
		w := httptest.NewRecorder()

		handler.GetCategories(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		var response map[string]string
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response).To(HaveKeyWithValue("error", "failed to list categories"))
	})
})
