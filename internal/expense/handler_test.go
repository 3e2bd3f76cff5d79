package expense_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	expenseDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/expense"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	expensePostgres "github.com/frahmantamala/expense-tracker/internal/expense/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Expense Handler Integration", func() {
	var (
		db      *gorm.DB
		handler *expense.Handler
		slogger *slog.Logger
	)

	do := func(h http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, target, nil)
		} else {
			req = httptest.NewRequest(method, target, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
		}
		w := httptest.NewRecorder()
		h(w, req)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))
		return w
	}

	decodeMap := func(w *httptest.ResponseRecorder) map[string]interface{} {
		var body map[string]interface{}
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		return body
	}

	list := func() []expense.PublicView {
		w := do(handler.GetExpenses, http.MethodGet, "/api/get_expenses", "")
		var views []expense.PublicView
		Expect(json.NewDecoder(w.Body).Decode(&views)).To(Succeed())
		return views
	}

	BeforeEach(func() {
		var err error
		slogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)

		Expect(db.AutoMigrate(&expenseDatamodel.Expense{})).To(Succeed())

		repo := expensePostgres.NewExpenseRepository(db)
		service := expense.NewService(repo, nil, slogger)
		handler = expense.NewHandler(service, slogger)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	It("should add an expense and list it in the public view", func() {
		w := do(handler.AddExpense, http.MethodPost, "/api/add_expense",
			`{"amount": 12.5, "date": "2024-03-15", "note": "Lunch", "category": "Food"}`)
		Expect(decodeMap(w)).To(Equal(map[string]interface{}{"message": "Expense added successfully"}))

		views := list()
		Expect(views).To(HaveLen(1))
		Expect(views[0].ID).To(BeNumerically(">", 0))
		Expect(views[0].Amount).To(Equal(12.5))
		Expect(views[0].Date).To(Equal("2024-03-15"))
		Expect(*views[0].Note).To(Equal("Lunch"))
		Expect(views[0].Category).To(Equal("Food"))
	})

	It("should expose exactly the public fields", func() {
		do(handler.AddExpense, http.MethodPost, "/api/add_expense", `{"amount": 3, "date": "2024-01-01"}`)

		w := do(handler.GetExpenses, http.MethodGet, "/api/get_expenses", "")
		var raw []map[string]interface{}
		Expect(json.NewDecoder(w.Body).Decode(&raw)).To(Succeed())
		Expect(raw).To(HaveLen(1))
		Expect(raw[0]).To(HaveLen(5))
		Expect(raw[0]).To(HaveKeyWithValue("note", BeNil()))
		Expect(raw[0]).To(HaveKeyWithValue("category", "Other"))
	})

	It("should report validation failures with status 200", func() {
		w := do(handler.AddExpense, http.MethodPost, "/api/add_expense", `{"amount": 0, "date": "2024-01-01"}`)
		Expect(decodeMap(w)).To(Equal(map[string]interface{}{"error": "Amount and Date are required"}))
		Expect(list()).To(BeEmpty())
	})

	It("should report an unreadable body", func() {
		w := do(handler.AddExpense, http.MethodPost, "/api/add_expense", `{"amount": `)
		Expect(decodeMap(w)).To(HaveKeyWithValue("error", "Invalid request body"))
	})

	It("should treat an empty body as missing fields", func() {
		w := do(handler.DeleteExpense, http.MethodPost, "/api/delete_expense", "")
		Expect(decodeMap(w)).To(HaveKeyWithValue("error", "Expense ID is required"))
	})

	It("should update part of an expense", func() {
		do(handler.AddExpense, http.MethodPost, "/api/add_expense",
			`{"amount": 10, "date": "2024-01-01", "note": "Coffee", "category": "Food"}`)
		id := list()[0].ID

		w := do(handler.UpdateExpense, http.MethodPost, "/api/update_expense",
			`{"id": `+jsonNumber(id)+`, "amount": 12, "note": null}`)
		Expect(decodeMap(w)).To(HaveKeyWithValue("message", "Expense updated successfully"))

		views := list()
		Expect(views[0].Amount).To(Equal(12.0))
		Expect(*views[0].Note).To(Equal("Coffee"))
		Expect(views[0].Date).To(Equal("2024-01-01"))
		Expect(views[0].Category).To(Equal("Food"))
	})

	It("should report unknown ids on update", func() {
		w := do(handler.UpdateExpense, http.MethodPost, "/api/update_expense", `{"id": 404, "amount": 1}`)
		Expect(decodeMap(w)).To(HaveKeyWithValue("error", "Expense not found"))
	})

	It("should delete an expense and then report it missing", func() {
		do(handler.AddExpense, http.MethodPost, "/api/add_expense", `{"amount": 10, "date": "2024-01-01"}`)
		id := list()[0].ID

		w := do(handler.DeleteExpense, http.MethodPost, "/api/delete_expense", `{"id": `+jsonNumber(id)+`}`)
		Expect(decodeMap(w)).To(HaveKeyWithValue("message", "Expense deleted successfully"))
		Expect(list()).To(BeEmpty())

		w = do(handler.DeleteExpense, http.MethodPost, "/api/delete_expense", `{"id": `+jsonNumber(id)+`}`)
		Expect(decodeMap(w)).To(HaveKeyWithValue("error", "Expense not found"))
	})

	It("should reject a non-integer id on delete", func() {
		w := do(handler.DeleteExpense, http.MethodPost, "/api/delete_expense", `{"id": "abc"}`)
		Expect(decodeMap(w)).To(HaveKeyWithValue("error", "Expense ID must be an integer"))
	})

	It("should filter with inclusive bounds", func() {
		for _, body := range []string{
			`{"amount": 1, "date": "2024-01-01", "category": "Food"}`,
			`{"amount": 2, "date": "2024-01-10", "category": "Food"}`,
			`{"amount": 3, "date": "2024-01-20", "category": "Travel"}`,
		} {
			do(handler.AddExpense, http.MethodPost, "/api/add_expense", body)
		}

		w := do(handler.FilterExpenses, http.MethodGet, "/api/filter_expenses?start_date=2024-01-01&end_date=2024-01-10", "")
		var views []expense.PublicView
		Expect(json.NewDecoder(w.Body).Decode(&views)).To(Succeed())
		Expect(views).To(HaveLen(2))

		w = do(handler.FilterExpenses, http.MethodGet, "/api/filter_expenses?category=Travel", "")
		Expect(json.NewDecoder(w.Body).Decode(&views)).To(Succeed())
		Expect(views).To(HaveLen(1))
		Expect(views[0].Amount).To(Equal(3.0))
	})

	It("should summarize by category and by month", func() {
		for _, body := range []string{
			`{"amount": 10, "date": "2024-02-01", "category": "Food"}`,
			`{"amount": 20, "date": "2024-01-05", "category": "Food"}`,
			`{"amount": 30, "date": "2024-01-25", "category": "Food"}`,
		} {
			do(handler.AddExpense, http.MethodPost, "/api/add_expense", body)
		}

		w := do(handler.SummaryByCategory, http.MethodGet, "/api/summary/category", "")
		var byCategory []expense.CategoryTotal
		Expect(json.NewDecoder(w.Body).Decode(&byCategory)).To(Succeed())
		Expect(byCategory).To(Equal([]expense.CategoryTotal{{Category: "Food", TotalSpent: 60}}))

		w = do(handler.SummaryByMonth, http.MethodGet, "/api/summary/month", "")
		var byMonth []expense.MonthTotal
		Expect(json.NewDecoder(w.Body).Decode(&byMonth)).To(Succeed())
		Expect(byMonth).To(Equal([]expense.MonthTotal{
			{Month: "2024-01", TotalSpent: 50},
			{Month: "2024-02", TotalSpent: 10},
		}))
	})
})

func jsonNumber(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
