package internal_test

import (
	"errors"
	"fmt"

	"github.com/frahmantamala/expense-tracker/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("AppError", func() {
	It("flattens to the error envelope", func() {
		resp := internal.ErrExpenseNotFound.ToResponse()
		Expect(resp.Error).To(Equal("Expense not found"))
	})

	It("joins multiple validation messages", func() {
		err := internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: []internal.ValidationError{
				{Field: "note", Message: "note must not exceed 200 characters"},
				{Field: "category", Message: "category must not exceed 50 characters"},
			}})

		Expect(err.Error()).To(Equal("note must not exceed 200 characters"))
		Expect(err.ToResponse().Error).To(Equal("note must not exceed 200 characters; category must not exceed 50 characters"))
	})

	It("keeps sentinels matchable after adding a cause", func() {
		cause := errors.New("record not found")
		err := fmt.Errorf("update: %w", internal.ErrExpenseNotFound.WithCause(cause))

		Expect(errors.Is(err, internal.ErrExpenseNotFound)).To(BeTrue())
		Expect(errors.Is(err, cause)).To(BeTrue())
		Expect(internal.ErrExpenseNotFound.Cause).To(BeNil())

		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(internal.ErrorTypeNotFound))
	})

	It("does not treat different codes of the same kind as equal", func() {
		Expect(errors.Is(internal.ErrExpenseIDRequired, internal.ErrExpenseIDNotInteger)).To(BeFalse())
	})
})
