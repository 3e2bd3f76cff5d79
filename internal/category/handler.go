package category

import (
	"context"
	"net/http"

	"github.com/frahmantamala/expense-tracker/internal/transport"
)

type ServiceAPI interface {
	ListCategories(ctx context.Context) ([]string, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// GetCategories handles GET /api/categories
func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Service.ListCategories(r.Context())
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, categories)
}
