package webapp

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/bff"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/downstream"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/errs"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/httpserver"
)

// InventoriesHandler exposes inventory search to web users.
type InventoriesHandler struct {
	logger    *slog.Logger
	inventory InventoryService
}

func NewInventoriesHandler(logger *slog.Logger, inventory InventoryService) *InventoriesHandler {
	return &InventoriesHandler{logger: logger, inventory: inventory}
}

// Routes returns a chi.Router with the web-app inventory routes mounted,
// including the principal/group middleware — used standalone in tests.
func (h *InventoriesHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(bff.RequirePrincipal(h.logger))
	r.Use(bff.RequireGroup(h.logger, bff.GroupWeb))
	h.Mount(r)
	return r
}

// Mount registers the inventory route directly on r, without adding
// middleware of its own — used when several web-app handlers share one
// outer router and its middleware chain.
func (h *InventoriesHandler) Mount(r chi.Router) {
	r.Get("/inventories", h.handleList)
}

func (h *InventoriesHandler) handleList(w http.ResponseWriter, r *http.Request) {
	params, err := httpserver.ParsePageParams(r)
	if err != nil {
		httpserver.RespondError(w, http.StatusBadRequest, string(errs.ValidationRejected), err.Error())
		return
	}

	name := r.URL.Query().Get("name")
	sku := r.URL.Query().Get("sku")
	category := r.URL.Query().Get("category")
	if bff.RejectMultipleFilters(w, name, sku, category) {
		return
	}

	filter := downstream.InventoryFilter{Name: name, SKU: sku, Category: category}
	page, err := h.inventory.List(r.Context(), filter, params.Limit, params.Offset)
	if err != nil {
		httpserver.RespondErr(w, h.logger, err)
		return
	}

	httpserver.Respond(w, http.StatusOK, page)
}
