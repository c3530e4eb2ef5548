package sellersapp

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/bff"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/errs"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/httpserver"
)

// OrdersHandler exposes the authenticated seller's own order listing.
type OrdersHandler struct {
	logger  *slog.Logger
	sellers SellerLookup
	orders  OrderService
}

// NewOrdersHandler creates an OrdersHandler.
func NewOrdersHandler(logger *slog.Logger, sellers SellerLookup, orders OrderService) *OrdersHandler {
	return &OrdersHandler{logger: logger, sellers: sellers, orders: orders}
}

// Routes returns a chi.Router with the sellers-app order routes mounted,
// including the principal/group middleware — used standalone in tests.
func (h *OrdersHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(bff.RequirePrincipal(h.logger))
	r.Use(bff.RequireGroup(h.logger, bff.GroupSeller))
	h.Mount(r)
	return r
}

// Mount registers the order routes directly on r, without adding
// middleware of its own — used when several sellers-app handlers share
// one outer router and its middleware chain.
func (h *OrdersHandler) Mount(r chi.Router) {
	r.Get("/my-orders", h.handleList)
}

func (h *OrdersHandler) handleList(w http.ResponseWriter, r *http.Request) {
	principal, _ := bff.PrincipalFromContext(r.Context())

	params, err := httpserver.ParsePageParams(r)
	if err != nil {
		httpserver.RespondError(w, http.StatusBadRequest, string(errs.ValidationRejected), err.Error())
		return
	}

	sellerID, err := h.sellers.SellerIDBySubject(r.Context(), principal.Subject)
	if err != nil {
		httpserver.RespondErr(w, h.logger, err)
		return
	}

	page, err := h.orders.ListBySeller(r.Context(), sellerID, params.Limit, params.Offset)
	if err != nil {
		httpserver.RespondErr(w, h.logger, err)
		return
	}

	httpserver.Respond(w, http.StatusOK, page)
}
