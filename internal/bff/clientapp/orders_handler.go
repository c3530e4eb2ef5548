package clientapp

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/bff"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/downstream"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/errs"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/httpserver"
)

// OrdersHandler exposes order creation and listing to the client app,
// composing a client-identity lookup with an orders-service call — the
// two downstream hops every client-app controller makes per spec.md §4.7.
type OrdersHandler struct {
	logger  *slog.Logger
	clients ClientLookup
	orders  OrderService
}

// NewOrdersHandler creates an OrdersHandler.
func NewOrdersHandler(logger *slog.Logger, clients ClientLookup, orders OrderService) *OrdersHandler {
	return &OrdersHandler{logger: logger, clients: clients, orders: orders}
}

// Routes returns a chi.Router with the client-app order routes mounted.
func (h *OrdersHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(bff.RequirePrincipal(h.logger))
	r.Use(bff.RequireGroup(h.logger, bff.GroupClient))
	r.Post("/orders", h.handleCreate)
	r.Get("/my-orders", h.handleList)
	return r
}

type createOrderItemBody struct {
	InventoryID uuid.UUID `json:"inventory_id" validate:"required"`
	Quantity    int       `json:"quantity" validate:"required,gt=0"`
}

type createOrderRequestBody struct {
	Items []createOrderItemBody `json:"items" validate:"required,min=1,dive"`
}

func (h *OrdersHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	principal, _ := bff.PrincipalFromContext(r.Context())

	var body createOrderRequestBody
	if !httpserver.DecodeAndValidate(w, r, &body) {
		return
	}

	customerID, err := h.clients.CustomerIDBySubject(r.Context(), principal.Subject)
	if err != nil {
		httpserver.RespondErr(w, h.logger, err)
		return
	}

	items := make([]downstream.OrderItemInput, len(body.Items))
	for i, it := range body.Items {
		items[i] = downstream.OrderItemInput{InventoryID: it.InventoryID, Quantity: it.Quantity}
	}

	order, err := h.orders.CreateOrder(r.Context(), customerID, items)
	if err != nil {
		httpserver.RespondErr(w, h.logger, err)
		return
	}

	httpserver.Respond(w, http.StatusCreated, order)
}

func (h *OrdersHandler) handleList(w http.ResponseWriter, r *http.Request) {
	principal, _ := bff.PrincipalFromContext(r.Context())

	params, err := httpserver.ParsePageParams(r)
	if err != nil {
		httpserver.RespondError(w, http.StatusBadRequest, string(errs.ValidationRejected), err.Error())
		return
	}

	customerID, err := h.clients.CustomerIDBySubject(r.Context(), principal.Subject)
	if err != nil {
		httpserver.RespondErr(w, h.logger, err)
		return
	}

	page, err := h.orders.ListByCustomer(r.Context(), customerID, params.Limit, params.Offset)
	if err != nil {
		httpserver.RespondErr(w, h.logger, err)
		return
	}

	httpserver.Respond(w, http.StatusOK, page)
}
