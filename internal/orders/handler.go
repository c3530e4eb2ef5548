package orders

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/errs"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/httpserver"
)

// Handler exposes the order pipeline over HTTP.
type Handler struct {
	logger   *slog.Logger
	pipeline *Pipeline
}

// NewHandler creates an order Handler.
func NewHandler(logger *slog.Logger, pipeline *Pipeline) *Handler {
	return &Handler{logger: logger, pipeline: pipeline}
}

// Routes returns a chi.Router with the order routes mounted.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.handleCreate)
	r.Get("/", h.handleList)
	return r
}

type createOrderRequestBody struct {
	CustomerID     uuid.UUID             `json:"customer_id" validate:"required"`
	CreationMethod string                `json:"creation_method" validate:"required,oneof=visita_vendedor app_cliente app_vendedor"`
	SellerID       *uuid.UUID            `json:"seller_id,omitempty"`
	VisitID        *uuid.UUID            `json:"visit_id,omitempty"`
	Items          []createOrderItemBody `json:"items" validate:"required,min=1,dive"`
}

type createOrderItemBody struct {
	InventoryID uuid.UUID `json:"inventory_id" validate:"required"`
	Quantity    int       `json:"quantity" validate:"required,gt=0"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var body createOrderRequestBody
	if !httpserver.DecodeAndValidate(w, r, &body) {
		return
	}

	items := make([]RequestedItem, len(body.Items))
	for i, it := range body.Items {
		items[i] = RequestedItem{InventoryID: it.InventoryID, Quantity: it.Quantity}
	}

	req := CreateOrderRequest{
		CustomerID:     body.CustomerID,
		CreationMethod: CreationMethod(body.CreationMethod),
		SellerID:       body.SellerID,
		VisitID:        body.VisitID,
		Items:          items,
	}

	order, err := h.pipeline.Create(r.Context(), req)
	if err != nil {
		httpserver.RespondErr(w, h.logger, err)
		return
	}

	httpserver.Respond(w, http.StatusCreated, order)
}

// handleList returns a page of orders for exactly one of customer_id or
// seller_id, passed as a query parameter. Callers needing a principal-scoped
// view (an authenticated customer's own orders, a seller's own orders) are
// expected to supply the id themselves — the BFF gateway resolves it from
// the authenticated principal before calling this endpoint.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	params, err := httpserver.ParsePageParams(r)
	if err != nil {
		httpserver.RespondError(w, http.StatusBadRequest, string(errs.ValidationRejected), err.Error())
		return
	}

	customerParam := r.URL.Query().Get("customer_id")
	sellerParam := r.URL.Query().Get("seller_id")

	switch {
	case customerParam != "" && sellerParam != "":
		httpserver.RespondError(w, http.StatusBadRequest, string(errs.ValidationRejected), "only one of customer_id or seller_id may be given")
		return
	case customerParam != "":
		customerID, err := uuid.Parse(customerParam)
		if err != nil {
			httpserver.RespondError(w, http.StatusBadRequest, string(errs.ValidationRejected), "customer_id must be a valid uuid")
			return
		}
		orders, total, err := h.pipeline.ListByCustomer(r.Context(), customerID, params.Limit, params.Offset)
		if err != nil {
			httpserver.RespondErr(w, h.logger, err)
			return
		}
		httpserver.Respond(w, http.StatusOK, httpserver.NewPage(orders, params, total))
	case sellerParam != "":
		sellerID, err := uuid.Parse(sellerParam)
		if err != nil {
			httpserver.RespondError(w, http.StatusBadRequest, string(errs.ValidationRejected), "seller_id must be a valid uuid")
			return
		}
		orders, total, err := h.pipeline.ListBySeller(r.Context(), sellerID, params.Limit, params.Offset)
		if err != nil {
			httpserver.RespondErr(w, h.logger, err)
			return
		}
		httpserver.Respond(w, http.StatusOK, httpserver.NewPage(orders, params, total))
	default:
		httpserver.RespondError(w, http.StatusBadRequest, string(errs.ValidationRejected), "customer_id or seller_id is required")
	}
}
