package webapp

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/bff"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/errs"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/httpserver"
)

// SalesPlansHandler exposes sales plan creation and listing to web users.
type SalesPlansHandler struct {
	logger    *slog.Logger
	salesPlans SalesPlanService
}

func NewSalesPlansHandler(logger *slog.Logger, salesPlans SalesPlanService) *SalesPlansHandler {
	return &SalesPlansHandler{logger: logger, salesPlans: salesPlans}
}

// Routes returns a chi.Router with the web-app sales plan routes mounted,
// including the principal/group middleware — used standalone in tests.
func (h *SalesPlansHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(bff.RequirePrincipal(h.logger))
	r.Use(bff.RequireGroup(h.logger, bff.GroupWeb))
	h.Mount(r)
	return r
}

// Mount registers the sales plan routes directly on r, without adding
// middleware of its own — used when several web-app handlers share one
// outer router and its middleware chain.
func (h *SalesPlansHandler) Mount(r chi.Router) {
	r.Post("/sales-plans", h.handleCreate)
	r.Get("/sales-plans", h.handleList)
}

type createSalesPlanRequestBody struct {
	SellerID    uuid.UUID       `json:"seller_id" validate:"required"`
	SalesPeriod string          `json:"sales_period" validate:"required"`
	GoalType    string          `json:"goal_type" validate:"required,oneof=sales visits"`
	Goal        decimal.Decimal `json:"goal" validate:"required"`
}

func (h *SalesPlansHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var body createSalesPlanRequestBody
	if !httpserver.DecodeAndValidate(w, r, &body) {
		return
	}

	plan, err := h.salesPlans.CreateSalesPlan(r.Context(), body.SellerID, body.SalesPeriod, body.GoalType, body.Goal)
	if err != nil {
		httpserver.RespondErr(w, h.logger, err)
		return
	}

	httpserver.Respond(w, http.StatusCreated, plan)
}

func (h *SalesPlansHandler) handleList(w http.ResponseWriter, r *http.Request) {
	params, err := httpserver.ParsePageParams(r)
	if err != nil {
		httpserver.RespondError(w, http.StatusBadRequest, string(errs.ValidationRejected), err.Error())
		return
	}

	sellerID, err := uuid.Parse(r.URL.Query().Get("seller_id"))
	if err != nil {
		httpserver.RespondError(w, http.StatusBadRequest, string(errs.ValidationRejected), "seller_id is required")
		return
	}

	page, err := h.salesPlans.ListSalesPlans(r.Context(), sellerID, params.Limit, params.Offset)
	if err != nil {
		httpserver.RespondErr(w, h.logger, err)
		return
	}

	httpserver.Respond(w, http.StatusOK, page)
}
