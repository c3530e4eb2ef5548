package salesplan

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/errs"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/httpserver"
)

// Handler exposes sales-plan creation and listing over HTTP.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler creates a sales-plan Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// Routes returns a chi.Router with the sales-plan routes mounted.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.handleCreate)
	r.Get("/", h.handleList)
	return r
}

type createPlanRequestBody struct {
	SellerID    uuid.UUID       `json:"seller_id" validate:"required"`
	SalesPeriod string          `json:"sales_period" validate:"required"`
	GoalType    string          `json:"goal_type" validate:"required,oneof=sales visits"`
	Goal        decimal.Decimal `json:"goal" validate:"required"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var body createPlanRequestBody
	if !httpserver.DecodeAndValidate(w, r, &body) {
		return
	}

	plan, err := h.service.Create(r.Context(), CreatePlanRequest{
		SellerID:    body.SellerID,
		SalesPeriod: body.SalesPeriod,
		GoalType:    GoalType(body.GoalType),
		Goal:        body.Goal,
	})
	if err != nil {
		httpserver.RespondErr(w, h.logger, err)
		return
	}

	httpserver.Respond(w, http.StatusCreated, plan)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	params, err := httpserver.ParsePageParams(r)
	if err != nil {
		httpserver.RespondError(w, http.StatusBadRequest, string(errs.ValidationRejected), err.Error())
		return
	}

	sellerID, err := uuid.Parse(r.URL.Query().Get("seller_id"))
	if err != nil {
		httpserver.RespondError(w, http.StatusBadRequest, string(errs.ValidationRejected), "seller_id must be a valid uuid")
		return
	}

	plans, total, err := h.service.ListBySeller(r.Context(), sellerID, params.Limit, params.Offset)
	if err != nil {
		httpserver.RespondErr(w, h.logger, err)
		return
	}

	httpserver.Respond(w, http.StatusOK, httpserver.NewPage(plans, params, total))
}
