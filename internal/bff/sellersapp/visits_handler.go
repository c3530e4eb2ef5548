package sellersapp

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/bff"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/httpserver"
)

// VisitsHandler proxies visit creation and status updates to the
// sellers role, resolving the authenticated seller's identity first —
// the two downstream hops every sellers-app controller makes.
type VisitsHandler struct {
	logger  *slog.Logger
	sellers SellerLookup
	visits  VisitService
}

// NewVisitsHandler creates a VisitsHandler.
func NewVisitsHandler(logger *slog.Logger, sellers SellerLookup, visits VisitService) *VisitsHandler {
	return &VisitsHandler{logger: logger, sellers: sellers, visits: visits}
}

// Routes returns a chi.Router with the sellers-app visit routes mounted,
// including the principal/group middleware — used standalone in tests.
func (h *VisitsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(bff.RequirePrincipal(h.logger))
	r.Use(bff.RequireGroup(h.logger, bff.GroupSeller))
	h.Mount(r)
	return r
}

// Mount registers the visit routes directly on r, without adding
// middleware of its own — used when several sellers-app handlers share
// one outer router and its middleware chain.
func (h *VisitsHandler) Mount(r chi.Router) {
	r.Post("/visits", h.handleCreate)
	r.Patch("/visits/{id}/status", h.handleUpdateStatus)
}

type createVisitRequestBody struct {
	ClientID    uuid.UUID `json:"client_id" validate:"required"`
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
	Notes       *string   `json:"notes,omitempty"`
}

func (h *VisitsHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	principal, _ := bff.PrincipalFromContext(r.Context())

	var body createVisitRequestBody
	if !httpserver.DecodeAndValidate(w, r, &body) {
		return
	}

	sellerID, err := h.sellers.SellerIDBySubject(r.Context(), principal.Subject)
	if err != nil {
		httpserver.RespondErr(w, h.logger, err)
		return
	}

	visit, err := h.visits.CreateVisit(r.Context(), sellerID, body.ClientID, body.ScheduledAt, body.Notes)
	if err != nil {
		httpserver.RespondErr(w, h.logger, err)
		return
	}

	httpserver.Respond(w, http.StatusCreated, visit)
}

type updateVisitStatusRequestBody struct {
	Status          string  `json:"status" validate:"required,oneof=COMPLETED CANCELLED"`
	Recommendations *string `json:"recommendations,omitempty"`
}

func (h *VisitsHandler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	visitID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpserver.RespondError(w, http.StatusBadRequest, "bad_request", "invalid visit ID")
		return
	}

	var body updateVisitStatusRequestBody
	if !httpserver.DecodeAndValidate(w, r, &body) {
		return
	}

	visit, err := h.visits.UpdateVisitStatus(r.Context(), visitID, body.Status, body.Recommendations)
	if err != nil {
		httpserver.RespondErr(w, h.logger, err)
		return
	}

	httpserver.Respond(w, http.StatusOK, visit)
}
