package visit

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/httpserver"
)

// Handler exposes the visit saga over HTTP.
type Handler struct {
	logger *slog.Logger
	saga   *Saga
}

// NewHandler creates a visit Handler.
func NewHandler(logger *slog.Logger, saga *Saga) *Handler {
	return &Handler{logger: logger, saga: saga}
}

// Routes returns a chi.Router with the visit routes mounted.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.handleCreate)
	r.Patch("/{id}/status", h.handleUpdateStatus)
	return r
}

type createVisitRequestBody struct {
	SellerID    uuid.UUID `json:"seller_id" validate:"required"`
	ClientID    uuid.UUID `json:"client_id" validate:"required"`
	ScheduledAt time.Time `json:"fecha_visita" validate:"required"`
	Notes       *string   `json:"notas_visita,omitempty"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var body createVisitRequestBody
	if !httpserver.DecodeAndValidate(w, r, &body) {
		return
	}

	v, err := h.saga.Create(r.Context(), CreateRequest{
		SellerID:    body.SellerID,
		ClientID:    body.ClientID,
		ScheduledAt: body.ScheduledAt,
		Notes:       body.Notes,
	})
	if err != nil {
		httpserver.RespondErr(w, h.logger, err)
		return
	}

	httpserver.Respond(w, http.StatusCreated, v)
}

type updateStatusRequestBody struct {
	Status          string  `json:"status" validate:"required,oneof=COMPLETED CANCELLED"`
	Recommendations *string `json:"recomendaciones,omitempty"`
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	visitID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpserver.RespondError(w, http.StatusBadRequest, "bad_request", "invalid visit ID")
		return
	}

	var body updateStatusRequestBody
	if !httpserver.DecodeAndValidate(w, r, &body) {
		return
	}

	v, err := h.saga.UpdateStatus(r.Context(), UpdateStatusRequest{
		VisitID:         visitID,
		NewStatus:       Status(body.Status),
		Recommendations: body.Recommendations,
	})
	if err != nil {
		httpserver.RespondErr(w, h.logger, err)
		return
	}

	httpserver.Respond(w, http.StatusOK, v)
}
