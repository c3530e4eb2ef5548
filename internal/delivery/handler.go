package delivery

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/httpserver"
)

// Handler exposes the vehicle fleet and shipment use cases over HTTP,
// plus a manual trigger for the route-generation scheduler.
type Handler struct {
	logger    *slog.Logger
	vehicles  *VehicleService
	shipments *ShipmentService
	scheduler *Scheduler
	routes    *RouteService
}

// NewHandler creates a delivery Handler.
func NewHandler(logger *slog.Logger, vehicles *VehicleService, shipments *ShipmentService, scheduler *Scheduler, routes *RouteService) *Handler {
	return &Handler{logger: logger, vehicles: vehicles, shipments: shipments, scheduler: scheduler, routes: routes}
}

// Routes returns a chi.Router with the delivery routes mounted.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Route("/vehicles", func(vr chi.Router) {
		vr.Get("/", h.handleListVehicles)
		vr.Post("/", h.handleCreateVehicle)
		vr.Patch("/{id}", h.handleUpdateVehicle)
		vr.Delete("/{id}", h.handleDeleteVehicle)
	})
	r.Route("/shipments", func(sr chi.Router) {
		sr.Get("/{orderId}", h.handleGetShipment)
		sr.Patch("/{orderId}/status", h.handleUpdateShipmentStatus)
	})
	r.Route("/routes", func(rr chi.Router) {
		rr.Post("/generate", h.handleGenerateRoutes)
		rr.Get("/", h.handleListRoutes)
		rr.Get("/{id}", h.handleGetRoute)
	})
	return r
}

func (h *Handler) handleListVehicles(w http.ResponseWriter, r *http.Request) {
	params, err := httpserver.ParsePageParams(r)
	if err != nil {
		httpserver.RespondError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	vehicles, err := h.vehicles.ListActive(r.Context())
	if err != nil {
		httpserver.RespondErr(w, h.logger, err)
		return
	}

	httpserver.Respond(w, http.StatusOK, httpserver.NewPage(vehicles, params, len(vehicles)))
}

type createVehicleRequestBody struct {
	Placa       string  `json:"placa" validate:"required"`
	DriverName  string  `json:"driver_name" validate:"required"`
	DriverPhone *string `json:"driver_phone,omitempty"`
}

func (h *Handler) handleCreateVehicle(w http.ResponseWriter, r *http.Request) {
	var body createVehicleRequestBody
	if !httpserver.DecodeAndValidate(w, r, &body) {
		return
	}

	v, err := h.vehicles.Create(r.Context(), CreateVehicleRequest{
		Placa:       body.Placa,
		DriverName:  body.DriverName,
		DriverPhone: body.DriverPhone,
	})
	if err != nil {
		httpserver.RespondErr(w, h.logger, err)
		return
	}

	httpserver.Respond(w, http.StatusCreated, v)
}

type updateVehicleRequestBody struct {
	DriverName  *string `json:"driver_name,omitempty"`
	DriverPhone *string `json:"driver_phone,omitempty"`
}

func (h *Handler) handleUpdateVehicle(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpserver.RespondError(w, http.StatusBadRequest, "bad_request", "invalid vehicle ID")
		return
	}

	var body updateVehicleRequestBody
	if !httpserver.DecodeAndValidate(w, r, &body) {
		return
	}

	v, err := h.vehicles.Update(r.Context(), UpdateVehicleRequest{
		VehicleID:   vehicleID,
		DriverName:  body.DriverName,
		DriverPhone: body.DriverPhone,
	})
	if err != nil {
		httpserver.RespondErr(w, h.logger, err)
		return
	}

	httpserver.Respond(w, http.StatusOK, v)
}

func (h *Handler) handleDeleteVehicle(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpserver.RespondError(w, http.StatusBadRequest, "bad_request", "invalid vehicle ID")
		return
	}

	if err := h.vehicles.Delete(r.Context(), vehicleID); err != nil {
		httpserver.RespondErr(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleGetShipment(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
	if err != nil {
		httpserver.RespondError(w, http.StatusBadRequest, "bad_request", "invalid order ID")
		return
	}

	sh, err := h.shipments.GetByOrderID(r.Context(), orderID)
	if err != nil {
		httpserver.RespondErr(w, h.logger, err)
		return
	}

	httpserver.Respond(w, http.StatusOK, sh)
}

type updateShipmentStatusRequestBody struct {
	Status string `json:"status" validate:"required,oneof=IN_TRANSIT DELIVERED"`
}

func (h *Handler) handleUpdateShipmentStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
	if err != nil {
		httpserver.RespondError(w, http.StatusBadRequest, "bad_request", "invalid order ID")
		return
	}

	var body updateShipmentStatusRequestBody
	if !httpserver.DecodeAndValidate(w, r, &body) {
		return
	}

	sh, err := h.shipments.UpdateStatusByOrderID(r.Context(), orderID, ShipmentStatus(body.Status))
	if err != nil {
		httpserver.RespondErr(w, h.logger, err)
		return
	}

	httpserver.Respond(w, http.StatusOK, sh)
}

type generateRoutesRequestBody struct {
	RouteDate time.Time `json:"route_date" validate:"required"`
}

func (h *Handler) handleGenerateRoutes(w http.ResponseWriter, r *http.Request) {
	var body generateRoutesRequestBody
	if !httpserver.DecodeAndValidate(w, r, &body) {
		return
	}

	routes, err := h.scheduler.GenerateRoutes(r.Context(), body.RouteDate)
	if err != nil {
		httpserver.RespondErr(w, h.logger, err)
		return
	}

	httpserver.Respond(w, http.StatusOK, routes)
}

func (h *Handler) handleListRoutes(w http.ResponseWriter, r *http.Request) {
	dateParam := r.URL.Query().Get("route_date")
	if dateParam == "" {
		httpserver.RespondError(w, http.StatusBadRequest, "bad_request", "route_date is required")
		return
	}
	routeDate, err := time.Parse(time.DateOnly, dateParam)
	if err != nil {
		httpserver.RespondError(w, http.StatusBadRequest, "bad_request", "route_date must be YYYY-MM-DD")
		return
	}

	routes, err := h.routes.ListByDate(r.Context(), routeDate)
	if err != nil {
		httpserver.RespondErr(w, h.logger, err)
		return
	}

	httpserver.Respond(w, http.StatusOK, routes)
}

func (h *Handler) handleGetRoute(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpserver.RespondError(w, http.StatusBadRequest, "bad_request", "invalid route id")
		return
	}

	rt, err := h.routes.Get(r.Context(), id)
	if err != nil {
		httpserver.RespondErr(w, h.logger, err)
		return
	}

	httpserver.Respond(w, http.StatusOK, rt)
}
