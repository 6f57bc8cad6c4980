package activities

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SportsBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SportsBooking/internal/service/booking"
)

const (
	msgInvalidRequestBody     = "некорректное тело запроса"
	msgInvalidActivityID      = "некорректный ID занятия"
	msgInvalidActivity        = "название обязательно, вместимость должна быть не меньше 1"
	msgActivityNotFound       = "занятие не найдено"
	msgActivityHasReservation = "у занятия есть брони, удаление невозможно"
	msgCapacityBelowOccupancy = "вместимость меньше текущего числа броней"
)

type Handler struct {
	service ActivityService
	logger  Logger
}

func NewHandler(service ActivityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register регистрирует маршруты /activities на роутере API
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/activities", h.List).Methods(http.MethodGet)
	r.HandleFunc("/activities", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/activities/validate", h.Validate).Methods(http.MethodPost)
	r.HandleFunc("/activities/{activityId:[0-9]+}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/activities/{activityId:[0-9]+}", h.Update).Methods(http.MethodPut)
	r.HandleFunc("/activities/{activityId:[0-9]+}", h.Delete).Methods(http.MethodDelete)
	r.HandleFunc("/activities/{activityId:[0-9]+}/occupancy", h.Occupancy).Methods(http.MethodGet)
}

// List GET /api/v1/activities
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListActivities(r.Context())
	if err != nil {
		h.logger.Error("GET /activities - Failed to list activities: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomainList(list))
}

// Create POST /api/v1/activities
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req ActivityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /activities - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	created, err := h.service.SaveActivity(r.Context(), req.ToDomain(0))
	if err != nil {
		h.respondError(w, "POST /activities", err)
		return
	}

	h.logger.Info("POST /activities - Activity created successfully: activity_id=%d", created.ID)
	handlers.RespondJSON(w, http.StatusCreated, FromDomain(created))
}

// Validate POST /api/v1/activities/validate
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	var req ActivityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /activities/validate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := h.service.ValidateActivity(r.Context(), req.ToDomain(req.ID)); err != nil {
		h.respondError(w, "POST /activities/validate", err)
		return
	}

	handlers.RespondValid(w)
}

// Get GET /api/v1/activities/{activityId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.activityID(w, r)
	if !ok {
		return
	}

	activity, err := h.service.GetActivity(r.Context(), id)
	if err != nil {
		h.respondError(w, "GET /activities/{id}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomain(activity))
}

// Update PUT /api/v1/activities/{activityId}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.activityID(w, r)
	if !ok {
		return
	}

	var req ActivityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /activities/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	updated, err := h.service.SaveActivity(r.Context(), req.ToDomain(id))
	if err != nil {
		h.respondError(w, "PUT /activities/{id}", err)
		return
	}

	h.logger.Info("PUT /activities/{id} - Activity updated successfully: activity_id=%d", id)
	handlers.RespondJSON(w, http.StatusOK, FromDomain(updated))
}

// Delete DELETE /api/v1/activities/{activityId}[?dryRun=true]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.activityID(w, r)
	if !ok {
		return
	}

	if dryRun, _ := strconv.ParseBool(r.URL.Query().Get("dryRun")); dryRun {
		if err := h.service.ValidateDeleteActivity(r.Context(), id); err != nil {
			h.respondError(w, "DELETE /activities/{id}?dryRun", err)
			return
		}
		handlers.RespondValid(w)
		return
	}

	if err := h.service.DeleteActivity(r.Context(), id); err != nil {
		h.respondError(w, "DELETE /activities/{id}", err)
		return
	}

	h.logger.Info("DELETE /activities/{id} - Activity deleted successfully: activity_id=%d", id)
	handlers.RespondNoContent(w)
}

// Occupancy GET /api/v1/activities/{activityId}/occupancy
func (h *Handler) Occupancy(w http.ResponseWriter, r *http.Request) {
	id, ok := h.activityID(w, r)
	if !ok {
		return
	}

	occupancy, err := h.service.GetOccupancy(r.Context(), id)
	if err != nil {
		h.respondError(w, "GET /activities/{id}/occupancy", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromOccupancy(occupancy))
}

func (h *Handler) activityID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["activityId"], 10, 64)
	if err != nil || id <= 0 {
		h.logger.Warn("%s %s - Invalid activity ID", r.Method, r.URL.Path)
		handlers.RespondBadRequest(w, msgInvalidActivityID)
		return 0, false
	}
	return id, true
}

func (h *Handler) respondError(w http.ResponseWriter, route string, err error) {
	switch {
	case errors.Is(err, booking.ErrInvalidInput):
		h.logger.Warn("%s - Invalid activity: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidActivity)

	case errors.Is(err, booking.ErrActivityNotFound):
		h.logger.Warn("%s - Activity not found", route)
		handlers.RespondNotFound(w, msgActivityNotFound)

	case errors.Is(err, booking.ErrActivityHasReservations):
		h.logger.Warn("%s - Activity has reservations", route)
		handlers.RespondConflict(w, msgActivityHasReservation)

	case errors.Is(err, booking.ErrCapacityBelowOccupancy):
		h.logger.Warn("%s - Capacity below occupancy: %v", route, err)
		handlers.RespondConflict(w, msgCapacityBelowOccupancy)

	default:
		h.logger.Error("%s - Failed to process activity: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
