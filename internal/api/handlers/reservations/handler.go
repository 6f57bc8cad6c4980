package reservations

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SportsBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SportsBooking/internal/service/booking"
	"github.com/m04kA/SMC-SportsBooking/pkg/types"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidDate         = "некорректный формат даты брони, ожидается YYYY-MM-DD"
	msgInvalidReservation  = "не выбраны участник, занятие или дата"
	msgInvalidID           = "некорректный ID брони"
	msgPastDate            = "нельзя бронировать на прошедшую дату"
	msgCapacityExceeded    = "на занятии нет свободных мест"
	msgDuplicateBooking    = "участник уже записан на это занятие в этот день"
	msgActivityNotFound    = "занятие не найдено"
	msgMemberNotFound      = "участник не найден"
	msgReservationNotFound = "бронь не найдена"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register регистрирует маршруты /reservations на роутере API
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/reservations", h.List).Methods(http.MethodGet)
	r.HandleFunc("/reservations", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/reservations/validate", h.Validate).Methods(http.MethodPost)
	r.HandleFunc("/reservations/{reservationId:[0-9]+}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/reservations/{reservationId:[0-9]+}", h.Update).Methods(http.MethodPut)
	r.HandleFunc("/reservations/{reservationId:[0-9]+}", h.Delete).Methods(http.MethodDelete)
}

// List GET /api/v1/reservations
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListReservations(r.Context())
	if err != nil {
		h.logger.Error("GET /reservations - Failed to list reservations: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDetailsList(list))
}

// Create POST /api/v1/reservations
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r, "POST /reservations")
	if !ok {
		return
	}

	created, err := h.service.SaveReservation(r.Context(), req.ToDomain(0))
	if err != nil {
		h.respondError(w, "POST /reservations", err)
		return
	}

	h.logger.Info("POST /reservations - Reservation created successfully: reservation_id=%d, member_id=%d, activity_id=%d",
		created.ID, created.MemberID, created.ActivityID)
	handlers.RespondJSON(w, http.StatusCreated, FromDomain(created))
}

// Validate POST /api/v1/reservations/validate
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r, "POST /reservations/validate")
	if !ok {
		return
	}

	if err := h.service.ValidateReservation(r.Context(), req.ToDomain(req.ID)); err != nil {
		h.respondError(w, "POST /reservations/validate", err)
		return
	}

	handlers.RespondValid(w)
}

// Get GET /api/v1/reservations/{reservationId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.reservationID(w, r)
	if !ok {
		return
	}

	details, err := h.service.GetReservation(r.Context(), id)
	if err != nil {
		h.respondError(w, "GET /reservations/{id}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDetails(details))
}

// Update PUT /api/v1/reservations/{reservationId}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.reservationID(w, r)
	if !ok {
		return
	}

	req, ok := h.decode(w, r, "PUT /reservations/{id}")
	if !ok {
		return
	}

	updated, err := h.service.SaveReservation(r.Context(), req.ToDomain(id))
	if err != nil {
		h.respondError(w, "PUT /reservations/{id}", err)
		return
	}

	h.logger.Info("PUT /reservations/{id} - Reservation updated successfully: reservation_id=%d", id)
	handlers.RespondJSON(w, http.StatusOK, FromDomain(updated))
}

// Delete DELETE /api/v1/reservations/{reservationId}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.reservationID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteReservation(r.Context(), id); err != nil {
		h.respondError(w, "DELETE /reservations/{id}", err)
		return
	}

	h.logger.Info("DELETE /reservations/{id} - Reservation deleted successfully: reservation_id=%d", id)
	handlers.RespondNoContent(w)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, route string) (*ReservationRequest, bool) {
	var req ReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		if errors.Is(err, types.ErrInvalidDate) {
			handlers.RespondBadRequest(w, msgInvalidDate)
		} else {
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
		}
		return nil, false
	}
	return &req, true
}

func (h *Handler) reservationID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["reservationId"], 10, 64)
	if err != nil || id <= 0 {
		h.logger.Warn("%s %s - Invalid reservation ID", r.Method, r.URL.Path)
		handlers.RespondBadRequest(w, msgInvalidID)
		return 0, false
	}
	return id, true
}

// respondError переводит ошибку сервиса в HTTP статус и сообщение
func (h *Handler) respondError(w http.ResponseWriter, route string, err error) {
	switch {
	case errors.Is(err, booking.ErrInvalidInput):
		h.logger.Warn("%s - Invalid reservation: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidReservation)

	case errors.Is(err, booking.ErrPastDate):
		h.logger.Warn("%s - Past date: %v", route, err)
		handlers.RespondBadRequest(w, msgPastDate)

	case errors.Is(err, booking.ErrCapacityExceeded):
		h.logger.Warn("%s - Capacity exceeded: %v", route, err)
		handlers.RespondConflict(w, msgCapacityExceeded)

	case errors.Is(err, booking.ErrDuplicateBooking):
		h.logger.Warn("%s - Duplicate booking", route)
		handlers.RespondConflict(w, msgDuplicateBooking)

	case errors.Is(err, booking.ErrActivityNotFound):
		h.logger.Warn("%s - Activity not found", route)
		handlers.RespondNotFound(w, msgActivityNotFound)

	case errors.Is(err, booking.ErrMemberNotFound):
		h.logger.Warn("%s - Member not found", route)
		handlers.RespondNotFound(w, msgMemberNotFound)

	case errors.Is(err, booking.ErrReservationNotFound):
		h.logger.Warn("%s - Reservation not found", route)
		handlers.RespondNotFound(w, msgReservationNotFound)

	default:
		h.logger.Error("%s - Failed to process reservation: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
