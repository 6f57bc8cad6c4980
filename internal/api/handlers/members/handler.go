package members

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SportsBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SportsBooking/internal/service/booking"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidMemberID      = "некорректный ID участника"
	msgInvalidMember        = "имя обязательно, email должен быть корректным"
	msgMemberNotFound       = "участник не найден"
	msgMemberHasReservation = "у участника есть брони, удаление невозможно"
)

type Handler struct {
	service MemberService
	logger  Logger
}

func NewHandler(service MemberService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register регистрирует маршруты /members на роутере API
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/members", h.List).Methods(http.MethodGet)
	r.HandleFunc("/members", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/members/validate", h.Validate).Methods(http.MethodPost)
	r.HandleFunc("/members/{memberId:[0-9]+}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/members/{memberId:[0-9]+}", h.Update).Methods(http.MethodPut)
	r.HandleFunc("/members/{memberId:[0-9]+}", h.Delete).Methods(http.MethodDelete)
}

// List GET /api/v1/members
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListMembers(r.Context())
	if err != nil {
		h.logger.Error("GET /members - Failed to list members: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomainList(list))
}

// Create POST /api/v1/members
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req MemberRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /members - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	created, err := h.service.SaveMember(r.Context(), req.ToDomain(0))
	if err != nil {
		h.respondError(w, "POST /members", err)
		return
	}

	h.logger.Info("POST /members - Member created successfully: member_id=%d", created.ID)
	handlers.RespondJSON(w, http.StatusCreated, FromDomain(created))
}

// Validate POST /api/v1/members/validate
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	var req MemberRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /members/validate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := h.service.ValidateMember(r.Context(), req.ToDomain(req.ID)); err != nil {
		h.respondError(w, "POST /members/validate", err)
		return
	}

	handlers.RespondValid(w)
}

// Get GET /api/v1/members/{memberId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.memberID(w, r)
	if !ok {
		return
	}

	member, err := h.service.GetMember(r.Context(), id)
	if err != nil {
		h.respondError(w, "GET /members/{id}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomain(member))
}

// Update PUT /api/v1/members/{memberId}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.memberID(w, r)
	if !ok {
		return
	}

	var req MemberRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /members/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	updated, err := h.service.SaveMember(r.Context(), req.ToDomain(id))
	if err != nil {
		h.respondError(w, "PUT /members/{id}", err)
		return
	}

	h.logger.Info("PUT /members/{id} - Member updated successfully: member_id=%d", id)
	handlers.RespondJSON(w, http.StatusOK, FromDomain(updated))
}

// Delete DELETE /api/v1/members/{memberId}[?dryRun=true]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.memberID(w, r)
	if !ok {
		return
	}

	if dryRun, _ := strconv.ParseBool(r.URL.Query().Get("dryRun")); dryRun {
		if err := h.service.ValidateDeleteMember(r.Context(), id); err != nil {
			h.respondError(w, "DELETE /members/{id}?dryRun", err)
			return
		}
		handlers.RespondValid(w)
		return
	}

	if err := h.service.DeleteMember(r.Context(), id); err != nil {
		h.respondError(w, "DELETE /members/{id}", err)
		return
	}

	h.logger.Info("DELETE /members/{id} - Member deleted successfully: member_id=%d", id)
	handlers.RespondNoContent(w)
}

func (h *Handler) memberID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["memberId"], 10, 64)
	if err != nil || id <= 0 {
		h.logger.Warn("%s %s - Invalid member ID", r.Method, r.URL.Path)
		handlers.RespondBadRequest(w, msgInvalidMemberID)
		return 0, false
	}
	return id, true
}

func (h *Handler) respondError(w http.ResponseWriter, route string, err error) {
	switch {
	case errors.Is(err, booking.ErrInvalidInput):
		h.logger.Warn("%s - Invalid member: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidMember)

	case errors.Is(err, booking.ErrMemberNotFound):
		h.logger.Warn("%s - Member not found", route)
		handlers.RespondNotFound(w, msgMemberNotFound)

	case errors.Is(err, booking.ErrMemberHasReservations):
		h.logger.Warn("%s - Member has reservations", route)
		handlers.RespondConflict(w, msgMemberHasReservation)

	default:
		h.logger.Error("%s - Failed to process member: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
