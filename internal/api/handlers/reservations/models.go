package reservations

import (
	"github.com/m04kA/SMC-SportsBooking/internal/domain"
	"github.com/m04kA/SMC-SportsBooking/pkg/types"
)

// ReservationRequest HTTP request model
type ReservationRequest struct {
	ID         int64      `json:"id,omitempty"`
	MemberID   int64      `json:"memberId"`
	ActivityID int64      `json:"activityId"`
	Date       types.Date `json:"date"` // "2026-10-16"
}

// ReservationResponse HTTP response model
// Activity и Member заполняются в списке и при получении по ID
type ReservationResponse struct {
	ID         int64            `json:"id"`
	MemberID   int64            `json:"memberId"`
	ActivityID int64            `json:"activityId"`
	Date       types.Date       `json:"date"`
	Activity   *ActivitySummary `json:"activity,omitempty"`
	Member     *MemberSummary   `json:"member,omitempty"`
}

type ActivitySummary struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

type MemberSummary struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Active bool   `json:"active"`
}

// ToDomain конвертирует запрос в доменную модель с указанным ID
func (r *ReservationRequest) ToDomain(id int64) *domain.Reservation {
	return &domain.Reservation{
		ID:         id,
		MemberID:   r.MemberID,
		ActivityID: r.ActivityID,
		Date:       r.Date.Time(),
	}
}

func FromDomain(res *domain.Reservation) *ReservationResponse {
	return &ReservationResponse{
		ID:         res.ID,
		MemberID:   res.MemberID,
		ActivityID: res.ActivityID,
		Date:       types.NewDate(res.Date),
	}
}

func FromDetails(d *domain.ReservationDetails) *ReservationResponse {
	resp := FromDomain(&d.Reservation)
	resp.Activity = &ActivitySummary{
		ID:       d.Activity.ID,
		Name:     d.Activity.Name,
		Capacity: d.Activity.Capacity,
	}
	resp.Member = &MemberSummary{
		ID:     d.Member.ID,
		Name:   d.Member.Name,
		Email:  d.Member.Email,
		Active: d.Member.Active,
	}
	return resp
}

func FromDetailsList(list []*domain.ReservationDetails) []*ReservationResponse {
	result := make([]*ReservationResponse, 0, len(list))
	for _, d := range list {
		result = append(result, FromDetails(d))
	}
	return result
}
