package members

import (
	"github.com/m04kA/SMC-SportsBooking/internal/domain"
	"github.com/m04kA/SMC-SportsBooking/pkg/ptr"
)

// MemberRequest HTTP request model
// Active по умолчанию true, если поле не передано
type MemberRequest struct {
	ID     int64  `json:"id,omitempty"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Active *bool  `json:"active,omitempty"`
}

// MemberResponse HTTP response model
type MemberResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Active bool   `json:"active"`
}

// ToDomain конвертирует запрос в доменную модель с указанным ID
func (r *MemberRequest) ToDomain(id int64) *domain.Member {
	return &domain.Member{
		ID:     id,
		Name:   r.Name,
		Email:  r.Email,
		Active: ptr.ValueOr(r.Active, true),
	}
}

func FromDomain(m *domain.Member) *MemberResponse {
	return &MemberResponse{
		ID:     m.ID,
		Name:   m.Name,
		Email:  m.Email,
		Active: m.Active,
	}
}

func FromDomainList(list []*domain.Member) []*MemberResponse {
	result := make([]*MemberResponse, 0, len(list))
	for _, m := range list {
		result = append(result, FromDomain(m))
	}
	return result
}
