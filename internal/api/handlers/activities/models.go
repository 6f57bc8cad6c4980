package activities

import "github.com/m04kA/SMC-SportsBooking/internal/domain"

// ActivityRequest HTTP request model
// ID учитывается только в /validate, в остальных случаях берется из пути
type ActivityRequest struct {
	ID       int64  `json:"id,omitempty"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

// ActivityResponse HTTP response model
type ActivityResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

// OccupancyResponse заполненность занятия
type OccupancyResponse struct {
	ActivityID    int64   `json:"activityId"`
	Capacity      int     `json:"capacity"`
	Occupied      int     `json:"occupied"`
	Available     int     `json:"available"`
	IsFull        bool    `json:"isFull"`
	OccupancyRate float64 `json:"occupancyRate"`
}

// ToDomain конвертирует запрос в доменную модель с указанным ID
func (r *ActivityRequest) ToDomain(id int64) *domain.Activity {
	return &domain.Activity{
		ID:       id,
		Name:     r.Name,
		Capacity: r.Capacity,
	}
}

func FromDomain(a *domain.Activity) *ActivityResponse {
	return &ActivityResponse{
		ID:       a.ID,
		Name:     a.Name,
		Capacity: a.Capacity,
	}
}

func FromDomainList(list []*domain.Activity) []*ActivityResponse {
	result := make([]*ActivityResponse, 0, len(list))
	for _, a := range list {
		result = append(result, FromDomain(a))
	}
	return result
}

func FromOccupancy(o *domain.Occupancy) *OccupancyResponse {
	return &OccupancyResponse{
		ActivityID:    o.ActivityID,
		Capacity:      o.Capacity,
		Occupied:      o.Occupied,
		Available:     o.Available(),
		IsFull:        o.IsFull(),
		OccupancyRate: o.OccupancyRate(),
	}
}
