package domain

// Occupancy заполненность занятия
type Occupancy struct {
	ActivityID int64
	Capacity   int
	Occupied   int
}

// Available returns the number of free spots, never negative
func (o *Occupancy) Available() int {
	if o.Occupied >= o.Capacity {
		return 0
	}
	return o.Capacity - o.Occupied
}

// IsFull returns true if the activity has no available spots
func (o *Occupancy) IsFull() bool {
	return o.Available() == 0
}

// IsOverbooked returns true if occupancy exceeds capacity
// Возможно только после уменьшения вместимости без строгой проверки
func (o *Occupancy) IsOverbooked() bool {
	return o.Occupied > o.Capacity
}

// OccupancyRate returns the occupancy rate as a percentage (0-100+)
func (o *Occupancy) OccupancyRate() float64 {
	if o.Capacity == 0 {
		return 0
	}
	return float64(o.Occupied) / float64(o.Capacity) * 100
}
