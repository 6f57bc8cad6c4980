package domain

// Activity бронируемое занятие с ограниченной вместимостью
type Activity struct {
	ID       int64
	Name     string
	Capacity int
}

// IsPersisted returns true if the activity has already been stored
func (a *Activity) IsPersisted() bool {
	return a.ID != 0
}
