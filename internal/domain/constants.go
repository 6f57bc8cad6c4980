package domain

// Business validation constants
const (
	MinActivityCapacity = 1
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
