package ptr

// Ptr возвращает указатель на копию значения
func Ptr[T any](v T) *T {
	return &v
}

// ValueOr разыменовывает указатель или возвращает значение по умолчанию
func ValueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
