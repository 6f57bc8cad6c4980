// Package storage общие ошибки реализаций хранилища
package storage

import "errors"

// ErrNotFound оборачивается ошибками "не найдено" всех репозиториев,
// чтобы сервис не зависел от конкретной реализации хранилища
var ErrNotFound = errors.New("storage: record not found")
