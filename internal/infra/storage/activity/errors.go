package activity

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SportsBooking/internal/infra/storage"
)

var (
	// ErrActivityNotFound возвращается, когда занятие не найдено
	ErrActivityNotFound = fmt.Errorf("activity.repository: activity %w", storage.ErrNotFound)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("activity.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("activity.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("activity.repository: failed to scan row")
)
