package reservation

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SportsBooking/internal/infra/storage"
)

var (
	// ErrReservationNotFound возвращается, когда бронь не найдена
	ErrReservationNotFound = fmt.Errorf("reservation.repository: reservation %w", storage.ErrNotFound)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("reservation.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("reservation.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("reservation.repository: failed to scan row")
)
