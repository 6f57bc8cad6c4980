package member

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SportsBooking/internal/infra/storage"
)

var (
	// ErrMemberNotFound возвращается, когда участник не найден
	ErrMemberNotFound = fmt.Errorf("member.repository: member %w", storage.ErrNotFound)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("member.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("member.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("member.repository: failed to scan row")
)
