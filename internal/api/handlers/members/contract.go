package members

import (
	"context"

	"github.com/m04kA/SMC-SportsBooking/internal/domain"
)

type MemberService interface {
	ListMembers(ctx context.Context) ([]*domain.Member, error)
	GetMember(ctx context.Context, id int64) (*domain.Member, error)
	SaveMember(ctx context.Context, member *domain.Member) (*domain.Member, error)
	ValidateMember(ctx context.Context, member *domain.Member) error
	DeleteMember(ctx context.Context, id int64) error
	ValidateDeleteMember(ctx context.Context, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
