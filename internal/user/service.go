package user

import (
	"context"
	"errors"
	"log/slog"

	apperrors "github.com/henryantwi/activity-tracker/internal"
	"github.com/henryantwi/activity-tracker/internal/auth"
)

type Repository interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	List(ctx context.Context) ([]Summary, error)
	UpdateRole(ctx context.Context, id int64, role string, isAdmin bool) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.NewNotFoundError("user not found", apperrors.ErrCodeUserNotFound)
		}
		s.logger.Error("failed to get user", "user_id", id, "error", err)
		return nil, apperrors.NewInternalError("failed to get user", err)
	}
	return u, nil
}

// ListSummaries returns every active user as an id and name pair for
// assignee and handover recipient pickers.
func (s *Service) ListSummaries(ctx context.Context) ([]Summary, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, apperrors.NewInternalError("failed to list users", err)
	}
	return users, nil
}

// AssignRole changes a user's role. Only administrators may call it, and
// granting the admin role also sets the legacy is_admin flag so both
// representations stay in sync.
func (s *Service) AssignRole(ctx context.Context, actor *auth.User, targetID int64, dto UpdateRoleDTO) (*User, error) {
	if !actor.IsAdministrator() {
		return nil, apperrors.NewForbiddenError("only administrators can assign roles")
	}
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	target, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.NewNotFoundError("user not found", apperrors.ErrCodeUserNotFound)
		}
		return nil, apperrors.NewInternalError("failed to get user", err)
	}

	isAdmin := dto.Role == auth.RoleAdmin
	if err := s.repo.UpdateRole(ctx, target.ID, dto.Role, isAdmin); err != nil {
		s.logger.Error("failed to update role", "user_id", target.ID, "role", dto.Role, "error", err)
		return nil, apperrors.NewInternalError("failed to update role", err)
	}

	s.logger.Info("role assigned",
		"actor_id", actor.ID,
		"user_id", target.ID,
		"previous_role", target.Role,
		"new_role", dto.Role,
	)

	target.Role = dto.Role
	target.IsAdmin = isAdmin
	return target, nil
}
