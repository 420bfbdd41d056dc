package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pariskandee/real-estate/internal/platform/logger"
	"github.com/pariskandee/real-estate/internal/user/domain"
)

// UserUsecase exposes the provider's user directory: profile lookup for the
// caller, enumeration and role management for admins.
type UserUsecase struct {
	directory domain.Directory
	logger    *logger.Logger
}

func NewUserUsecase(directory domain.Directory, log *logger.Logger) *UserUsecase {
	return &UserUsecase{directory: directory, logger: log.Named("user")}
}

// GetProfile returns the caller's directory entry, materializing it from
// the verified token claims on first sight.
func (uc *UserUsecase) GetProfile(ctx context.Context, userID, email string) (*domain.User, error) {
	if err := uc.directory.Ensure(ctx, &domain.User{ID: userID, Email: email}); err != nil {
		uc.logger.Warn("failed to ensure directory entry", zap.String("user_id", userID), zap.Error(err))
	}
	user, err := uc.directory.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (uc *UserUsecase) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := uc.directory.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// SetRole updates the role claim in the directory. The change reaches the
// subject's tokens at their next issuance, same as a provider custom claim.
func (uc *UserUsecase) SetRole(ctx context.Context, userID, role string) error {
	if role != domain.RoleUser && role != domain.RoleAdmin {
		return domain.ErrInvalidRole
	}
	if err := uc.directory.SetRole(ctx, userID, role); err != nil {
		return err
	}
	uc.logger.Info("user role updated", zap.String("user_id", userID), zap.String("role", role))
	return nil
}
