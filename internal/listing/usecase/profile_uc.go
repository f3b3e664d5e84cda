package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/daniyar-kh/marketplace-backend/internal/listing/domain"
)

// MinUsernameLength is the shortest accepted display name.
const MinUsernameLength = 3

type ProfileUsecase struct {
	users  domain.UserRepository
	logger *zap.Logger
}

func NewProfileUsecase(users domain.UserRepository, logger *zap.Logger) *ProfileUsecase {
	return &ProfileUsecase{users: users, logger: logger}
}

// GetProfile returns the principal's display profile. The identity exists in
// the auth provider before any profile row does, so a missing row is an empty
// profile, not an error.
func (uc *ProfileUsecase) GetProfile(ctx context.Context, principal domain.Principal) (*domain.Profile, error) {
	profile, err := uc.users.FindProfile(ctx, principal.ID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		return &domain.Profile{ID: principal.ID}, nil
	}
	if err != nil {
		uc.logger.Error("failed to load profile", zap.String("principal_id", principal.ID), zap.Error(err))
		return nil, err
	}
	return profile, nil
}

// UpdateProfile sets the principal's username, creating the profile row on
// first use.
func (uc *ProfileUsecase) UpdateProfile(ctx context.Context, principal domain.Principal, username string) (*domain.Profile, error) {
	username = strings.TrimSpace(username)
	if utf8.RuneCountInString(username) < MinUsernameLength {
		return nil, fmt.Errorf("%w: username must be at least %d characters", domain.ErrValidation, MinUsernameLength)
	}

	profile := &domain.Profile{ID: principal.ID, Username: username}
	if err := uc.users.UpsertProfile(ctx, profile); err != nil {
		uc.logger.Error("failed to save profile", zap.String("principal_id", principal.ID), zap.Error(err))
		return nil, err
	}
	return profile, nil
}
