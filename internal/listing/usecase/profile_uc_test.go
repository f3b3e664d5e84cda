package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/daniyar-kh/marketplace-backend/internal/listing/domain"
	"github.com/daniyar-kh/marketplace-backend/internal/listing/usecase"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) FindProfile(ctx context.Context, id string) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *mockUserRepo) UpsertProfile(ctx context.Context, profile *domain.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func TestGetProfile_MissingRowIsEmptyProfile(t *testing.T) {
	users := new(mockUserRepo)
	uc := usecase.NewProfileUsecase(users, zap.NewNop())

	users.On("FindProfile", mock.Anything, "user-a").Return(nil, domain.ErrProfileNotFound)

	profile, err := uc.GetProfile(context.Background(), domain.Principal{ID: "user-a"})

	require.NoError(t, err)
	assert.Equal(t, "user-a", profile.ID)
	assert.Empty(t, profile.Username)
}

func TestGetProfile_RepositoryFailurePropagates(t *testing.T) {
	users := new(mockUserRepo)
	uc := usecase.NewProfileUsecase(users, zap.NewNop())

	users.On("FindProfile", mock.Anything, "user-a").Return(nil, errors.New("connection reset"))

	_, err := uc.GetProfile(context.Background(), domain.Principal{ID: "user-a"})

	assert.Error(t, err)
}

func TestUpdateProfile_TrimsAndSaves(t *testing.T) {
	users := new(mockUserRepo)
	uc := usecase.NewProfileUsecase(users, zap.NewNop())

	users.On("UpsertProfile", mock.Anything, mock.MatchedBy(func(p *domain.Profile) bool {
		return p.ID == "user-a" && p.Username == "dana"
	})).Return(nil)

	profile, err := uc.UpdateProfile(context.Background(), domain.Principal{ID: "user-a"}, "  dana  ")

	require.NoError(t, err)
	assert.Equal(t, "dana", profile.Username)
	users.AssertExpectations(t)
}

func TestUpdateProfile_RejectsShortUsername(t *testing.T) {
	users := new(mockUserRepo)
	uc := usecase.NewProfileUsecase(users, zap.NewNop())

	for _, username := range []string{"", "ab", "  ab  "} {
		_, err := uc.UpdateProfile(context.Background(), domain.Principal{ID: "user-a"}, username)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
	users.AssertNotCalled(t, "UpsertProfile", mock.Anything, mock.Anything)
}
