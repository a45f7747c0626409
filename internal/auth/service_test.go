package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/emekaorji/cartify-backend/internal/users"
	pkgauth "github.com/emekaorji/cartify-backend/pkg/auth"
	"github.com/emekaorji/cartify-backend/pkg/config"
	"github.com/emekaorji/cartify-backend/pkg/db/models"
	"github.com/emekaorji/cartify-backend/pkg/enums"
	pkgerrors "github.com/emekaorji/cartify-backend/pkg/errors"
	"github.com/emekaorji/cartify-backend/pkg/security"
)

type stubUserRepo struct {
	byEmail   map[string]*models.User
	created   []users.CreateUserDTO
	createErr error
}

func (s *stubUserRepo) Create(_ context.Context, dto users.CreateUserDTO) (*models.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = append(s.created, dto)
	return &models.User{
		ID:           uuid.New(),
		Email:        dto.Email,
		PasswordHash: dto.PasswordHash,
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		Role:         dto.Role,
	}, nil
}

func (s *stubUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := s.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	for _, u := range s.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "cartify-test", ExpirationMinutes: 15}
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{ArgonMemoryKB: 8 * 1024, ArgonTime: 1, ArgonParallelism: 1}
}

func newTestService(t *testing.T, repo *stubUserRepo) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		JWTConfig:      testJWTConfig(),
		PasswordConfig: testPasswordConfig(),
	})
	require.NoError(t, err)
	return svc
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(ServiceParams{JWTConfig: testJWTConfig()})
	require.Error(t, err)

	_, err = NewService(ServiceParams{UserRepo: &stubUserRepo{}})
	require.Error(t, err)
}

func TestRegisterHashesPasswordAndLowercasesEmail(t *testing.T) {
	repo := &stubUserRepo{byEmail: map[string]*models.User{}}
	svc := newTestService(t, repo)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Email:     "  Buyer@Example.COM ",
		Password:  "hunter2hunter2",
		FirstName: "Ada",
		LastName:  "Obi",
	})
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	created := repo.created[0]
	assert.Equal(t, "buyer@example.com", created.Email)
	assert.NotEqual(t, "hunter2hunter2", created.PasswordHash)
	ok, err := security.VerifyPassword("hunter2hunter2", created.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, enums.UserRoleCustomer, resp.User.Role)
}

func TestRegisterDuplicateEmailMapsToConflict(t *testing.T) {
	repo := &stubUserRepo{
		byEmail:   map[string]*models.User{},
		createErr: errors.New(`duplicate key value violates unique constraint "users_email_key"`),
	}
	svc := newTestService(t, repo)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:     "buyer@example.com",
		Password:  "hunter2hunter2",
		FirstName: "Ada",
		LastName:  "Obi",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestLoginMintsTokenWithRoleClaim(t *testing.T) {
	hash, err := security.HashPassword("hunter2hunter2", testPasswordConfig())
	require.NoError(t, err)
	user := &models.User{
		ID:           uuid.New(),
		Email:        "buyer@example.com",
		PasswordHash: hash,
		Role:         enums.UserRoleCustomer,
	}
	repo := &stubUserRepo{byEmail: map[string]*models.User{user.Email: user}}
	svc := newTestService(t, repo)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "Buyer@Example.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, enums.UserRoleCustomer, claims.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	hash, err := security.HashPassword("correct-password", testPasswordConfig())
	require.NoError(t, err)
	user := &models.User{ID: uuid.New(), Email: "buyer@example.com", PasswordHash: hash}
	repo := &stubUserRepo{byEmail: map[string]*models.User{user.Email: user}}
	svc := newTestService(t, repo)

	cases := []LoginRequest{
		{Email: "buyer@example.com", Password: "wrong-password"},
		{Email: "unknown@example.com", Password: "correct-password"},
		{Email: "", Password: "correct-password"},
	}
	for _, req := range cases {
		_, err := svc.Login(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
		assert.Equal(t, invalidCredentialsMessage, pkgerrors.As(err).Message())
	}
}
