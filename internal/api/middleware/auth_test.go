package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upravdom/resident-portal/internal/api/middleware"
	"github.com/upravdom/resident-portal/internal/application/services"
	"github.com/upravdom/resident-portal/internal/domain/entities"
	"github.com/upravdom/resident-portal/pkg/config"
	apperrors "github.com/upravdom/resident-portal/pkg/errors"
)

// stubUserRepo serves a fixed set of users keyed by ID
type stubUserRepo struct {
	users map[string]*entities.User
}

func (s *stubUserRepo) Create(_ context.Context, _ *entities.User) error { return nil }
func (s *stubUserRepo) Update(_ context.Context, _ *entities.User) error { return nil }

func (s *stubUserRepo) GetByID(_ context.Context, id string) (*entities.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, apperrors.NewNotFoundError("user not found")
}

func (s *stubUserRepo) GetByTelegramID(_ context.Context, _ string) (*entities.User, error) {
	return nil, apperrors.NewNotFoundError("user not found")
}

func (s *stubUserRepo) ListActive(_ context.Context) ([]*entities.User, error) { return nil, nil }
func (s *stubUserRepo) ListActiveByBuilding(_ context.Context, _ string) ([]*entities.User, error) {
	return nil, nil
}
func (s *stubUserRepo) ListActiveByIDs(_ context.Context, _ []string) ([]*entities.User, error) {
	return nil, nil
}

func setup(t *testing.T) (*middleware.AuthMiddleware, *services.AuthService) {
	t.Helper()
	repo := &stubUserRepo{users: map[string]*entities.User{
		"resident": {ID: "resident", IsActive: true},
		"admin":    {ID: "admin", IsActive: true, IsAdmin: true},
	}}
	authService := services.NewAuthService(repo, &config.AuthConfig{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	})
	return middleware.NewAuthMiddleware(authService), authService
}

func echoUser(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.UserFromContext(r.Context())
		require.True(t, ok)
		_, _ = w.Write([]byte(user.ID))
	})
}

func TestRequireUser_NoHeader(t *testing.T) {
	m, _ := setup(t)

	rec := httptest.NewRecorder()
	m.RequireUser(echoUser(t)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireUser_BadToken(t *testing.T) {
	m, _ := setup(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	m.RequireUser(echoUser(t)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireUser_ValidToken(t *testing.T) {
	m, authService := setup(t)

	token, err := authService.IssueToken(&entities.User{ID: "resident"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	m.RequireUser(echoUser(t)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "resident", rec.Body.String())
}

func TestRequireAdmin_RejectsResident(t *testing.T) {
	m, authService := setup(t)

	token, err := authService.IssueToken(&entities.User{ID: "resident"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	m.RequireAdmin(echoUser(t)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAdmin_AllowsAdmin(t *testing.T) {
	m, authService := setup(t)

	token, err := authService.IssueToken(&entities.User{ID: "admin"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	m.RequireAdmin(echoUser(t)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", rec.Body.String())
}
