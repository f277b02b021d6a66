package service

import (
	"testing"

	"ubt-tracker/internal/model"
	"ubt-tracker/internal/repository/repotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, repo *repotest.FakeUserRepo, username, password, role string, active bool) *model.User {
	t.Helper()
	user := &model.User{
		Username: username,
		Role:     role,
		Active:   active,
	}
	require.NoError(t, user.SetPassword(password))
	require.NoError(t, repo.Create(user))
	return user
}

func TestLoginIssuesToken(t *testing.T) {
	userRepo := repotest.NewFakeUserRepo()
	seedUser(t, userRepo, "admin", "admin123", model.RoleAdmin, true)
	svc := NewAuthService(userRepo)

	resp, err := svc.Login("admin", "admin123")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "admin", resp.User.Username)
	assert.Equal(t, model.RoleAdmin, resp.User.Role)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	userRepo := repotest.NewFakeUserRepo()
	seedUser(t, userRepo, "admin", "admin123", model.RoleAdmin, true)
	svc := NewAuthService(userRepo)

	_, err := svc.Login("admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("nobody", "admin123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	userRepo := repotest.NewFakeUserRepo()
	seedUser(t, userRepo, "retired", "secret123", model.RoleOperator, false)
	svc := NewAuthService(userRepo)

	_, err := svc.Login("retired", "secret123")
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestVerifyRoundTrip(t *testing.T) {
	userRepo := repotest.NewFakeUserRepo()
	seedUser(t, userRepo, "operator", "operator123", model.RoleOperator, true)
	svc := NewAuthService(userRepo)

	resp, err := svc.Login("operator", "operator123")
	require.NoError(t, err)

	user, err := svc.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "operator", user.Username)
	assert.Equal(t, model.RoleOperator, user.Role)
}

func TestVerifyRejectsGarbageToken(t *testing.T) {
	svc := NewAuthService(repotest.NewFakeUserRepo())

	_, err := svc.Verify("not-a-token")
	assert.Error(t, err)
}
