package services_test

import (
	"testing"

	"kmonitor/internal/models"
	"kmonitor/internal/repositories"
	"kmonitor/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService_RegisterHashesPassword(t *testing.T) {
	service := services.NewUserService(repositories.NewMemUserRepository())

	user, err := service.Register(&models.InsertUser{Username: "demo", Password: "demo123"})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "demo123", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("demo123")))
}

func TestUserService_RegisterRejectsDuplicateUsername(t *testing.T) {
	service := services.NewUserService(repositories.NewMemUserRepository())

	_, err := service.Register(&models.InsertUser{Username: "demo", Password: "demo123"})
	require.NoError(t, err)

	_, err = service.Register(&models.InsertUser{Username: "demo", Password: "other456"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already taken")
}

func TestUserService_GetOrRegisterIsIdempotent(t *testing.T) {
	service := services.NewUserService(repositories.NewMemUserRepository())

	first, err := service.GetOrRegister(&models.InsertUser{Username: "demo", Password: "demo123"})
	require.NoError(t, err)

	second, err := service.GetOrRegister(&models.InsertUser{Username: "demo", Password: "demo123"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}
