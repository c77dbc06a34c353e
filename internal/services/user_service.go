package services

import (
	"errors"
	"fmt"

	"kmonitor/internal/models"
	"kmonitor/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

// UserService handles business logic for user accounts.
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// Register creates a new user with a bcrypt-hashed password. Usernames must
// be unique among existing users.
func (s *UserService) Register(insert *models.InsertUser) (*models.User, error) {
	if existing, err := s.userRepo.GetByUsername(insert.Username); err == nil && existing != nil {
		return nil, fmt.Errorf("username '%s' already taken", insert.Username)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(insert.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: insert.Username,
		Password: string(hashedPassword),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return user, nil
}

// GetOrRegister returns the user with the given username, registering them
// when absent. Used to seed the demo account at startup.
func (s *UserService) GetOrRegister(insert *models.InsertUser) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(insert.Username)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	return s.Register(insert)
}

// GetByID returns a user by their ID.
func (s *UserService) GetByID(id string) (*models.User, error) {
	return s.userRepo.GetByID(id)
}
