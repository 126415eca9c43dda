package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/kanban-api/internal/constants"
	"github.com/yukikurage/kanban-api/internal/models"
	"github.com/yukikurage/kanban-api/internal/repository"
	"github.com/yukikurage/kanban-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrUsernameRequired     = fmt.Errorf("%w: username is required", ErrValidation)
	ErrUsernameTaken        = fmt.Errorf("%w: username already exists", ErrValidation)
	ErrPasswordTooShort     = fmt.Errorf("%w: password must be at least %d characters", ErrValidation, constants.MinPasswordLength)
	ErrUserNotFound         = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrAccountPending       = errors.New("account is awaiting administrator approval")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToCreateUser   = errors.New("failed to create user")
	ErrFailedToCreateProf   = errors.New("failed to create profile")
)

// AuthService handles registration, authentication and account activation.
type AuthService struct {
	userRepo repository.UserRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{
		userRepo: userRepo,
	}
}

// RegisterInput represents the information needed to create an account.
type RegisterInput struct {
	Username  string `validate:"required,min=3,max=150,handle"`
	Password  string `validate:"required"`
	Email     string `validate:"omitempty,email,max=255"`
	FirstName string `validate:"max=150"`
	LastName  string `validate:"max=150"`
}

// Register creates a pending user together with its empty profile.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	if input.Username == "" {
		return nil, ErrUsernameRequired
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if err := utils.ValidateStruct(input); err != nil {
		return nil, validationError(err.Error())
	}

	if _, err := s.userRepo.FindByUsername(input.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Username:     input.Username,
		PasswordHash: hashedPassword,
		Email:        input.Email,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		IsActive:     false,
	}

	if err := s.userRepo.CreateWithProfile(user, &models.Profile{}); err != nil {
		switch {
		case errors.Is(err, repository.ErrCreateUser):
			// Lost a race on the unique username index.
			if _, findErr := s.userRepo.FindByUsername(input.Username); findErr == nil {
				return nil, ErrUsernameTaken
			}
			return nil, ErrFailedToCreateUser
		case errors.Is(err, repository.ErrCreateProfile):
			return nil, ErrFailedToCreateProf
		default:
			return nil, fmt.Errorf("failed to complete registration: %w", err)
		}
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Login verifies credentials and returns the user when it is active.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(strings.TrimSpace(input.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := utils.CheckPassword(input.Password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountPending
	}

	return user, nil
}

// Authenticate resolves a principal id from a session or token to an
// active user.
func (s *AuthService) Authenticate(userID uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrAccountPending
	}
	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, notFoundOr(err, ErrUserNotFound, "find user")
	}
	return user, nil
}

// ListActiveUsers lists the users that may be picked as assignees.
func (s *AuthService) ListActiveUsers() ([]models.User, error) {
	users, err := s.userRepo.ListActive()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// SetActive is the administrative activation switch.
func (s *AuthService) SetActive(username string, active bool) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return nil, notFoundOr(err, ErrUserNotFound, "find user")
	}
	if err := s.userRepo.SetActive(user.ID, active); err != nil {
		return nil, notFoundOr(err, ErrUserNotFound, "update user")
	}
	user.IsActive = active
	return user, nil
}

// DeleteUser removes an account. Owned boards and authored tasks go with
// it; tasks merely assigned to the user stay, unassigned.
func (s *AuthService) DeleteUser(username string) error {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return notFoundOr(err, ErrUserNotFound, "find user")
	}
	if err := s.userRepo.Delete(user.ID); err != nil {
		return notFoundOr(err, ErrUserNotFound, "delete user")
	}
	return nil
}
