package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/kanban-api/internal/constants"
	"github.com/yukikurage/kanban-api/internal/models"
	"github.com/yukikurage/kanban-api/internal/repository"
	"github.com/yukikurage/kanban-api/internal/storage"
	"github.com/yukikurage/kanban-api/internal/utils"
)

var (
	ErrInvalidAvatar  = fmt.Errorf("%w: avatar must be a jpg, png, gif or webp image", ErrValidation)
	ErrAvatarTooLarge = fmt.Errorf("%w: avatar exceeds the size limit", ErrValidation)
)

// ProfileService reads and updates the User+Profile view of a principal.
type ProfileService struct {
	userRepo repository.UserRepository
	files    storage.FileStore
	log      *logrus.Logger
}

// NewProfileService creates a new ProfileService.
func NewProfileService(userRepo repository.UserRepository, files storage.FileStore, log *logrus.Logger) *ProfileService {
	return &ProfileService{
		userRepo: userRepo,
		files:    files,
		log:      log,
	}
}

// AvatarUpload is an avatar image received from the client.
type AvatarUpload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// UpdateProfileInput lists the fields a user may change on itself. The
// username is not among them.
type UpdateProfileInput struct {
	FirstName *string       `validate:"omitempty,max=150"`
	LastName  *string       `validate:"omitempty,max=150"`
	Email     *string       `validate:"omitempty,max=255"`
	Position  *string       `validate:"omitempty,max=100"`
	Avatar    *AvatarUpload `validate:"-"`
}

// GetProfile returns the user and its profile, repairing a missing profile.
func (s *ProfileService) GetProfile(userID uint64) (*models.User, *models.Profile, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, nil, notFoundOr(err, ErrUserNotFound, "find user")
	}

	profile, err := s.EnsureProfile(user)
	if err != nil {
		return nil, nil, err
	}
	return user, profile, nil
}

// EnsureProfile returns the profile of user, creating it if it is missing.
func (s *ProfileService) EnsureProfile(user *models.User) (*models.Profile, error) {
	profile, created, err := s.userRepo.EnsureProfile(user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: profile for user %d unavailable: %v", ErrInvariantViolation, user.ID, err)
	}
	if created {
		s.log.WithField("user_id", user.ID).Warn("Profile was missing and has been recreated")
	}
	return profile, nil
}

// UpdateProfile applies a partial update to the user and its profile.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uint64, input UpdateProfileInput) (*models.User, *models.Profile, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, nil, validationError(err.Error())
	}
	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if email != "" {
			if err := utils.Validator().Var(email, "email"); err != nil {
				return nil, nil, validationError("email must be a valid email address")
			}
		}
		input.Email = &email
	}

	user, profile, err := s.GetProfile(userID)
	if err != nil {
		return nil, nil, err
	}

	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Position != nil {
		profile.Position = strings.TrimSpace(*input.Position)
	}

	if input.Avatar != nil {
		ref, err := s.storeAvatar(ctx, input.Avatar)
		if err != nil {
			return nil, nil, err
		}
		profile.Avatar = ref
	}

	if err := s.userRepo.UpdateWithProfile(user, profile); err != nil {
		if input.Avatar != nil {
			s.discardAvatar(ctx, profile.Avatar)
		}
		return nil, nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return user, profile, nil
}

func (s *ProfileService) storeAvatar(ctx context.Context, avatar *AvatarUpload) (string, error) {
	if avatar.Size > constants.MaxAvatarBytes {
		return "", ErrAvatarTooLarge
	}
	ref, err := s.files.Save(ctx, "avatars", avatar.Filename, avatar.Content)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedFileType) {
			return "", ErrInvalidAvatar
		}
		return "", fmt.Errorf("failed to store avatar: %w", err)
	}
	return ref, nil
}

// discardAvatar removes an uploaded avatar that never got referenced.
func (s *ProfileService) discardAvatar(ctx context.Context, ref string) {
	if err := s.files.Delete(ctx, ref); err != nil {
		s.log.WithError(err).WithField("avatar", ref).Warn("Failed to remove unreferenced avatar")
	}
}
