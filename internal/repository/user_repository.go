package repository

import (
	"errors"
	"fmt"

	"github.com/yukikurage/kanban-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

var (
	// ErrCreateUser is returned when creating a user fails inside the registration transaction.
	ErrCreateUser = errors.New("user repository: create user failed")
	// ErrCreateProfile is returned when creating a profile fails inside the registration transaction.
	ErrCreateProfile = errors.New("user repository: create profile failed")
)

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// CreateWithProfile creates a user and its profile atomically.
func (r *GormUserRepository) CreateWithProfile(user *models.User, profile *models.Profile) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Profile").Create(user).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateUser, err)
		}

		profile.UserID = user.ID
		if err := tx.Create(profile).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateProfile, err)
		}

		user.Profile = profile
		return nil
	})
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindProfile finds the profile of a user
func (r *GormUserRepository) FindProfile(userID uint64) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// EnsureProfile returns the user's profile, creating it when missing.
func (r *GormUserRepository) EnsureProfile(userID uint64) (*models.Profile, bool, error) {
	profile, err := r.FindProfile(userID)
	if err == nil {
		return profile, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	profile = &models.Profile{UserID: userID}
	if err := r.db.Create(profile).Error; err != nil {
		// A concurrent repair may have won the unique index on user_id.
		if existing, findErr := r.FindProfile(userID); findErr == nil {
			return existing, false, nil
		}
		return nil, false, err
	}
	return profile, true, nil
}

// UpdateWithProfile persists a user and its profile in one transaction.
func (r *GormUserRepository) UpdateWithProfile(user *models.User, profile *models.Profile) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(user).
			Select("email", "first_name", "last_name").
			Updates(user).Error; err != nil {
			return err
		}

		return tx.Model(profile).
			Select("avatar", "position").
			Updates(profile).Error
	})
}

// ListActive lists active users ordered by username
func (r *GormUserRepository) ListActive() ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("is_active = ?", true).Order("username ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// SetActive flips the activation flag of a user
func (r *GormUserRepository) SetActive(id uint64, active bool) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &models.User{}, id); err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", id).Update("is_active", active).Error
	})
}

// Delete removes a user. Assigned tasks keep existing with the assignment
// cleared; authored tasks and owned boards are deleted with everything below.
func (r *GormUserRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Task{}).
			Where("assigned_to_id = ?", id).
			Update("assigned_to_id", nil).Error; err != nil {
			return err
		}

		if err := deleteTasksWhere(tx, "created_by_id = ?", id); err != nil {
			return err
		}

		ownedBoards := tx.Model(&models.Board{}).Select("id").Where("owner_id = ?", id)
		if err := deleteTasksWhere(tx, "column_id IN (?)", columnIDsOfBoards(tx, ownedBoards)); err != nil {
			return err
		}
		if err := tx.Where("board_id IN (?)", tx.Model(&models.Board{}).Select("id").Where("owner_id = ?", id)).
			Delete(&models.Column{}).Error; err != nil {
			return err
		}
		if err := tx.Where("owner_id = ?", id).Delete(&models.Board{}).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.Profile{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.User{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
