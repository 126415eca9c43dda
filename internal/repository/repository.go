package repository

import (
	"github.com/yukikurage/kanban-api/internal/models"
)

// UserRepository defines the interface for user and profile data access
type UserRepository interface {
	// CreateWithProfile creates a user and its profile within a single transaction.
	CreateWithProfile(user *models.User, profile *models.Profile) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// FindProfile finds the profile of a user
	FindProfile(userID uint64) (*models.Profile, error)

	// EnsureProfile returns the user's profile, creating an empty one when it is missing.
	// created reports whether a repair happened.
	EnsureProfile(userID uint64) (profile *models.Profile, created bool, err error)

	// UpdateWithProfile persists a user and its profile as one unit.
	UpdateWithProfile(user *models.User, profile *models.Profile) error

	// ListActive lists users that completed activation
	ListActive() ([]models.User, error)

	// SetActive flips the activation flag of a user
	SetActive(id uint64, active bool) error

	// Delete removes a user applying the attribution cascade policy
	Delete(id uint64) error
}

// TagRepository defines the interface for tag catalog data access
type TagRepository interface {
	Create(tag *models.Tag) error
	FindByID(id uint64) (*models.Tag, error)

	// FindByIDs returns the tags matching ids, ordered by id
	FindByIDs(ids []uint64) ([]models.Tag, error)

	List() ([]models.Tag, error)
	Update(tag *models.Tag) error

	// Delete removes the tag and its task associations
	Delete(id uint64) error
}

// BoardRepository defines the interface for board data access
type BoardRepository interface {
	Create(board *models.Board) error
	FindByID(id uint64) (*models.Board, error)

	// FindWithHierarchy loads a board with its ordered columns, their ordered
	// tasks and the task tags in one consistent read
	FindWithHierarchy(id uint64) (*models.Board, error)

	// ListByOwner lists the boards owned by a user
	ListByOwner(ownerID uint64) ([]models.Board, error)

	Update(board *models.Board) error

	// Delete deletes a board with all its columns and tasks
	Delete(id uint64) error
}

// ColumnRepository defines the interface for column data access
type ColumnRepository interface {
	Create(column *models.Column) error
	FindByID(id uint64) (*models.Column, error)

	// ListByBoard lists columns ascending by order, ties by id
	ListByBoard(boardID uint64) ([]models.Column, error)

	Update(column *models.Column) error

	// Delete deletes a column and all its tasks
	Delete(id uint64) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a task and attaches the given tags
	Create(task *models.Task, tagIDs []uint64) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// ListByColumn lists tasks ascending by order, ties by id
	ListByColumn(columnID uint64) ([]models.Task, error)

	// Update persists the editable fields of a task. A non-nil tagIDs
	// replaces the tag set.
	Update(task *models.Task, tagIDs *[]uint64) error

	// Move relocates a task to a column and order as one atomic write
	Move(taskID, columnID uint64, order int) error

	Delete(id uint64) error
}
