package services

import (
	"fmt"
	"strings"

	"github.com/yukikurage/kanban-api/internal/constants"
	"github.com/yukikurage/kanban-api/internal/models"
	"github.com/yukikurage/kanban-api/internal/repository"
	"github.com/yukikurage/kanban-api/internal/utils"
)

var (
	ErrTagNotFound     = fmt.Errorf("%w: tag not found", ErrNotFound)
	ErrTagNameRequired = fmt.Errorf("%w: tag name is required", ErrValidation)
)

// TagService manages the global tag catalog. Tag names are not unique.
type TagService struct {
	tagRepo repository.TagRepository
}

// NewTagService creates a new TagService
func NewTagService(tagRepo repository.TagRepository) *TagService {
	return &TagService{tagRepo: tagRepo}
}

// CreateTagInput represents input for creating a tag
type CreateTagInput struct {
	Name  string `validate:"max=30"`
	Color string `validate:"max=20"`
}

// UpdateTagInput represents input for updating a tag
type UpdateTagInput struct {
	Name  *string `validate:"omitempty,max=30"`
	Color *string `validate:"omitempty,max=20"`
}

// CreateTag adds a tag to the catalog. An empty color falls back to the
// default color.
func (s *TagService) CreateTag(input CreateTagInput) (*models.Tag, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Color = strings.TrimSpace(input.Color)
	if input.Name == "" {
		return nil, ErrTagNameRequired
	}
	if err := utils.ValidateStruct(input); err != nil {
		return nil, validationError(err.Error())
	}
	if input.Color == "" {
		input.Color = constants.DefaultTagColor
	}

	tag := &models.Tag{Name: input.Name, Color: input.Color}
	if err := s.tagRepo.Create(tag); err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}
	return tag, nil
}

// ListTags returns the whole catalog ordered by id.
func (s *TagService) ListTags() ([]models.Tag, error) {
	tags, err := s.tagRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// UpdateTag renames or recolors a tag.
func (s *TagService) UpdateTag(id uint64, input UpdateTagInput) (*models.Tag, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, validationError(err.Error())
	}

	tag, err := s.tagRepo.FindByID(id)
	if err != nil {
		return nil, notFoundOr(err, ErrTagNotFound, "find tag")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrTagNameRequired
		}
		tag.Name = name
	}
	if input.Color != nil {
		color := strings.TrimSpace(*input.Color)
		if color == "" {
			color = constants.DefaultTagColor
		}
		tag.Color = color
	}

	if err := s.tagRepo.Update(tag); err != nil {
		return nil, fmt.Errorf("failed to update tag: %w", err)
	}
	return tag, nil
}

// DeleteTag removes the tag from the catalog and from every task.
func (s *TagService) DeleteTag(id uint64) error {
	if err := s.tagRepo.Delete(id); err != nil {
		return notFoundOr(err, ErrTagNotFound, "delete tag")
	}
	return nil
}

// resolveTags checks that every id names an existing tag.
func resolveTags(tagRepo repository.TagRepository, ids []uint64) ([]uint64, error) {
	ids = uniqueUint64(ids)
	if len(ids) == 0 {
		return ids, nil
	}
	tags, err := tagRepo.FindByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to find tags: %w", err)
	}
	if len(tags) != len(ids) {
		return nil, ErrTagNotFound
	}
	return ids, nil
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
