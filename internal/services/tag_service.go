package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "savora/internal/errors"
	"savora/internal/models"
	"savora/internal/pagination"
)

// tagService handles tag-related business logic.
type tagService struct {
	db *gorm.DB
}

// NewTagService creates a new TagServicer.
func NewTagService(db *gorm.DB) TagServicer {
	return &tagService{db: db}
}

// CreateTag creates a new tag owned by the user.
func (s *tagService) CreateTag(userID uint, name string) (*models.Tag, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "tag name is required")
	}

	tag := &models.Tag{
		UserID: userID,
		Name:   name,
	}

	if err := s.db.Create(tag).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return tag, nil
}

// GetUserTags retrieves a paginated list of the user's tags, newest name
// first. With assignedOnly, the list is restricted to tags attached to
// at least one of the user's recipes; a tag attached to several recipes
// appears exactly once (DISTINCT on the joined rows).
func (s *tagService) GetUserTags(userID uint, assignedOnly bool, page pagination.PageRequest) (*pagination.PageResponse[models.Tag], error) {
	page.Defaults()

	build := func() *gorm.DB {
		q := s.db.Model(&models.Tag{}).Where("tags.user_id = ?", userID)
		if assignedOnly {
			q = q.
				Joins("JOIN recipe_tags ON recipe_tags.tag_id = tags.id").
				Joins("JOIN recipes ON recipes.id = recipe_tags.recipe_id AND recipes.user_id = ? AND recipes.deleted_at IS NULL", userID)
		}
		return q
	}

	var totalItems int64
	if err := build().Distinct("tags.id").Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var tags []models.Tag
	if err := build().Distinct("tags.*").
		Order("tags.name DESC").
		Scopes(pagination.Paginate(page)).
		Find(&tags).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(tags, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetTagByID retrieves a tag by ID for a specific user
func (s *tagService) GetTagByID(userID, tagID uint) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.Where("id = ? AND user_id = ?", tagID, userID).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTagNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &tag, nil
}

// UpdateTag renames an existing tag.
func (s *tagService) UpdateTag(userID, tagID uint, name string) (*models.Tag, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "tag name is required")
	}

	tag, err := s.GetTagByID(userID, tagID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(tag).Update("name", name).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return tag, nil
}

// DeleteTag soft-deletes a tag and detaches it from the user's recipes.
func (s *tagService) DeleteTag(userID, tagID uint) error {
	tag, err := s.GetTagByID(userID, tagID)
	if err != nil {
		return err
	}

	if err := s.db.Model(tag).Association("Recipes").Clear(); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Delete(tag).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
