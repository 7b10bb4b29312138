package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/forkful/recipebox/internal/models"
)

// TagService resolves the tag choices offered on the recipe form.
type TagService struct {
	db *gorm.DB
}

// NewTagService creates a new TagService instance.
func NewTagService(db *gorm.DB) *TagService {
	return &TagService{db: db}
}

// Choices returns all tags of the given type, e.g. "meal" or "diet".
func (s *TagService) Choices(ctx context.Context, typeName string) ([]models.Tag, error) {
	var tags []models.Tag
	err := s.db.WithContext(ctx).
		Joins("JOIN tag_types ON tag_types.id = tags.tag_type_id").
		Where("tag_types.name = ?", typeName).
		Order("tags.name").
		Find(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// Default tags seeded for a fresh database.
var defaultTags = map[string][]string{
	models.TagTypeMeal: {"breakfast", "lunch", "dinner", "dessert", "snack"},
	models.TagTypeDiet: {"vegetarian", "vegan", "gluten-free", "dairy-free"},
}

// Seed creates the tag types and default tags if they do not exist yet.
// Safe to run repeatedly.
func (s *TagService) Seed(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for typeName, tagNames := range defaultTags {
			var tagType models.TagType
			err := tx.Where("name = ?", typeName).First(&tagType).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				tagType = models.TagType{Name: typeName}
				if err := tx.Create(&tagType).Error; err != nil {
					return fmt.Errorf("creating tag type %q: %w", typeName, err)
				}
			} else if err != nil {
				return err
			}

			for _, name := range tagNames {
				var tag models.Tag
				err := tx.Where("name = ? AND tag_type_id = ?", name, tagType.ID).First(&tag).Error
				if errors.Is(err, gorm.ErrRecordNotFound) {
					tag = models.Tag{Name: name, TagTypeID: tagType.ID}
					if err := tx.Create(&tag).Error; err != nil {
						return fmt.Errorf("creating tag %q: %w", name, err)
					}
				} else if err != nil {
					return err
				}
			}
		}
		return nil
	})
}
