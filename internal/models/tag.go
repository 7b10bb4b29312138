package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tag type names used by the recipe form.
const (
	TagTypeMeal = "meal"
	TagTypeDiet = "diet"
)

type TagType struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `gorm:"size:50;uniqueIndex;not null" json:"name"`

	Tags []Tag `gorm:"foreignKey:TagTypeID" json:"tags,omitempty"`
}

func (t *TagType) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

type Tag struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `gorm:"size:50;not null" json:"name"`
	TagTypeID uuid.UUID `gorm:"type:varchar(36);not null;index" json:"tag_type_id"`

	TagType *TagType `gorm:"foreignKey:TagTypeID" json:"tag_type,omitempty"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
