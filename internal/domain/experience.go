package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Experience is a bookable activity, independent of any property.
// WhatToKnow is persisted as a JSON list of lines.
type Experience struct {
	ID               int64          `json:"id" gorm:"primaryKey"`
	Title            string         `json:"title" gorm:"not null"`
	Slug             string         `json:"slug" gorm:"uniqueIndex;not null"`
	Category         string         `json:"category"`
	ShortDescription string         `json:"short_description" gorm:"type:text"`
	LongDescription  string         `json:"long_description" gorm:"type:text"`
	WhatToKnow       datatypes.JSON `json:"what_to_know"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Images []Image `json:"images" gorm:"-"`
}

func (Experience) TableName() string { return "experiences" }
