package domain

import "time"

// Property is one rentable chalet. The child collections (images, amenities,
// rules) are loaded by the repository and replaced as whole sets on edit.
type Property struct {
	ID               int64    `json:"id" gorm:"primaryKey"`
	Name             string   `json:"name" gorm:"not null"`
	Slug             string   `json:"slug" gorm:"uniqueIndex;not null"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
	Category         string   `json:"category,omitempty"`
	Guests           int      `json:"guests"`
	Bedrooms         int      `json:"bedrooms"`
	Beds             int      `json:"beds"`
	Bathrooms        int      `json:"bathrooms"`
	Rating           float64  `json:"rating"`
	PriceHigh        float64  `json:"price_high"`
	PriceMid         float64  `json:"price_mid"`
	PriceLow         float64  `json:"price_low"`
	MapNodeID        *string  `json:"map_node_id,omitempty" gorm:"uniqueIndex"`
	VideoURL         string   `json:"video_url,omitempty"`
	Featured         bool     `json:"featured"`
	Description      string   `json:"description,omitempty" gorm:"type:text"`
	OptionalServices string   `json:"optional_services,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Populated by the repository, not mapped as gorm associations.
	GalleryImages   []Image        `json:"gallery_images" gorm:"-"`
	BlueprintImages []Image        `json:"blueprint_images" gorm:"-"`
	Amenities       []Amenity      `json:"amenities" gorm:"-"`
	Rules           []PropertyRule `json:"rules" gorm:"-"`
}

func (Property) TableName() string { return "properties" }

// Amenity is static reference data, linked to properties many-to-many.
type Amenity struct {
	ID       int64  `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"not null"`
	Slug     string `json:"slug" gorm:"uniqueIndex;not null"`
	Category string `json:"category"`
	Icon     string `json:"icon"`
}

func (Amenity) TableName() string { return "amenities" }

type PropertyAmenity struct {
	ID         int64 `json:"id" gorm:"primaryKey"`
	PropertyID int64 `json:"property_id" gorm:"not null;uniqueIndex:idx_property_amenity"`
	AmenityID  int64 `json:"amenity_id" gorm:"not null;uniqueIndex:idx_property_amenity"`
}

func (PropertyAmenity) TableName() string { return "property_amenities" }

type PropertyRule struct {
	ID         int64  `json:"id" gorm:"primaryKey"`
	PropertyID int64  `json:"property_id" gorm:"not null;index"`
	RuleText   string `json:"rule_text" gorm:"not null"`
}

func (PropertyRule) TableName() string { return "property_rules" }
