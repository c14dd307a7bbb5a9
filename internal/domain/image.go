package domain

import "fmt"

// ImageOwnerType tags which entity kind an image belongs to.
type ImageOwnerType string

const (
	ImageOwnerProperty   ImageOwnerType = "property"
	ImageOwnerExperience ImageOwnerType = "experience"
)

// ImageOwner identifies the owning entity of an image. Keeping the pair in
// one value forces callers to state both halves of the association.
type ImageOwner struct {
	Type ImageOwnerType
	ID   int64
}

func PropertyImageOwner(id int64) ImageOwner {
	return ImageOwner{Type: ImageOwnerProperty, ID: id}
}

func ExperienceImageOwner(id int64) ImageOwner {
	return ImageOwner{Type: ImageOwnerExperience, ID: id}
}

func (o ImageOwner) Validate() error {
	switch o.Type {
	case ImageOwnerProperty, ImageOwnerExperience:
	default:
		return fmt.Errorf("unknown image owner type %q", o.Type)
	}
	if o.ID <= 0 {
		return fmt.Errorf("image owner id must be positive, got %d", o.ID)
	}
	return nil
}

type ImageCategory string

const (
	ImageCategoryGallery   ImageCategory = "gallery"
	ImageCategoryBlueprint ImageCategory = "blueprint"
)

// Image is owned exclusively by its parent entity and is deleted whenever
// the parent's image set is replaced or the parent is removed.
type Image struct {
	ID        int64          `json:"id" gorm:"primaryKey"`
	URL       string         `json:"url" gorm:"not null"`
	AltText   string         `json:"alt_text"`
	OwnerType ImageOwnerType `json:"-" gorm:"not null;index:idx_image_owner"`
	OwnerID   int64          `json:"-" gorm:"not null;index:idx_image_owner"`
	Category  ImageCategory  `json:"image_category" gorm:"column:image_category;not null;default:'gallery'"`
	SortOrder int            `json:"sort_order"`
}

func (Image) TableName() string { return "images" }
