package domain

import "time"

type Testimonial struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	AuthorName      string    `json:"author_name" gorm:"not null"`
	AuthorImageURL  string    `json:"author_image_url"`
	TestimonialText string    `json:"testimonial_text" gorm:"type:text;not null"`
	Rating          int       `json:"rating"`
	IsFeatured      bool      `json:"is_featured"`
	CreatedAt       time.Time `json:"created_at"`
}

func (Testimonial) TableName() string { return "testimonials" }
