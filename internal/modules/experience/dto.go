package experience

type ImageInput struct {
	URL     string `json:"url"`
	AltText string `json:"alt_text"`
}

// ExperienceRequest carries the admin form. WhatToKnow arrives as free text,
// one item per line; it is stored as a JSON list.
type ExperienceRequest struct {
	Title            string       `json:"title"`
	Slug             string       `json:"slug"`
	Category         string       `json:"category"`
	ShortDescription string       `json:"short_description"`
	LongDescription  string       `json:"long_description"`
	WhatToKnow       string       `json:"what_to_know"`
	Images           []ImageInput `json:"images"`
}

// ExperienceView is the read shape: what_to_know deserialized to a list.
type ExperienceView struct {
	ID               int64       `json:"id"`
	Title            string      `json:"title"`
	Slug             string      `json:"slug"`
	Category         string      `json:"category"`
	ShortDescription string      `json:"short_description"`
	LongDescription  string      `json:"long_description"`
	WhatToKnow       []string    `json:"what_to_know"`
	Images           []ImageView `json:"images"`
}

type ImageView struct {
	ID      int64  `json:"id"`
	URL     string `json:"url"`
	AltText string `json:"alt_text"`
}
