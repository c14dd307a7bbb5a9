package catalog

type ImageInput struct {
	URL     string `json:"url"`
	AltText string `json:"alt_text"`
}

type PropertyRequest struct {
	Name             string       `json:"name"`
	Slug             string       `json:"slug"`
	Description      string       `json:"description"`
	OptionalServices string       `json:"optional_services"`
	Latitude         *float64     `json:"latitude"`
	Longitude        *float64     `json:"longitude"`
	Category         string       `json:"category"`
	Guests           int          `json:"guests"`
	Bedrooms         int          `json:"bedrooms"`
	Beds             int          `json:"beds"`
	Bathrooms        int          `json:"bathrooms"`
	Rating           float64      `json:"rating"`
	PriceHigh        float64      `json:"price_high"`
	PriceMid         float64      `json:"price_mid"`
	PriceLow         float64      `json:"price_low"`
	MapNodeID        *string      `json:"map_node_id"`
	VideoURL         string       `json:"video_url"`
	Featured         bool         `json:"featured"`
	GalleryImages    []ImageInput `json:"gallery_images"`
	BlueprintImages  []ImageInput `json:"blueprint_images"`
	Amenities        []string     `json:"amenities"`
	Rules            []string     `json:"rules"`
}

// SearchQuery carries the public listing filters; empty means list all.
type SearchQuery struct {
	Guests    int
	Amenities []string
	StartDate string
	EndDate   string
}
