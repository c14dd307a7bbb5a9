package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"chaletbook/internal/config"
	"chaletbook/internal/database"
	"chaletbook/internal/domain"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DSN)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running migrations...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("Migrate failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM property_rules")
	db.Exec("DELETE FROM property_amenities")
	db.Exec("DELETE FROM images")
	db.Exec("DELETE FROM testimonials")
	db.Exec("DELETE FROM experiences")
	db.Exec("DELETE FROM properties")
	db.Exec("DELETE FROM amenities")
	db.Exec("DELETE FROM users")

	// ================== ADMIN ==================
	log.Println("Creating admin...")
	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		Email:        "admin@chaletbook.test",
		PasswordHash: string(adminHash),
		Role:         domain.RoleAdmin,
		Name:         "Site Admin",
	}
	db.Create(&admin)
	log.Println("Admin created: admin@chaletbook.test / admin123")

	// ================== AMENITIES ==================
	log.Println("Creating amenities...")
	amenities := []domain.Amenity{
		{Name: "Sauna", Slug: "sauna", Category: "wellness", Icon: "sauna"},
		{Name: "Hot Tub", Slug: "hot-tub", Category: "wellness", Icon: "hot-tub"},
		{Name: "Fireplace", Slug: "fireplace", Category: "comfort", Icon: "fire"},
		{Name: "Wifi", Slug: "wifi", Category: "basics", Icon: "wifi"},
		{Name: "Ski-in / Ski-out", Slug: "ski-in-ski-out", Category: "location", Icon: "ski"},
		{Name: "Pet Friendly", Slug: "pet-friendly", Category: "basics", Icon: "paw"},
	}
	for i := range amenities {
		db.Create(&amenities[i])
	}

	// ================== PROPERTIES ==================
	log.Println("Creating properties...")
	lat, lng := 45.5231, 6.5823
	nodeA, nodeB := "node-panorama", "node-ridge"

	panorama := domain.Property{
		Name:        "Chalet Panorama",
		Slug:        "chalet-panorama",
		Latitude:    &lat,
		Longitude:   &lng,
		Category:    "chalet",
		Guests:      8,
		Bedrooms:    4,
		Beds:        5,
		Bathrooms:   3,
		Rating:      9.4,
		PriceHigh:   720,
		PriceMid:    540,
		PriceLow:    390,
		MapNodeID:   &nodeA,
		Featured:    true,
		Description: "South-facing chalet with an open view over the valley.",
	}
	db.Create(&panorama)

	ridge := domain.Property{
		Name:        "Ridge Cabin",
		Slug:        "ridge-cabin",
		Category:    "cabin",
		Guests:      4,
		Bedrooms:    2,
		Beds:        2,
		Bathrooms:   1,
		Rating:      8.7,
		PriceHigh:   310,
		PriceMid:    240,
		PriceLow:    180,
		MapNodeID:   &nodeB,
		Description: "Compact cabin right on the ridge line.",
	}
	db.Create(&ridge)

	for i, p := range []domain.Property{panorama, ridge} {
		db.Create(&domain.Image{
			URL:       "https://images.chaletbook.test/" + p.Slug + "/main.jpg",
			AltText:   p.Name,
			OwnerType: domain.ImageOwnerProperty,
			OwnerID:   p.ID,
			Category:  domain.ImageCategoryGallery,
		})
		db.Create(&domain.Image{
			URL:       "https://images.chaletbook.test/" + p.Slug + "/blueprint.png",
			AltText:   p.Name + " floor plan",
			OwnerType: domain.ImageOwnerProperty,
			OwnerID:   p.ID,
			Category:  domain.ImageCategoryBlueprint,
		})
		db.Create(&domain.PropertyRule{PropertyID: p.ID, RuleText: "No smoking indoors"})
		db.Create(&domain.PropertyRule{PropertyID: p.ID, RuleText: "Check-in after 16:00"})
		for j := range amenities {
			if (i+j)%2 == 0 {
				db.Create(&domain.PropertyAmenity{PropertyID: p.ID, AmenityID: amenities[j].ID})
			}
		}
	}

	// ================== EXPERIENCES ==================
	log.Println("Creating experiences...")
	hike := domain.Experience{
		Title:            "Sunrise Ridge Hike",
		Slug:             "sunrise-ridge-hike",
		Category:         "outdoor",
		ShortDescription: "Guided hike to the ridge before dawn.",
		LongDescription:  "A three hour guided walk ending with breakfast above the cloud line.",
		WhatToKnow:       []byte(`["Bring warm layers","Moderate fitness required"]`),
	}
	db.Create(&hike)
	db.Create(&domain.Image{
		URL:       "https://images.chaletbook.test/experiences/sunrise-hike.jpg",
		AltText:   "Image for Sunrise Ridge Hike",
		OwnerType: domain.ImageOwnerExperience,
		OwnerID:   hike.ID,
		Category:  domain.ImageCategoryGallery,
	})

	// ================== TESTIMONIALS ==================
	log.Println("Creating testimonials...")
	db.Create(&domain.Testimonial{
		AuthorName:      "Marie L.",
		TestimonialText: "The view from Chalet Panorama is unreal. We booked again for next winter.",
		Rating:          5,
		IsFeatured:      true,
	})
	db.Create(&domain.Testimonial{
		AuthorName:      "Jonas K.",
		TestimonialText: "Smooth booking, quick answers, spotless cabin.",
		Rating:          5,
	})

	// ================== BOOKINGS ==================
	log.Println("Creating bookings...")
	today := domain.DateOf(time.Now().UTC())
	db.Create(&domain.Booking{
		PropertyID:  panorama.ID,
		CheckIn:     today.AddDays(14),
		CheckOut:    today.AddDays(21),
		Guests:      6,
		ClientName:  "Laura Berg",
		ClientPhone: "+49 170 1234567",
		ClientEmail: "laura@example.com",
		Status:      domain.BookingConfirmed,
	})
	db.Create(&domain.Booking{
		PropertyID:  ridge.ID,
		CheckIn:     today.AddDays(7),
		CheckOut:    today.AddDays(9),
		Guests:      2,
		ClientName:  "Tom Weiss",
		ClientPhone: "+49 160 7654321",
		Status:      domain.BookingPending,
	})

	log.Println("Seed complete.")
}
