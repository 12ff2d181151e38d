package main

import (
	"fmt"
	"log"

	"github.com/tourghana/tour-booking-backend/internal/config"
	"github.com/tourghana/tour-booking-backend/internal/database"
	"github.com/tourghana/tour-booking-backend/internal/models"
)

// Seeds the catalog with a starter set of tours. Intended for fresh
// environments; running it against a populated catalog duplicates titles.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	tours := database.NewTourRepository(db)

	for i := range seedTours {
		tour := &seedTours[i]
		if err := tours.Create(tour); err != nil {
			log.Fatalf("Failed to seed tour %q: %v", tour.Title, err)
		}
		fmt.Printf("Seeded %-40s %s\n", tour.Title, tour.ID)
	}

	fmt.Printf("Done. %d tours created.\n", len(seedTours))
}

var seedTours = []models.Tour{
	{
		Title:          "Cape Coast Castle & Kakum Canopy Walk",
		City:           "Cape Coast",
		Distance:       165,
		Price:          450,
		MaxGroupSize:   12,
		Description:    "A full-day trip pairing the Cape Coast Castle museum tour with the rope canopy walkway over Kakum National Park.",
		AvailableDates: []string{"2026-09-12", "2026-09-26", "2026-10-10"},
		Featured:       true,
		Status:         models.TourStatusActive,
	},
	{
		Title:          "Mole National Park Safari",
		City:           "Larabanga",
		Distance:       600,
		Price:          1200,
		MaxGroupSize:   8,
		Description:    "Two-day safari with guided walking and jeep drives among elephants, antelope and baboons, plus a stop at the Larabanga mosque.",
		AvailableDates: []string{"2026-09-18", "2026-10-02"},
		Featured:       true,
		Status:         models.TourStatusActive,
	},
	{
		Title:          "Wli Waterfalls & Tafi Atome Monkey Sanctuary",
		City:           "Hohoe",
		Distance:       220,
		Price:          380,
		MaxGroupSize:   15,
		Description:    "Hike to the tallest waterfall in West Africa and hand-feed the sacred mona monkeys at Tafi Atome.",
		AvailableDates: []string{"2026-09-05", "2026-09-19", "2026-10-03"},
		Status:         models.TourStatusActive,
	},
	{
		Title:          "Accra City Highlights",
		City:           "Accra",
		Distance:       25,
		Price:          180,
		MaxGroupSize:   20,
		Description:    "Independence Square, the Kwame Nkrumah Memorial Park, Jamestown lighthouse and the Makola market in one afternoon.",
		AvailableDates: []string{"2026-09-06", "2026-09-13", "2026-09-20", "2026-09-27"},
		Status:         models.TourStatusActive,
	},
	{
		Title:          "Lake Volta Sunset Cruise",
		City:           "Akosombo",
		Distance:       100,
		Price:          260,
		MaxGroupSize:   30,
		Description:    "An evening cruise on the largest man-made lake in the world, with dinner on board and views of the Akosombo dam.",
		AvailableDates: []string{"2026-09-11", "2026-09-25"},
		Featured:       true,
		Status:         models.TourStatusActive,
	},
	{
		Title:          "Kumasi Ashanti Heritage Tour",
		City:           "Kumasi",
		Distance:       250,
		Price:          420,
		MaxGroupSize:   14,
		Description:    "Manhyia Palace Museum, the Kejetia market and a kente weaving workshop in the historic Ashanti capital.",
		AvailableDates: []string{"2026-09-14", "2026-09-28", "2026-10-12"},
		Status:         models.TourStatusActive,
	},
}
