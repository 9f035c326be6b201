package session

import "uzhavan/models"

// SampleProducts is the built-in catalog served when the real one cannot be
// fetched. Prices are in rupees per unit.
func SampleProducts() []models.Product {
	return []models.Product{
		{
			ProductID:   "p1",
			FarmerID:    "f1",
			FarmerName:  "Ramu Velan",
			Name:        "Fresh Tomatoes",
			NameInTamil: "தக்காளி",
			Description: "Farm fresh organic tomatoes",
			Category:    models.CategoryVegetables,
			Price:       50,
			Quantity:    100,
			Unit:        "kg",
			HarvestDate: "2025-01-15",
			ImageURL:    "/static/productpic/tomatoes.jpg",
			Rating:      4.5,
			Location:    "Coimbatore",
		},
		{
			ProductID:   "p2",
			FarmerID:    "f1",
			FarmerName:  "Ramu Velan",
			Name:        "Organic Rice",
			NameInTamil: "அரிசி",
			Description: "Traditional ponni rice",
			Category:    models.CategoryGrains,
			Price:       80,
			Quantity:    500,
			Unit:        "kg",
			HarvestDate: "2025-01-10",
			ImageURL:    "/static/productpic/rice.jpg",
			Rating:      4.8,
			Location:    "Coimbatore",
		},
		{
			ProductID:   "p3",
			FarmerID:    "f1",
			FarmerName:  "Ramu Velan",
			Name:        "Bananas",
			NameInTamil: "வாழைப்பழம்",
			Description: "Sweet hill bananas",
			Category:    models.CategoryFruits,
			Price:       40,
			Quantity:    200,
			Unit:        "dozen",
			HarvestDate: "2025-01-18",
			ImageURL:    "/static/productpic/bananas.jpg",
			Rating:      4.2,
			Location:    "Coimbatore",
		},
		{
			ProductID:   "p4",
			FarmerID:    "f1",
			FarmerName:  "Ramu Velan",
			Name:        "Coconut",
			NameInTamil: "தேங்காய்",
			Description: "Fresh coconuts from the grove",
			Category:    models.CategoryOther,
			Price:       35,
			Quantity:    300,
			Unit:        "piece",
			HarvestDate: "2025-01-20",
			ImageURL:    "/static/productpic/coconut.jpg",
			Rating:      4.6,
			Location:    "Coimbatore",
		},
	}
}
