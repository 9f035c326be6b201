package models

import "time"

type Category string

const (
	CategoryVegetables Category = "vegetables"
	CategoryFruits     Category = "fruits"
	CategoryGrains     Category = "grains"
	CategoryDairy      Category = "dairy"
	CategoryOther      Category = "other"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryVegetables, CategoryFruits, CategoryGrains, CategoryDairy, CategoryOther:
		return true
	}
	return false
}

// Product is a farmer listing. FarmerName and Location are denormalized from
// the owning user record when listings are fetched.
type Product struct {
	ProductID   string    `json:"id" bson:"productid"`
	FarmerID    string    `json:"farmerId" bson:"farmer_id"`
	FarmerName  string    `json:"farmerName" bson:"farmer_name"`
	Name        string    `json:"name" bson:"name"`
	NameInTamil string    `json:"nameInTamil,omitempty" bson:"name_in_tamil,omitempty"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Category    Category  `json:"category" bson:"category"`
	Price       float64   `json:"price" bson:"price"`       // unit price, never negative
	Quantity    int       `json:"quantity" bson:"quantity"` // stock on hand, never negative
	Unit        string    `json:"unit" bson:"unit"`         // e.g. "kg", "dozen", "piece"
	HarvestDate string    `json:"harvestDate,omitempty" bson:"harvest_date,omitempty"`
	ImageURL    string    `json:"imageUrl" bson:"image_url"`
	Rating      float64   `json:"rating,omitempty" bson:"rating,omitempty"`
	Location    string    `json:"location,omitempty" bson:"location,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}
