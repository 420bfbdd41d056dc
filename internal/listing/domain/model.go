package domain

import "time"

type PropertyType string

const (
	PropertyHouse      PropertyType = "house"
	PropertyApartment  PropertyType = "apartment"
	PropertyLand       PropertyType = "land"
	PropertyCommercial PropertyType = "commercial"
)

type TransactionType string

const (
	TransactionSale TransactionType = "sale"
	TransactionRent TransactionType = "rent"
)

// Address is the structured postal address of a listing.
type Address struct {
	Street     string `bson:"street" json:"street"`
	City       string `bson:"city" json:"city"`
	PostalCode string `bson:"postalCode" json:"postalCode"`
	Country    string `bson:"country,omitempty" json:"country,omitempty"`
}

// Contact is the seller or agent reachable for a listing.
type Contact struct {
	Name  string `bson:"name" json:"name"`
	Phone string `bson:"phone" json:"phone"`
	Email string `bson:"email" json:"email"`
}

// GeoPoint is a GeoJSON Point, coordinates ordered [longitude, latitude].
// The repository maintains a 2dsphere index on it.
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

func NewGeoPoint(lng, lat float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{lng, lat}}
}

// Listing is the core entity: one real-estate classified ad.
// Reference is assigned once at creation and never changes; IsApproved
// starts false and gates public visibility.
type Listing struct {
	ID              string          `bson:"_id,omitempty" json:"id"`
	Reference       string          `bson:"reference" json:"reference"`
	Title           string          `bson:"title" json:"title"`
	Description     string          `bson:"description" json:"description"`
	Price           float64         `bson:"price" json:"price"`
	PropertyType    PropertyType    `bson:"propertyType" json:"propertyType"`
	TransactionType TransactionType `bson:"transactionType" json:"transactionType"`
	Rooms           int             `bson:"rooms" json:"rooms"`
	Bedrooms        int             `bson:"bedrooms" json:"bedrooms"`
	Bathrooms       int             `bson:"bathrooms" json:"bathrooms"`
	Surface         int             `bson:"surface" json:"surface"`
	DPE             string          `bson:"dpe" json:"dpe"`
	Address         Address         `bson:"address" json:"address"`
	Contact         Contact         `bson:"contact" json:"contact"`
	Location        GeoPoint        `bson:"location" json:"location"`
	Images          []string        `bson:"images" json:"images"`
	Features        []string        `bson:"features,omitempty" json:"features,omitempty"`
	IsApproved      bool            `bson:"isApproved" json:"isApproved"`
	PostedBy        string          `bson:"postedBy" json:"postedBy"`
	UserIP          string          `bson:"userIp" json:"-"`
	CreatedAt       time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time       `bson:"updatedAt" json:"updatedAt"`
}

// BrowseFilter narrows the public browse query. Zero values mean "no
// constraint"; IsApproved is forced by the query service, not the caller.
type BrowseFilter struct {
	TransactionType TransactionType
	PropertyType    PropertyType
	MinPrice        float64
	MaxPrice        float64
	MinRooms        int
	City            string
	Page            int
	PageSize        int
}

// AdminFilter drives the moderation listing: free-text search across
// title, city, postal code and reference.
type AdminFilter struct {
	Search   string
	Page     int
	PageSize int
}
