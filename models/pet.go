package models

import "time"

// PetProfile describes a pet owned by one person.
type PetProfile struct {
	ID             string    `bson:"id" json:"id"`
	PetOwner       string    `bson:"petOwner" json:"petOwner"`
	Name           string    `bson:"name" json:"name"`
	Breed          string    `bson:"breed" json:"breed"`
	Age            int       `bson:"age" json:"age"`       // years
	Weight         float64   `bson:"weight" json:"weight"` // kg
	MedicalHistory string    `bson:"medicalHistory,omitempty" json:"medicalHistory,omitempty"`
	Notes          string    `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

// DogListing is a dog offered by a vendor.
type DogListing struct {
	ID        string    `bson:"id" json:"id"`
	Vendor    string    `bson:"vendor" json:"vendor"` // person ID of the creator
	Breed     string    `bson:"breed" json:"breed"`
	Age       int       `bson:"age" json:"age"`
	Price     float64   `bson:"price" json:"price"`
	Location  string    `bson:"location" json:"location"`
	Image     string    `bson:"image,omitempty" json:"image,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
