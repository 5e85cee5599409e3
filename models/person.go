package models

import "time"

// Role distinguishes the person variants.
type Role string

const (
	RoleUser   Role = "user"
	RoleVendor Role = "vendor"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleVendor, RoleAdmin:
		return true
	}
	return false
}

// VendorProfile is the payload carried by vendor accounts.
type VendorProfile struct {
	StoreName        string `bson:"storeName" json:"storeName" validate:"required,min=2,max=100"`
	StoreDescription string `bson:"storeDescription" json:"storeDescription" validate:"required,max=1000"`
	StoreLocation    string `bson:"storeLocation" json:"storeLocation" validate:"required,max=200"`
	StoreContact     string `bson:"storeContact" json:"storeContact" validate:"required,max=50"`
}

// UserProfile is the payload carried by regular user accounts.
type UserProfile struct {
	FavoriteBreeds []string `bson:"favoriteBreeds,omitempty" json:"favoriteBreeds,omitempty" validate:"omitempty,max=20,dive,min=1,max=50"`
}

// Person is a registered account. Exactly one of Vendor or User is set,
// matching Role; admins carry neither.
type Person struct {
	ID           string         `bson:"id" json:"id"`
	FirstName    string         `bson:"firstName" json:"firstName"`
	LastName     string         `bson:"lastName" json:"lastName"`
	Email        string         `bson:"email" json:"email"` // stored lower-cased
	PasswordHash string         `bson:"passwordHash" json:"-"`
	Role         Role           `bson:"role" json:"role"`
	Vendor       *VendorProfile `bson:"vendor,omitempty" json:"vendor,omitempty"`
	User         *UserProfile   `bson:"user,omitempty" json:"user,omitempty"`
	CreatedAt    time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// Summary returns the display fields joined into booking responses.
func (p *Person) Summary() *PersonSummary {
	return &PersonSummary{ID: p.ID, FirstName: p.FirstName, LastName: p.LastName, Email: p.Email}
}

// PersonSummary holds the fields safe to expose alongside another resource.
type PersonSummary struct {
	ID        string `bson:"id" json:"id"`
	FirstName string `bson:"firstName" json:"firstName"`
	LastName  string `bson:"lastName" json:"lastName"`
	Email     string `bson:"email" json:"email"`
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   string
	Role Role
}

// IsPrivileged reports whether the actor may manage bookings they do not own.
func (a Actor) IsPrivileged() bool {
	return a.Role == RoleAdmin || a.Role == RoleVendor
}

// IsAdmin reports whether the actor is an administrator.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
