package models

import "time"

// Role distinguishes the two dashboard capabilities. Users share one shape; the
// role tag is the only variant marker, and it is immutable after registration.
type Role string

const (
	RoleFarmer   Role = "farmer"
	RoleConsumer Role = "consumer"
)

func (r Role) Valid() bool {
	return r == RoleFarmer || r == RoleConsumer
}

type User struct {
	UserID        string    `json:"id" bson:"userid"`
	Email         string    `json:"email" bson:"email"`
	Password      string    `json:"-" bson:"password"` // bcrypt hash, never serialized out
	Name          string    `json:"name" bson:"name"`
	Role          Role      `json:"role" bson:"role"`
	Phone         string    `json:"phone" bson:"phone"`
	Address       string    `json:"address,omitempty" bson:"address,omitempty"`
	Location      string    `json:"location,omitempty" bson:"location,omitempty"`
	IsVerified    bool      `json:"isVerified,omitempty" bson:"is_verified"`
	ProfileImage  string    `json:"profileImage,omitempty" bson:"profile_image,omitempty"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
	LastLogin     time.Time `json:"-" bson:"last_login"`
	RefreshToken  string    `json:"-" bson:"refresh_token,omitempty"`
	RefreshExpiry time.Time `json:"-" bson:"refresh_expiry,omitempty"`
}
