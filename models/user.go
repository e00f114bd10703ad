package models

import "time"

type User struct {
	UserID          string    `json:"userid" bson:"userid"`
	Username        string    `json:"username" bson:"username"`
	Password        string    `json:"-" bson:"password"`
	FullName        string    `json:"fullName" bson:"fullName"`
	Email           string    `json:"email" bson:"email"`
	ShippingAddress string    `json:"shippingAddress" bson:"shippingAddress"`
	Role            []string  `json:"role" bson:"role"`
	RefreshToken    string    `json:"-" bson:"refreshToken,omitempty"`
	RefreshExpiry   time.Time `json:"-" bson:"refreshExpiry,omitempty"`
	LastLogin       time.Time `json:"lastLogin,omitempty" bson:"lastLogin,omitempty"`
	CreatedAt       time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	for _, r := range u.Role {
		if r == "admin" {
			return true
		}
	}
	return false
}
