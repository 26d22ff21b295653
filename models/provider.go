package models

import (
	"time"
)

// Provider is a local service provider that customers can hire.
// ReliabilityScore and LastScoreUpdate are derived state owned by the score engine.
type Provider struct {
	ID               string     `bson:"id" json:"id"`
	UserID           string     `bson:"userId" json:"userId"`
	Name             string     `bson:"name" json:"name"`
	Email            string     `bson:"email" json:"email,omitempty"`
	PhoneNumber      string     `bson:"phoneNumber" json:"phoneNumber,omitempty"`
	Bio              string     `bson:"bio" json:"bio,omitempty"`
	Category         string     `bson:"category" json:"category"`
	SubCategory      string     `bson:"subCategory" json:"subCategory,omitempty"`
	HourlyRate       float64    `bson:"hourlyRate" json:"hourlyRate"`
	IsAvailable      bool       `bson:"isAvailable" json:"isAvailable"`
	ReliabilityScore int        `bson:"reliabilityScore" json:"reliabilityScore"`
	LastScoreUpdate  *time.Time `bson:"lastScoreUpdate,omitempty" json:"lastScoreUpdate,omitempty"`
	CreatedAt        time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time  `bson:"updatedAt" json:"updatedAt"`
}

type CreateProviderInput struct {
	Name        string  `json:"name" validate:"required,min=2,max=120"`
	Email       string  `json:"email" validate:"omitempty,email"`
	PhoneNumber string  `json:"phoneNumber"`
	Bio         string  `json:"bio" validate:"max=2000"`
	Category    string  `json:"category" validate:"required"`
	SubCategory string  `json:"subCategory"`
	HourlyRate  float64 `json:"hourlyRate" validate:"gte=0"`
}

// ProviderUpdateRequest is a partial profile edit. Nil fields are left untouched.
// Score fields are deliberately absent.
type ProviderUpdateRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	Email       *string  `json:"email,omitempty" validate:"omitempty,email"`
	PhoneNumber *string  `json:"phoneNumber,omitempty"`
	Bio         *string  `json:"bio,omitempty" validate:"omitempty,max=2000"`
	Category    *string  `json:"category,omitempty" validate:"omitempty,min=1"`
	SubCategory *string  `json:"subCategory,omitempty"`
	HourlyRate  *float64 `json:"hourlyRate,omitempty" validate:"omitempty,gte=0"`
	IsAvailable *bool    `json:"isAvailable,omitempty"`
}
