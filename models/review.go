package models

import "time"

// Review is a customer's rating of a completed service request. One per request.
type Review struct {
	ID               string    `bson:"id" json:"id"`
	ServiceRequestID string    `bson:"serviceRequestId" json:"serviceRequestId"`
	CustomerID       string    `bson:"customerId" json:"customerId"`
	ProviderID       string    `bson:"providerId" json:"providerId"`
	Rating           int       `bson:"rating" json:"rating"`
	Comment          string    `bson:"comment" json:"comment,omitempty"`
	Photos           []string  `bson:"photos,omitempty" json:"photos,omitempty"`
	CreatedAt        time.Time `bson:"createdAt" json:"createdAt"`
}

type ReviewInput struct {
	Rating  int      `json:"rating" validate:"required,min=1,max=5"`
	Comment string   `json:"comment" validate:"max=4000"`
	Photos  []string `json:"photos" validate:"max=10,dive,url"`
}
