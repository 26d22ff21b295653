package models

import "time"

type ServiceRequestStatus string

const (
	RequestRequested  ServiceRequestStatus = "requested"
	RequestQuoteSent  ServiceRequestStatus = "quote_sent"
	RequestAccepted   ServiceRequestStatus = "accepted"
	RequestInProgress ServiceRequestStatus = "in_progress"
	RequestCompleted  ServiceRequestStatus = "completed"
	RequestCancelled  ServiceRequestStatus = "cancelled"
)

// ServiceRequestAction is a lifecycle verb accepted by Advance.
type ServiceRequestAction string

const (
	ActionAccept   ServiceRequestAction = "accept"
	ActionStart    ServiceRequestAction = "start"
	ActionComplete ServiceRequestAction = "complete"
	ActionCancel   ServiceRequestAction = "cancel"
)

// RequestTimestamps is sparse: only transitions that happened are populated.
type RequestTimestamps struct {
	RequestedAt *time.Time `bson:"requestedAt,omitempty" json:"requestedAt,omitempty"`
	QuotedAt    *time.Time `bson:"quotedAt,omitempty" json:"quotedAt,omitempty"`
	AcceptedAt  *time.Time `bson:"acceptedAt,omitempty" json:"acceptedAt,omitempty"`
	StartedAt   *time.Time `bson:"startedAt,omitempty" json:"startedAt,omitempty"`
	CompletedAt *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	CancelledAt *time.Time `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
}

type AddressSnapshot struct {
	Street  string `bson:"street" json:"street"`
	City    string `bson:"city" json:"city"`
	Country string `bson:"country,omitempty" json:"country,omitempty"`
}

// ServiceRequest is the lightweight negotiation entity between a customer and a provider.
type ServiceRequest struct {
	ID            string               `bson:"id" json:"id"`
	CustomerID    string               `bson:"customerId" json:"customerId"`
	ProviderID    string               `bson:"providerId" json:"providerId"`
	Description   string               `bson:"description" json:"description"`
	ScheduledAt   time.Time            `bson:"scheduledAt" json:"scheduledAt"`
	Address       AddressSnapshot      `bson:"address" json:"address"`
	EstimatedCost float64              `bson:"estimatedCost" json:"estimatedCost"`
	Status        ServiceRequestStatus `bson:"status" json:"status"`
	Timestamps    RequestTimestamps    `bson:"timestamps" json:"timestamps"`
	CreatedAt     time.Time            `bson:"createdAt" json:"createdAt"`
}

type CreateServiceRequestInput struct {
	ProviderID    string          `json:"providerId" validate:"required"`
	Description   string          `json:"description" validate:"required,max=4000"`
	ScheduledAt   time.Time       `json:"scheduledAt" validate:"required"`
	Address       AddressSnapshot `json:"address"`
	EstimatedCost float64         `json:"estimatedCost" validate:"gte=0"`
}
