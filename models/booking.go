package models

import "time"

// TimeSlot is the coarse part of the day a booking occupies.
type TimeSlot string

const (
	SlotMorning   TimeSlot = "Morning"
	SlotAfternoon TimeSlot = "Afternoon"
	SlotEvening   TimeSlot = "Evening"
)

// Valid reports whether the slot is one of the three known values.
func (s TimeSlot) Valid() bool {
	switch s {
	case SlotMorning, SlotAfternoon, SlotEvening:
		return true
	}
	return false
}

// BookingStatus is the customer-facing lifecycle of a booking.
type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingInProgress BookingStatus = "in-progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingInProgress, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// HoldsSlot reports whether a booking in this status blocks its (date, slot) for the provider.
func (s BookingStatus) HoldsSlot() bool {
	return s == BookingPending || s == BookingConfirmed || s == BookingInProgress
}

// WorkStatus is the provider-facing operational lifecycle. It is allowed to lag or lead Status.
type WorkStatus string

const (
	WorkBooked     WorkStatus = "booked"
	WorkStarted    WorkStatus = "started"
	WorkInProgress WorkStatus = "in-progress"
	WorkCompleted  WorkStatus = "completed"
	WorkCancelled  WorkStatus = "cancelled"
)

func (s WorkStatus) Valid() bool {
	switch s {
	case WorkBooked, WorkStarted, WorkInProgress, WorkCompleted, WorkCancelled:
		return true
	}
	return false
}

// Labels written by the status classifiers and aggregated by the score engine.
const (
	CompletionCompleted    = "Completed"
	CompletionPartial      = "Partially Completed"
	CompletionNotCompleted = "Not Completed"

	ArrivalOnTime = "On Time"
	ArrivalLate   = "Late"
	ArrivalMissed = "Missed"

	FeedbackPositive = "Positive"
	FeedbackNeutral  = "Neutral"
	FeedbackNegative = "Negative"
)

type ServiceDetails struct {
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description" json:"description,omitempty"`
	Category    string `bson:"category" json:"category,omitempty"`
}

type BookingDetails struct {
	Date          string    `bson:"date" json:"date"` // "2006-01-02"
	TimeSlot      TimeSlot  `bson:"timeSlot" json:"timeSlot"`
	DurationHours float64   `bson:"durationHours" json:"durationHours"`
	Address       string    `bson:"address" json:"address"`
	Instructions  string    `bson:"instructions" json:"instructions,omitempty"`
	ScheduledAt   time.Time `bson:"scheduledAt" json:"scheduledAt"`
}

type Pricing struct {
	HourlyRate    float64 `bson:"hourlyRate" json:"hourlyRate"`
	TotalHours    float64 `bson:"totalHours" json:"totalHours"`
	TotalAmount   float64 `bson:"totalAmount" json:"totalAmount"`
	PaymentMethod string  `bson:"paymentMethod" json:"paymentMethod"`
	PaymentStatus string  `bson:"paymentStatus" json:"paymentStatus"`
}

type AdminVerification struct {
	IsVerified          bool       `bson:"isVerified" json:"isVerified"`
	VerifiedBy          string     `bson:"verifiedBy,omitempty" json:"verifiedBy,omitempty"`
	VerifiedAt          *time.Time `bson:"verifiedAt,omitempty" json:"verifiedAt,omitempty"`
	Notes               string     `bson:"notes,omitempty" json:"notes,omitempty"`
	CustomerVerified    bool       `bson:"customerVerified" json:"customerVerified"`
	ProviderVerified    bool       `bson:"providerVerified" json:"providerVerified"`
	WorkQualityVerified bool       `bson:"workQualityVerified" json:"workQualityVerified"`
}

// TimelineEntry is one immutable step of a booking's audit trail.
type TimelineEntry struct {
	Status    string    `bson:"status" json:"status"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	Note      string    `bson:"note" json:"note"`
	Actor     string    `bson:"actor" json:"actor"`
	ActorRole string    `bson:"actorRole" json:"actorRole"`
}

type Rating struct {
	Rating    int       `bson:"rating" json:"rating"`
	Text      string    `bson:"text" json:"text,omitempty"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// Booking represents a customer's reservation of a provider for a (date, slot).
type Booking struct {
	ID                string            `bson:"id" json:"id"`
	CustomerID        string            `bson:"customerId" json:"customerId"`
	ProviderID        string            `bson:"providerId" json:"providerId"`
	Service           ServiceDetails    `bson:"service" json:"service"`
	Details           BookingDetails    `bson:"details" json:"details"`
	Pricing           Pricing           `bson:"pricing" json:"pricing"`
	Status            BookingStatus     `bson:"status" json:"status"`
	WorkStatus        WorkStatus        `bson:"workStatus" json:"workStatus"`
	AdminVerification AdminVerification `bson:"adminVerification" json:"adminVerification"`
	Timeline          []TimelineEntry   `bson:"timeline" json:"timeline"`
	CustomerRating    *Rating           `bson:"customerRating,omitempty" json:"customerRating,omitempty"`
	ProviderRating    *Rating           `bson:"providerRating,omitempty" json:"providerRating,omitempty"`
	ActualArrival     *time.Time        `bson:"actualArrival,omitempty" json:"actualArrival,omitempty"`
	CompletionStatus  string            `bson:"completion_status" json:"completionStatus"`
	ArrivalStatus     string            `bson:"arrival_status" json:"arrivalStatus,omitempty"`
	FeedbackStatus    string            `bson:"feedback_status" json:"feedbackStatus,omitempty"`
	SlotHeld          bool              `bson:"slotHeld" json:"-"`
	Version           int               `bson:"version" json:"version"`
	CreatedAt         time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time         `bson:"updatedAt" json:"updatedAt"`
}

// IsParticipant reports whether the actor is the booking's customer or provider.
func (b *Booking) IsParticipant(a Actor) bool {
	return a.ID == b.CustomerID || a.OwnsProvider(b.ProviderID)
}

// CreateBookingInput is what a customer submits to reserve a provider.
type CreateBookingInput struct {
	ProviderID         string  `json:"providerId" validate:"required"`
	ServiceName        string  `json:"serviceName" validate:"required"`
	ServiceDescription string  `json:"serviceDescription"`
	ServiceCategory    string  `json:"serviceCategory"`
	Date               string  `json:"date" validate:"required"`
	TimeSlot           string  `json:"timeSlot" validate:"required,oneof=Morning Afternoon Evening"`
	DurationHours      float64 `json:"durationHours" validate:"required,gt=0,lte=24"`
	Address            string  `json:"address" validate:"required"`
	Instructions       string  `json:"instructions"`
	PaymentMethod      string  `json:"paymentMethod" validate:"omitempty,oneof=cash card wallet"`
}

// StatusUpdateInput carries the optional status / workStatus values of one transition call.
type StatusUpdateInput struct {
	Status     *BookingStatus `json:"status,omitempty"`
	WorkStatus *WorkStatus    `json:"workStatus,omitempty"`
	Note       string         `json:"note,omitempty"`
}

type VerificationInput struct {
	IsVerified          bool   `json:"isVerified"`
	Notes               string `json:"notes"`
	CustomerVerified    bool   `json:"customerVerified"`
	ProviderVerified    bool   `json:"providerVerified"`
	WorkQualityVerified bool   `json:"workQualityVerified"`
}

type RatingInput struct {
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Text   string `json:"text" validate:"max=2000"`
}

type ArrivalInput struct {
	ArrivedAt *time.Time `json:"arrivedAt,omitempty"`
}
