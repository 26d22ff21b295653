package models

import "time"

type QuoteRequestStatus string

const (
	QuoteRequestPending  QuoteRequestStatus = "pending"
	QuoteRequestQuoted   QuoteRequestStatus = "quoted"
	QuoteRequestAccepted QuoteRequestStatus = "accepted"
	QuoteRequestRejected QuoteRequestStatus = "rejected"
	QuoteRequestExpired  QuoteRequestStatus = "expired"
)

// AcceptsQuotes reports whether providers may still append quotes.
func (s QuoteRequestStatus) AcceptsQuotes() bool {
	return s == QuoteRequestPending || s == QuoteRequestQuoted
}

type QuoteStatus string

const (
	QuotePending  QuoteStatus = "pending"
	QuoteAccepted QuoteStatus = "accepted"
	QuoteRejected QuoteStatus = "rejected"
)

// Quote is embedded in its parent QuoteRequest.
type Quote struct {
	ID         string      `bson:"id" json:"id"`
	ProviderID string      `bson:"providerId" json:"providerId"`
	Amount     float64     `bson:"amount" json:"amount"`
	Message    string      `bson:"message" json:"message,omitempty"`
	Status     QuoteStatus `bson:"status" json:"status"`
	CreatedAt  time.Time   `bson:"createdAt" json:"createdAt"`
}

// QuoteRequest is a job description a customer posts so providers can bid on it.
type QuoteRequest struct {
	ID              string             `bson:"id" json:"id"`
	CustomerID      string             `bson:"customerId" json:"customerId"`
	Title           string             `bson:"title" json:"title"`
	Description     string             `bson:"description" json:"description"`
	Category        string             `bson:"category" json:"category"`
	Address         string             `bson:"address" json:"address,omitempty"`
	PreferredDate   string             `bson:"preferredDate,omitempty" json:"preferredDate,omitempty"`
	Budget          float64            `bson:"budget,omitempty" json:"budget,omitempty"`
	Quotes          []Quote            `bson:"quotes" json:"quotes"`
	Status          QuoteRequestStatus `bson:"status" json:"status"`
	AcceptedQuoteID string             `bson:"acceptedQuoteId,omitempty" json:"acceptedQuoteId,omitempty"`
	ExpiresAt       *time.Time         `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// FindQuote returns the embedded quote with the given id, or nil.
func (q *QuoteRequest) FindQuote(quoteID string) *Quote {
	for i := range q.Quotes {
		if q.Quotes[i].ID == quoteID {
			return &q.Quotes[i]
		}
	}
	return nil
}

type CreateQuoteRequestInput struct {
	Title         string     `json:"title" validate:"required,max=200"`
	Description   string     `json:"description" validate:"required,max=4000"`
	Category      string     `json:"category" validate:"required"`
	Address       string     `json:"address"`
	PreferredDate string     `json:"preferredDate"`
	Budget        float64    `json:"budget" validate:"gte=0"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
}

type SubmitQuoteInput struct {
	Amount  float64 `json:"amount" validate:"required,gt=0"`
	Message string  `json:"message" validate:"max=2000"`
}
