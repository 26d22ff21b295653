package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hirewise/database/repository"
	"hirewise/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs a new instance of MongoBookingRepo.
func NewMongoBookingRepo(db *mongo.Database) *MongoBookingRepo {
	return &MongoBookingRepo{coll: db.Collection("bookings")}
}

// Create inserts a new booking document.
func (repo *MongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, repository.DefaultTimeout)
	defer cancel()

	booking.SlotHeld = booking.Status.HoldsSlot()
	if _, err := repo.coll.InsertOne(ctx, booking); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("error creating booking: %w", err)
	}
	return nil
}

// GetByID retrieves a booking by its ID.
func (repo *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, repository.DefaultTimeout)
	defer cancel()

	var booking models.Booking
	if err := repo.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("error fetching booking %s: %w", id, err)
	}
	return &booking, nil
}

func (repo *MongoBookingRepo) FindByProvider(ctx context.Context, providerID string) ([]models.Booking, error) {
	return repo.find(ctx, bson.M{"providerId": providerID})
}

func (repo *MongoBookingRepo) FindByCustomer(ctx context.Context, customerID string) ([]models.Booking, error) {
	return repo.find(ctx, bson.M{"customerId": customerID})
}

func (repo *MongoBookingRepo) find(ctx context.Context, filter bson.M) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "id", Value: 1}})
	cursor, err := repo.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	for cursor.Next(ctx) {
		var b models.Booking
		if err := cursor.Decode(&b); err != nil {
			return nil, fmt.Errorf("error decoding booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return bookings, nil
}

// ExistsActiveInSlot backs the conflict guard. Time of day is not part of the key; only the calendar day is.
func (repo *MongoBookingRepo) ExistsActiveInSlot(ctx context.Context, providerID, date string, slot models.TimeSlot) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, repository.DefaultTimeout)
	defer cancel()

	filter := bson.M{
		"providerId":       providerID,
		"details.date":     date,
		"details.timeSlot": slot,
		"status":           bson.M{"$in": activeStatuses},
	}
	n, err := repo.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("error checking slot for provider %s: %w", providerID, err)
	}
	return n > 0, nil
}

func (repo *MongoBookingRepo) CountActiveByProvider(ctx context.Context, providerID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, repository.DefaultTimeout)
	defer cancel()

	filter := bson.M{
		"providerId": providerID,
		"status":     bson.M{"$in": activeStatuses},
	}
	n, err := repo.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("error counting active bookings for provider %s: %w", providerID, err)
	}
	return n, nil
}

// ReplaceWithVersion performs the optimistic compare-and-swap used for every booking mutation.
func (repo *MongoBookingRepo) ReplaceWithVersion(ctx context.Context, booking *models.Booking, expectedVersion int) error {
	ctx, cancel := context.WithTimeout(ctx, repository.DefaultTimeout)
	defer cancel()

	next := *booking
	next.Version = expectedVersion + 1
	next.SlotHeld = next.Status.HoldsSlot()

	filter := bson.M{"id": booking.ID, "version": expectedVersion}
	res, err := repo.coll.ReplaceOne(ctx, filter, &next)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("error updating booking %s: %w", booking.ID, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrVersionConflict
	}
	booking.Version = next.Version
	booking.SlotHeld = next.SlotHeld
	return nil
}

var activeStatuses = []models.BookingStatus{
	models.BookingPending,
	models.BookingConfirmed,
	models.BookingInProgress,
}
