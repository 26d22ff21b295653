package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the booking indexes. The partial unique index on
// (providerId, date, timeSlot) over slot-holding bookings closes the race between
// two concurrent creations that both pass the conflict guard.
func (repo *MongoBookingRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	slotHoldOpts := options.Index().
		SetName("uniq_active_provider_slot").
		SetUnique(true).
		SetPartialFilterExpression(bson.M{"slotHeld": true})

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "providerId", Value: 1}, {Key: "createdAt", Value: 1}}},
		{Keys: bson.D{{Key: "customerId", Value: 1}, {Key: "createdAt", Value: 1}}},
		{
			Keys: bson.D{
				{Key: "providerId", Value: 1},
				{Key: "details.date", Value: 1},
				{Key: "details.timeSlot", Value: 1},
			},
			Options: slotHoldOpts,
		},
	}
	if _, err := repo.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}
