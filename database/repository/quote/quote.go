package quoteRepo

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

// QuoteRequestRepository defines data access for quote requests and their embedded quotes.
type QuoteRequestRepository interface {
	Create(ctx context.Context, req *models.QuoteRequest) error
	GetByID(ctx context.Context, id string) (*models.QuoteRequest, error)
	FindByCustomer(ctx context.Context, customerID string) ([]models.QuoteRequest, error)
	// FindOpen returns requests still accepting quotes, newest first.
	FindOpen(ctx context.Context, category string) ([]models.QuoteRequest, error)
	// AppendQuote pushes a quote while the parent accepts quotes and flips pending to quoted.
	// It returns the request as stored afterwards.
	AppendQuote(ctx context.Context, id string, quote models.Quote, at time.Time) (*models.QuoteRequest, error)
	// AcceptQuote marks one embedded quote and the parent as accepted while the parent is still open.
	// Sibling quotes are untouched. A request that already left the open states yields ErrVersionConflict.
	AcceptQuote(ctx context.Context, id, quoteID string, at time.Time) (*models.QuoteRequest, error)
	// ExpireBefore moves open requests whose expiresAt is before cutoff to expired.
	ExpireBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// MongoQuoteRequestRepo implements QuoteRequestRepository using MongoDB.
type MongoQuoteRequestRepo struct {
	coll *mongo.Collection
}

func NewMongoQuoteRequestRepo(db *mongo.Database) *MongoQuoteRequestRepo {
	return &MongoQuoteRequestRepo{coll: db.Collection("quote_requests")}
}

var openStatuses = []models.QuoteRequestStatus{models.QuoteRequestPending, models.QuoteRequestQuoted}

func (r *MongoQuoteRequestRepo) Create(ctx context.Context, req *models.QuoteRequest) error {
	ctx, cancel := context.WithTimeout(ctx, repository.DefaultTimeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, req); err != nil {
		return fmt.Errorf("error creating quote request: %w", err)
	}
	return nil
}

func (r *MongoQuoteRequestRepo) GetByID(ctx context.Context, id string) (*models.QuoteRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, repository.DefaultTimeout)
	defer cancel()

	var req models.QuoteRequest
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&req); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("error fetching quote request %s: %w", id, err)
	}
	return &req, nil
}

func (r *MongoQuoteRequestRepo) FindByCustomer(ctx context.Context, customerID string) ([]models.QuoteRequest, error) {
	return r.find(ctx, bson.M{"customerId": customerID})
}

func (r *MongoQuoteRequestRepo) FindOpen(ctx context.Context, category string) ([]models.QuoteRequest, error) {
	filter := bson.M{"status": bson.M{"$in": openStatuses}}
	if category != "" {
		filter["category"] = category
	}
	return r.find(ctx, filter)
}

func (r *MongoQuoteRequestRepo) find(ctx context.Context, filter bson.M) ([]models.QuoteRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(100)
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding quote requests: %w", err)
	}
	defer cursor.Close(ctx)

	reqs := []models.QuoteRequest{}
	if err := cursor.All(ctx, &reqs); err != nil {
		return nil, fmt.Errorf("error decoding quote requests: %w", err)
	}
	return reqs, nil
}

func (r *MongoQuoteRequestRepo) AppendQuote(ctx context.Context, id string, quote models.Quote, at time.Time) (*models.QuoteRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, repository.DefaultTimeout)
	defer cancel()

	// Both steps are single-document atomic updates. The second only matches while the
	// parent is still pending, so only the first quote flips the status.
	filter := bson.M{"id": id, "status": bson.M{"$in": openStatuses}}
	push := bson.M{
		"$push": bson.M{"quotes": quote},
		"$set":  bson.M{"updatedAt": at},
	}
	res, err := r.coll.UpdateOne(ctx, filter, push)
	if err != nil {
		return nil, fmt.Errorf("error appending quote to request %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return nil, repository.ErrVersionConflict
	}

	flip := bson.M{"$set": bson.M{"status": models.QuoteRequestQuoted}}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": id, "status": models.QuoteRequestPending}, flip); err != nil {
		return nil, fmt.Errorf("error marking request %s quoted: %w", id, err)
	}
	return r.GetByID(ctx, id)
}

func (r *MongoQuoteRequestRepo) AcceptQuote(ctx context.Context, id, quoteID string, at time.Time) (*models.QuoteRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, repository.DefaultTimeout)
	defer cancel()

	filter := bson.M{"id": id, "quotes.id": quoteID, "status": bson.M{"$in": openStatuses}}
	update := bson.M{"$set": bson.M{
		"quotes.$.status": models.QuoteAccepted,
		"status":          models.QuoteRequestAccepted,
		"acceptedQuoteId": quoteID,
		"updatedAt":       at,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var req models.QuoteRequest
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&req); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, r.acceptMiss(ctx, id, quoteID)
		}
		return nil, fmt.Errorf("error accepting quote %s on request %s: %w", quoteID, id, err)
	}
	return &req, nil
}

// acceptMiss tells a missing request or quote apart from a request that is no longer open.
func (r *MongoQuoteRequestRepo) acceptMiss(ctx context.Context, id, quoteID string) error {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current.FindQuote(quoteID) == nil {
		return repository.ErrNotFound
	}
	return repository.ErrVersionConflict
}

func (r *MongoQuoteRequestRepo) ExpireBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"status":    bson.M{"$in": openStatuses},
		"expiresAt": bson.M{"$lt": cutoff},
	}
	update := bson.M{"$set": bson.M{"status": models.QuoteRequestExpired, "updatedAt": cutoff}}
	res, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("error expiring quote requests: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *MongoQuoteRequestRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "customerId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "category", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "expiresAt", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create quote request indexes: %w", err)
	}
	return nil
}
