package serviceRequestRepo

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

// ServiceRequestRepository defines data access for service requests.
type ServiceRequestRepository interface {
	Create(ctx context.Context, req *models.ServiceRequest) error
	GetByID(ctx context.Context, id string) (*models.ServiceRequest, error)
	FindByCustomer(ctx context.Context, customerID string) ([]models.ServiceRequest, error)
	FindByProvider(ctx context.Context, providerID string) ([]models.ServiceRequest, error)
	// SetStatus writes the status and stamps timestamps.<stampField>. Nothing else changes.
	SetStatus(ctx context.Context, id string, status models.ServiceRequestStatus, stampField string, at time.Time) error
	// SetEstimate records a provider's price estimate alongside the quote_sent transition.
	SetEstimate(ctx context.Context, id string, amount float64, at time.Time) error
}

// MongoServiceRequestRepo implements ServiceRequestRepository using MongoDB.
type MongoServiceRequestRepo struct {
	coll *mongo.Collection
}

func NewMongoServiceRequestRepo(db *mongo.Database) *MongoServiceRequestRepo {
	return &MongoServiceRequestRepo{coll: db.Collection("service_requests")}
}

func (r *MongoServiceRequestRepo) Create(ctx context.Context, req *models.ServiceRequest) error {
	ctx, cancel := context.WithTimeout(ctx, repository.DefaultTimeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, req); err != nil {
		return fmt.Errorf("error creating service request: %w", err)
	}
	return nil
}

func (r *MongoServiceRequestRepo) GetByID(ctx context.Context, id string) (*models.ServiceRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, repository.DefaultTimeout)
	defer cancel()

	var req models.ServiceRequest
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&req); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("error fetching service request %s: %w", id, err)
	}
	return &req, nil
}

func (r *MongoServiceRequestRepo) FindByCustomer(ctx context.Context, customerID string) ([]models.ServiceRequest, error) {
	return r.find(ctx, bson.M{"customerId": customerID})
}

func (r *MongoServiceRequestRepo) FindByProvider(ctx context.Context, providerID string) ([]models.ServiceRequest, error) {
	return r.find(ctx, bson.M{"providerId": providerID})
}

func (r *MongoServiceRequestRepo) find(ctx context.Context, filter bson.M) ([]models.ServiceRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding service requests: %w", err)
	}
	defer cursor.Close(ctx)

	reqs := []models.ServiceRequest{}
	if err := cursor.All(ctx, &reqs); err != nil {
		return nil, fmt.Errorf("error decoding service requests: %w", err)
	}
	return reqs, nil
}

func (r *MongoServiceRequestRepo) SetStatus(ctx context.Context, id string, status models.ServiceRequestStatus, stampField string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, repository.DefaultTimeout)
	defer cancel()

	set := bson.M{"status": status}
	set["timestamps."+stampField] = at
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("error updating service request %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *MongoServiceRequestRepo) SetEstimate(ctx context.Context, id string, amount float64, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, repository.DefaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"status":              models.RequestQuoteSent,
		"estimatedCost":       amount,
		"timestamps.quotedAt": at,
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("error setting estimate on service request %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *MongoServiceRequestRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "customerId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "providerId", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create service request indexes: %w", err)
	}
	return nil
}
