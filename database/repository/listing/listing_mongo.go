package listingRepo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"barkbox/database/repository"
	"barkbox/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListingFilter narrows a dog listing search.
type ListingFilter struct {
	Breed    string // case-insensitive substring
	Location string // case-insensitive substring
	MaxPrice *float64
	Vendor   string
}

// ListingRepository defines methods for dog listing data access.
type ListingRepository interface {
	Create(ctx context.Context, l *models.DogListing) error
	GetByID(ctx context.Context, id string) (*models.DogListing, error)
	List(ctx context.Context, f ListingFilter, page models.PageRequest) ([]models.DogListing, int64, error)
	Replace(ctx context.Context, l *models.DogListing) error
	Delete(ctx context.Context, id string) error
	EnsureIndexes(ctx context.Context) error
}

const opTimeout = 5 * time.Second

// MongoListingRepo implements ListingRepository using MongoDB.
type MongoListingRepo struct {
	coll *mongo.Collection
}

// NewMongoListingRepo creates a repository backed by coll.
func NewMongoListingRepo(coll *mongo.Collection) *MongoListingRepo {
	return &MongoListingRepo{coll: coll}
}

// EnsureIndexes creates indexes for fields frequently used in queries.
func (r *MongoListingRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "vendor", Value: 1}}},
		{Keys: bson.D{{Key: "breed", Value: 1}, {Key: "price", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create listing indexes: %w", err)
	}
	return nil
}

// BuildListingFilter converts search criteria into a query document.
func BuildListingFilter(f ListingFilter) bson.M {
	filter := bson.M{}
	if f.Breed != "" {
		filter["breed"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Breed), Options: "i"}
	}
	if f.Location != "" {
		filter["location"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Location), Options: "i"}
	}
	if f.MaxPrice != nil {
		filter["price"] = bson.M{"$lte": *f.MaxPrice}
	}
	if f.Vendor != "" {
		filter["vendor"] = f.Vendor
	}
	return filter
}

func (r *MongoListingRepo) Create(ctx context.Context, l *models.DogListing) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, l); err != nil {
		return fmt.Errorf("failed to insert dog listing: %w", repository.Translate(err))
	}
	return nil
}

func (r *MongoListingRepo) GetByID(ctx context.Context, id string) (*models.DogListing, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var l models.DogListing
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&l); err != nil {
		return nil, fmt.Errorf("failed to fetch dog listing %s: %w", id, repository.Translate(err))
	}
	return &l, nil
}

func (r *MongoListingRepo) List(ctx context.Context, f ListingFilter, page models.PageRequest) ([]models.DogListing, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := BuildListingFilter(f)
	page = page.Normalize()
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "id", Value: 1}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list dog listings: %w", err)
	}
	listings := []models.DogListing{}
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, 0, fmt.Errorf("failed to decode dog listings: %w", err)
	}
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count dog listings: %w", err)
	}
	return listings, total, nil
}

func (r *MongoListingRepo) Replace(ctx context.Context, l *models.DogListing) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": l.ID}, l)
	if err != nil {
		return fmt.Errorf("failed to update dog listing %s: %w", l.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("failed to update dog listing %s: %w", l.ID, repository.ErrNotFound)
	}
	return nil
}

func (r *MongoListingRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete dog listing %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("failed to delete dog listing %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

var _ ListingRepository = (*MongoListingRepo)(nil)
