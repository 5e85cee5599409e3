package petRepo

import (
	"context"
	"fmt"
	"time"

	"barkbox/database/repository"
	"barkbox/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PetRepository defines methods for pet profile data access.
type PetRepository interface {
	Create(ctx context.Context, p *models.PetProfile) error
	GetByID(ctx context.Context, id string) (*models.PetProfile, error)
	// ListByOwner returns one page of an owner's pets; an empty owner lists all.
	ListByOwner(ctx context.Context, owner string, page models.PageRequest) ([]models.PetProfile, int64, error)
	Replace(ctx context.Context, p *models.PetProfile) error
	Delete(ctx context.Context, id string) error
	EnsureIndexes(ctx context.Context) error
}

const opTimeout = 5 * time.Second

// MongoPetRepo implements PetRepository using MongoDB.
type MongoPetRepo struct {
	coll *mongo.Collection
}

// NewMongoPetRepo creates a repository backed by coll.
func NewMongoPetRepo(coll *mongo.Collection) *MongoPetRepo {
	return &MongoPetRepo{coll: coll}
}

// EnsureIndexes creates indexes for fields frequently used in queries.
func (r *MongoPetRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "petOwner", Value: 1}, {Key: "createdAt", Value: -1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create pet indexes: %w", err)
	}
	return nil
}

func (r *MongoPetRepo) Create(ctx context.Context, p *models.PetProfile) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("failed to insert pet profile: %w", repository.Translate(err))
	}
	return nil
}

func (r *MongoPetRepo) GetByID(ctx context.Context, id string) (*models.PetProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var p models.PetProfile
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to fetch pet profile %s: %w", id, repository.Translate(err))
	}
	return &p, nil
}

func (r *MongoPetRepo) ListByOwner(ctx context.Context, owner string, page models.PageRequest) ([]models.PetProfile, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{}
	if owner != "" {
		filter["petOwner"] = owner
	}
	page = page.Normalize()
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "id", Value: 1}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list pet profiles: %w", err)
	}
	pets := []models.PetProfile{}
	if err := cursor.All(ctx, &pets); err != nil {
		return nil, 0, fmt.Errorf("failed to decode pet profiles: %w", err)
	}
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count pet profiles: %w", err)
	}
	return pets, total, nil
}

func (r *MongoPetRepo) Replace(ctx context.Context, p *models.PetProfile) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": p.ID}, p)
	if err != nil {
		return fmt.Errorf("failed to update pet profile %s: %w", p.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("failed to update pet profile %s: %w", p.ID, repository.ErrNotFound)
	}
	return nil
}

func (r *MongoPetRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete pet profile %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("failed to delete pet profile %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

var _ PetRepository = (*MongoPetRepo)(nil)
