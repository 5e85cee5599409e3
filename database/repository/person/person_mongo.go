package personRepo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"barkbox/database/repository"
	"barkbox/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const opTimeout = 5 * time.Second

// summaryProjection limits reads to the fields of models.PersonSummary.
var summaryProjection = bson.M{"_id": 0, "id": 1, "firstName": 1, "lastName": 1, "email": 1}

// MongoPersonRepo implements PersonRepository using MongoDB.
type MongoPersonRepo struct {
	coll *mongo.Collection
}

// NewMongoPersonRepo creates a repository backed by coll.
func NewMongoPersonRepo(coll *mongo.Collection) *MongoPersonRepo {
	return &MongoPersonRepo{coll: coll}
}

// EnsureIndexes creates indexes for fields frequently used in queries.
func (r *MongoPersonRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "role", Value: 1}, {Key: "createdAt", Value: -1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create person indexes: %w", err)
	}
	return nil
}

// Create inserts a new person record.
func (r *MongoPersonRepo) Create(ctx context.Context, p *models.Person) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("failed to insert person: %w", repository.Translate(err))
	}
	return nil
}

// GetByID retrieves a person by its unique ID.
func (r *MongoPersonRepo) GetByID(ctx context.Context, id string) (*models.Person, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

// GetByEmail retrieves a person by email address.
func (r *MongoPersonRepo) GetByEmail(ctx context.Context, email string) (*models.Person, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
}

func (r *MongoPersonRepo) findOne(ctx context.Context, filter bson.M) (*models.Person, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var p models.Person
	if err := r.coll.FindOne(ctx, filter).Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to fetch person: %w", repository.Translate(err))
	}
	return &p, nil
}

// GetSummaries returns display fields for the given IDs, keyed by ID.
func (r *MongoPersonRepo) GetSummaries(ctx context.Context, ids []string) (map[string]*models.PersonSummary, error) {
	out := make(map[string]*models.PersonSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"id": bson.M{"$in": ids}}, options.Find().SetProjection(summaryProjection))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch person summaries: %w", err)
	}
	var summaries []models.PersonSummary
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, fmt.Errorf("failed to decode person summaries: %w", err)
	}
	for i := range summaries {
		out[summaries[i].ID] = &summaries[i]
	}
	return out, nil
}

// List returns one page of persons, optionally filtered by role, newest first.
func (r *MongoPersonRepo) List(ctx context.Context, role models.Role, page models.PageRequest) ([]models.Person, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{}
	if role != "" {
		filter["role"] = role
	}
	page = page.Normalize()
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "id", Value: 1}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list persons: %w", err)
	}
	persons := []models.Person{}
	if err := cursor.All(ctx, &persons); err != nil {
		return nil, 0, fmt.Errorf("failed to decode persons: %w", err)
	}
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count persons: %w", err)
	}
	return persons, total, nil
}

// Replace overwrites a stored person.
func (r *MongoPersonRepo) Replace(ctx context.Context, p *models.Person) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": p.ID}, p)
	if err != nil {
		return fmt.Errorf("failed to update person %s: %w", p.ID, repository.Translate(err))
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("failed to update person %s: %w", p.ID, repository.ErrNotFound)
	}
	return nil
}

// Delete removes a person record by its ID.
func (r *MongoPersonRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete person %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("failed to delete person %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

var _ PersonRepository = (*MongoPersonRepo)(nil)
