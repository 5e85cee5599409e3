package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"barkbox/database/repository"
	"barkbox/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const opTimeout = 5 * time.Second

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo creates a repository backed by coll.
func NewMongoBookingRepo(coll *mongo.Collection) *MongoBookingRepo {
	return &MongoBookingRepo{coll: coll}
}

// Create inserts a new booking.
func (r *MongoBookingRepo) Create(ctx context.Context, b *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, b); err != nil {
		return fmt.Errorf("failed to insert booking: %w", repository.Translate(err))
	}
	return nil
}

// GetByID retrieves a booking by its unique ID.
func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var b models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&b); err != nil {
		return nil, fmt.Errorf("failed to fetch booking with id %s: %w", id, repository.Translate(err))
	}
	return &b, nil
}

// ExistsInSlot reports whether an active booking occupies the slot.
func (r *MongoBookingRepo) ExistsInSlot(ctx context.Context, q SlotQuery) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.FindOne().SetProjection(bson.M{"_id": 0, "id": 1})
	err := r.coll.FindOne(ctx, BuildSlotFilter(q), opts).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check slot: %w", err)
	}
	return true, nil
}

// Update applies the non-nil patch fields and returns the updated booking.
func (r *MongoBookingRepo) Update(ctx context.Context, id string, patch models.BookingPatch) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var b models.Booking
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": patchDocument(patch)}, opts).Decode(&b)
	if err != nil {
		return nil, fmt.Errorf("failed to update booking %s: %w", id, repository.Translate(err))
	}
	return &b, nil
}

// UpdateStatus moves a booking between statuses using the current status as
// the concurrency token.
func (r *MongoBookingRepo) UpdateStatus(ctx context.Context, id string, from, to models.BookingStatus, at time.Time) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{"id": id, "status": from}
	update := bson.M{"$set": bson.M{
		"status":    to,
		"active":    to.IsActive(),
		"updatedAt": at,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var b models.Booking
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrStaleStatus
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update status of booking %s: %w", id, repository.Translate(err))
	}
	return &b, nil
}

// DeleteUnlessStatus removes a booking unless it is in the protected status.
// A missing match is reported as repository.ErrNotFound.
func (r *MongoBookingRepo) DeleteUnlessStatus(ctx context.Context, id string, protected models.BookingStatus) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{"id": id, "status": bson.M{"$ne": protected}}
	var b models.Booking
	if err := r.coll.FindOneAndDelete(ctx, filter).Decode(&b); err != nil {
		return nil, fmt.Errorf("failed to delete booking %s: %w", id, repository.Translate(err))
	}
	return &b, nil
}

// List returns one page of matching bookings and the total match count.
func (r *MongoBookingRepo) List(ctx context.Context, q ListQuery) ([]models.Booking, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := BuildListFilter(q.Filter)
	cursor, err := r.coll.Find(ctx, filter, BuildFindOptions(q))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, 0, fmt.Errorf("failed to decode bookings: %w", err)
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return bookings, total, nil
}

var _ BookingRepository = (*MongoBookingRepo)(nil)
