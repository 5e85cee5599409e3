package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ActiveSlotIndex is the name of the partial unique index guarding slots.
const ActiveSlotIndex = "uniq_active_slot"

// EnsureIndexes creates indexes for fields frequently used in queries.
func (r *MongoBookingRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_id")},
		{
			// Only one active booking may hold a (service, day, time) slot.
			Keys: bson.D{
				{Key: "service", Value: 1},
				{Key: "appointmentDay", Value: 1},
				{Key: "appointmentTime", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetName(ActiveSlotIndex).
				SetPartialFilterExpression(bson.M{"active": true}),
		},
		{Keys: bson.D{{Key: "petOwner", Value: 1}, {Key: "appointmentDate", Value: -1}}, Options: options.Index().SetName("owner_date")},
		{Keys: bson.D{{Key: "appointmentDate", Value: -1}, {Key: "id", Value: 1}}, Options: options.Index().SetName("date_id")},
		{Keys: bson.D{{Key: "status", Value: 1}}, Options: options.Index().SetName("status")},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}
