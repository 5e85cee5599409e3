package bookingRepo

import (
	"context"
	"testing"
	"time"

	"barkbox/database/repository"
	"barkbox/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const ns = "barkbox.bookings"

func toDoc(t *testing.T, v interface{}) bson.D {
	t.Helper()
	raw, err := bson.Marshal(v)
	require.NoError(t, err)
	var doc bson.D
	require.NoError(t, bson.Unmarshal(raw, &doc))
	return doc
}

func sampleBooking(id string) *models.Booking {
	b := &models.Booking{
		ID:              id,
		Service:         models.ServiceGrooming,
		PetOwner:        "owner-1",
		PetName:         "Rex",
		AppointmentTime: "10:00",
		CreatedAt:       time.Date(2029, 12, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:       time.Date(2029, 12, 1, 0, 0, 0, 0, time.UTC),
	}
	b.SetAppointmentDate(time.Date(2030, 1, 10, 0, 0, 0, 0, time.UTC))
	b.SetStatus(models.StatusPending)
	return b
}

func TestMongoBookingRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewMongoBookingRepo(mt.Coll)

		require.NoError(mt, repo.Create(ctx, sampleBooking("b-1")))
	})

	mt.Run("create duplicate slot", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error index: " + ActiveSlotIndex,
		}))
		repo := NewMongoBookingRepo(mt.Coll)

		err := repo.Create(ctx, sampleBooking("b-2"))
		assert.ErrorIs(mt, err, repository.ErrDuplicate)
	})

	mt.Run("get by id", func(mt *mtest.T) {
		want := sampleBooking("b-1")
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, toDoc(mt.T, want)))
		repo := NewMongoBookingRepo(mt.Coll)

		got, err := repo.GetByID(ctx, "b-1")
		require.NoError(mt, err)
		assert.Equal(mt, want.ID, got.ID)
		assert.Equal(mt, "2030-01-10", got.AppointmentDay)
		assert.True(mt, got.Active)
	})

	mt.Run("get missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		repo := NewMongoBookingRepo(mt.Coll)

		_, err := repo.GetByID(ctx, "nope")
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("exists in slot", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "id", Value: "b-1"}}))
		repo := NewMongoBookingRepo(mt.Coll)

		taken, err := repo.ExistsInSlot(ctx, SlotQuery{Slot: sampleBooking("x").Slot()})
		require.NoError(mt, err)
		assert.True(mt, taken)
	})

	mt.Run("slot free", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		repo := NewMongoBookingRepo(mt.Coll)

		taken, err := repo.ExistsInSlot(ctx, SlotQuery{Slot: sampleBooking("x").Slot(), ExcludeID: "x"})
		require.NoError(mt, err)
		assert.False(mt, taken)
	})

	mt.Run("update status", func(mt *mtest.T) {
		updated := sampleBooking("b-1")
		updated.SetStatus(models.StatusConfirmed)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: toDoc(mt.T, updated)}))
		repo := NewMongoBookingRepo(mt.Coll)

		got, err := repo.UpdateStatus(ctx, "b-1", models.StatusPending, models.StatusConfirmed, time.Now())
		require.NoError(mt, err)
		assert.Equal(mt, models.StatusConfirmed, got.Status)
	})

	mt.Run("update status stale", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))
		repo := NewMongoBookingRepo(mt.Coll)

		_, err := repo.UpdateStatus(ctx, "b-1", models.StatusPending, models.StatusConfirmed, time.Now())
		assert.ErrorIs(mt, err, ErrStaleStatus)
	})

	mt.Run("delete unless confirmed", func(mt *mtest.T) {
		removed := sampleBooking("b-1")
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: toDoc(mt.T, removed)}))
		repo := NewMongoBookingRepo(mt.Coll)

		got, err := repo.DeleteUnlessStatus(ctx, "b-1", models.StatusConfirmed)
		require.NoError(mt, err)
		assert.Equal(mt, "b-1", got.ID)
	})

	mt.Run("list with total", func(mt *mtest.T) {
		first := mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			toDoc(mt.T, sampleBooking("b-11")),
			toDoc(mt.T, sampleBooking("b-12")),
		)
		count := mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: int32(12)}})
		mt.AddMockResponses(first, count)
		repo := NewMongoBookingRepo(mt.Coll)

		items, total, err := repo.List(ctx, ListQuery{Page: models.PageRequest{Page: 2, Limit: 10}})
		require.NoError(mt, err)
		assert.Len(mt, items, 2)
		assert.Equal(mt, int64(12), total)
	})
}
