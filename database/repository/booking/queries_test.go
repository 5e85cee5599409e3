package bookingRepo

import (
	"testing"
	"time"

	"barkbox/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestBuildSlotFilterBracketsDay(t *testing.T) {
	at := time.Date(2030, 1, 10, 14, 37, 0, 0, time.UTC)
	filter := BuildSlotFilter(SlotQuery{
		Slot: models.Slot{Service: models.ServiceGrooming, Date: at, Time: "10:00"},
	})

	assert.Equal(t, models.ServiceGrooming, filter["service"])
	assert.Equal(t, "10:00", filter["appointmentTime"])
	assert.Equal(t, bson.M{"$ne": models.StatusCancelled}, filter["status"])
	assert.Equal(t, bson.M{
		"$gte": time.Date(2030, 1, 10, 0, 0, 0, 0, time.UTC),
		"$lt":  time.Date(2030, 1, 11, 0, 0, 0, 0, time.UTC),
	}, filter["appointmentDate"])
	assert.NotContains(t, filter, "id")
}

func TestBuildSlotFilterExactAndExclude(t *testing.T) {
	at := time.Date(2030, 1, 10, 0, 0, 0, 0, time.UTC)
	filter := BuildSlotFilter(SlotQuery{
		Slot:      models.Slot{Service: models.ServiceTraining, Date: at, Time: "09:30"},
		ExcludeID: "b-1",
		Exact:     true,
	})

	assert.Equal(t, at, filter["appointmentDate"])
	assert.Equal(t, bson.M{"$ne": "b-1"}, filter["id"])
}

func TestBuildListFilter(t *testing.T) {
	start := time.Date(2030, 1, 1, 8, 0, 0, 0, time.UTC)
	end := time.Date(2030, 1, 31, 0, 0, 0, 0, time.UTC)

	t.Run("inclusive range", func(t *testing.T) {
		filter := BuildListFilter(ListFilter{
			Service:   models.ServiceVeterinary,
			Status:    models.StatusPending,
			PetOwner:  "owner-1",
			StartDate: &start,
			EndDate:   &end,
		})
		assert.Equal(t, bson.M{
			"service":  models.ServiceVeterinary,
			"status":   models.StatusPending,
			"petOwner": "owner-1",
			"appointmentDate": bson.M{
				"$gte": time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
				"$lt":  time.Date(2030, 2, 1, 0, 0, 0, 0, time.UTC),
			},
		}, filter)
	})

	t.Run("single date overrides range", func(t *testing.T) {
		date := time.Date(2030, 1, 15, 0, 0, 0, 0, time.UTC)
		filter := BuildListFilter(ListFilter{StartDate: &start, EndDate: &end, Date: &date})
		assert.Equal(t, bson.M{
			"appointmentDate": bson.M{
				"$gte": date,
				"$lt":  date.Add(24 * time.Hour),
			},
		}, filter)
	})

	t.Run("open ended range", func(t *testing.T) {
		filter := BuildListFilter(ListFilter{StartDate: &start})
		assert.Equal(t, bson.M{"$gte": time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)}, filter["appointmentDate"])
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, BuildListFilter(ListFilter{}))
	})
}

func TestBuildSortAlwaysEndsWithID(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "appointmentDate", Value: -1}, {Key: "id", Value: 1}}, BuildSort(nil))
	assert.Equal(t,
		bson.D{{Key: "price", Value: 1}, {Key: "createdAt", Value: -1}, {Key: "id", Value: 1}},
		BuildSort([]SortKey{{Field: "price"}, {Field: "createdAt", Desc: true}}),
	)
	assert.Equal(t, bson.D{{Key: "id", Value: -1}}, BuildSort([]SortKey{{Field: "id", Desc: true}}))
}

func TestBuildFindOptionsPaging(t *testing.T) {
	opts := BuildFindOptions(ListQuery{Page: models.PageRequest{Page: 2, Limit: 10}})
	assert.Equal(t, int64(10), *opts.Skip)
	assert.Equal(t, int64(10), *opts.Limit)

	opts = BuildFindOptions(ListQuery{})
	assert.Equal(t, int64(0), *opts.Skip)
	assert.Equal(t, int64(models.DefaultPageLimit), *opts.Limit)
}

func TestPatchDocumentOnlyProvidedFields(t *testing.T) {
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	notes := "bring leash"
	date := time.Date(2030, 3, 4, 15, 0, 0, 0, time.UTC)

	set := patchDocument(models.BookingPatch{Notes: &notes, AppointmentDate: &date, UpdatedAt: now})
	assert.Equal(t, bson.M{
		"notes":           notes,
		"appointmentDate": time.Date(2030, 3, 4, 0, 0, 0, 0, time.UTC),
		"appointmentDay":  "2030-03-04",
		"updatedAt":       now,
	}, set)
}
