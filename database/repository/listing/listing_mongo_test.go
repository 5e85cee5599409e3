package listingRepo

import (
	"context"
	"testing"

	"barkbox/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestBuildListingFilter(t *testing.T) {
	maxPrice := 500.0
	filter := BuildListingFilter(ListingFilter{Breed: "Lab (mix)", Location: "austin", MaxPrice: &maxPrice})

	assert.Equal(t, primitive.Regex{Pattern: `Lab \(mix\)`, Options: "i"}, filter["breed"])
	assert.Equal(t, primitive.Regex{Pattern: "austin", Options: "i"}, filter["location"])
	assert.Equal(t, bson.M{"$lte": 500.0}, filter["price"])
	assert.NotContains(t, filter, "vendor")
}

func TestMongoListingRepoList(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("page and total", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "barkbox.dog_listings", mtest.FirstBatch,
				bson.D{{Key: "id", Value: "l-1"}, {Key: "breed", Value: "Beagle"}, {Key: "price", Value: 300.0}},
			),
			mtest.CreateCursorResponse(0, "barkbox.dog_listings", mtest.FirstBatch, bson.D{{Key: "n", Value: int32(1)}}),
		)
		repo := NewMongoListingRepo(mt.Coll)

		items, total, err := repo.List(context.Background(), ListingFilter{}, models.PageRequest{})
		require.NoError(mt, err)
		require.Len(mt, items, 1)
		assert.Equal(mt, "Beagle", items[0].Breed)
		assert.Equal(mt, int64(1), total)
	})
}
