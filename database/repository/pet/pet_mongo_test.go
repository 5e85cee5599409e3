package petRepo

import (
	"context"
	"testing"

	"barkbox/database/repository"
	"barkbox/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const ns = "barkbox.pet_profiles"

func TestMongoPetRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("get missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		repo := NewMongoPetRepo(mt.Coll)

		_, err := repo.GetByID(ctx, "pet-9")
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("list by owner", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				bson.D{{Key: "id", Value: "pet-1"}, {Key: "petOwner", Value: "owner-1"}, {Key: "name", Value: "Biscuit"}, {Key: "weight", Value: 11.5}},
				bson.D{{Key: "id", Value: "pet-2"}, {Key: "petOwner", Value: "owner-1"}, {Key: "name", Value: "Pepper"}, {Key: "weight", Value: 4.2}},
			),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: int32(2)}}),
		)
		repo := NewMongoPetRepo(mt.Coll)

		pets, total, err := repo.ListByOwner(ctx, "owner-1", models.PageRequest{})
		require.NoError(mt, err)
		require.Len(mt, pets, 2)
		assert.Equal(mt, "Biscuit", pets[0].Name)
		assert.Equal(mt, 4.2, pets[1].Weight)
		assert.Equal(mt, int64(2), total)
	})

	mt.Run("replace missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))
		repo := NewMongoPetRepo(mt.Coll)

		err := repo.Replace(ctx, &models.PetProfile{ID: "pet-9"})
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("delete", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		repo := NewMongoPetRepo(mt.Coll)

		assert.NoError(mt, repo.Delete(ctx, "pet-1"))
	})
}
