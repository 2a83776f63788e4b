package migrations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestIndexMigrations(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("up and down", func(mt *mtest.T) {
		ctx := context.Background()
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(bson.E{Key: "nIndexesWas", Value: 2}),
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(bson.E{Key: "nIndexesWas", Value: 2}),
		)

		require.NoError(mt, (&UsersEmailUnique{}).Up(ctx, mt.DB))
		require.NoError(mt, (&UsersEmailUnique{}).Down(ctx, mt.DB))
		require.NoError(mt, (&NFTsCreatorIndex{}).Up(ctx, mt.DB))
		require.NoError(mt, (&NFTsCreatorIndex{}).Down(ctx, mt.DB))
	})
}
