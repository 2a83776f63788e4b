package migrations

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/nftlisting/app/repositories"
	"github.com/shashiranjanraj/nftlisting/pkg/migration"
)

func init() {
	migration.Register("20260101000000_users_email_unique", &UsersEmailUnique{})
	migration.Register("20260101000001_nfts_creator_index", &NFTsCreatorIndex{})
}

// -------- 0001: users.email unique --------

const usersEmailIndex = "users_email_unique"

type UsersEmailUnique struct{}

func (m *UsersEmailUnique) Up(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(repositories.UsersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName(usersEmailIndex),
	})
	return err
}

func (m *UsersEmailUnique) Down(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(repositories.UsersCollection).Indexes().DropOne(ctx, usersEmailIndex)
	return err
}

// -------- 0002: nfts.creator --------

const nftsCreatorIndex = "nfts_creator"

type NFTsCreatorIndex struct{}

func (m *NFTsCreatorIndex) Up(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(repositories.NFTsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "creator", Value: 1}},
		Options: options.Index().SetName(nftsCreatorIndex),
	})
	return err
}

func (m *NFTsCreatorIndex) Down(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(repositories.NFTsCollection).Indexes().DropOne(ctx, nftsCreatorIndex)
	return err
}
