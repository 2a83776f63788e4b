package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/nftlisting/app/models"
	"github.com/shashiranjanraj/nftlisting/pkg/metrics"
)

// NFTsCollection is where listings are stored.
const NFTsCollection = "nfts"

// NFTRepository handles document store operations for NFT.
type NFTRepository struct {
	col *mongo.Collection
}

func NewNFTRepository(db *mongo.Database) *NFTRepository {
	return &NFTRepository{col: db.Collection(NFTsCollection)}
}

// Create persists a new NFT and sets its ID.
func (r *NFTRepository) Create(ctx context.Context, nft *models.NFT) error {
	defer metrics.ObserveDBQuery(NFTsCollection, "insert_one", time.Now())

	if nft.ID.IsZero() {
		nft.ID = primitive.NewObjectID()
	}
	_, err := r.col.InsertOne(ctx, nft)
	return err
}

// All returns every NFT in natural order.
func (r *NFTRepository) All(ctx context.Context) ([]models.NFT, error) {
	defer metrics.ObserveDBQuery(NFTsCollection, "find", time.Now())
	return r.find(ctx, bson.D{})
}

// ByCreator returns the NFTs created by the given user.
func (r *NFTRepository) ByCreator(ctx context.Context, creator primitive.ObjectID) ([]models.NFT, error) {
	defer metrics.ObserveDBQuery(NFTsCollection, "find", time.Now())
	return r.find(ctx, bson.D{{Key: "creator", Value: creator}})
}

// FindByID looks up an NFT by primary key.
func (r *NFTRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.NFT, error) {
	defer metrics.ObserveDBQuery(NFTsCollection, "find_one", time.Now())

	var nft models.NFT
	if err := r.col.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&nft); err != nil {
		return nil, notFound(err)
	}
	return &nft, nil
}

// Update applies the non-empty changes and returns the stored document.
func (r *NFTRepository) Update(ctx context.Context, id primitive.ObjectID, changes models.NFTChanges) (*models.NFT, error) {
	set := changes.Fields()
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}

	defer metrics.ObserveDBQuery(NFTsCollection, "find_one_and_update", time.Now())

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var nft models.NFT
	err := r.col.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id}}, bson.D{{Key: "$set", Value: set}}, opts).Decode(&nft)
	if err != nil {
		return nil, notFound(err)
	}
	return &nft, nil
}

// Delete removes an NFT and returns it as it was.
func (r *NFTRepository) Delete(ctx context.Context, id primitive.ObjectID) (*models.NFT, error) {
	defer metrics.ObserveDBQuery(NFTsCollection, "find_one_and_delete", time.Now())

	var nft models.NFT
	if err := r.col.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&nft); err != nil {
		return nil, notFound(err)
	}
	return &nft, nil
}

func (r *NFTRepository) find(ctx context.Context, filter bson.D) ([]models.NFT, error) {
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	nfts := []models.NFT{}
	if err := cur.All(ctx, &nfts); err != nil {
		return nil, err
	}
	return nfts, nil
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}
