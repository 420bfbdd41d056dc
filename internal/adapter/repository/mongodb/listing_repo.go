package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pariskandee/real-estate/internal/listing/domain"
)

// ListingRepository stores listings in the "listings" collection. IDs are
// ObjectID hex strings assigned on insert.
type ListingRepository struct {
	collection *mongo.Collection
	counters   *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{
		collection: db.Collection("listings"),
		counters:   db.Collection("counters"),
	}
}

// EnsureIndexes creates the indexes the queries below rely on: a unique
// index on reference, a 2dsphere index on location and a compound index
// backing the public browse sort.
func (r *ListingRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "reference", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "location", Value: "2dsphere"}},
		},
		{
			Keys: bson.D{{Key: "isApproved", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "postedBy", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create listing indexes: %w", err)
	}
	return nil
}

func (r *ListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	if listing.ID == "" {
		listing.ID = primitive.NewObjectID().Hex()
	}
	_, err := r.collection.InsertOne(ctx, listing)
	return err
}

func (r *ListingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	res, err := r.collection.UpdateByID(ctx, listing.ID, bson.M{"$set": listing})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	var listing domain.Listing
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&listing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrListingNotFound
		}
		return nil, err
	}
	return &listing, nil
}

func (r *ListingRepository) FindApproved(ctx context.Context, filter domain.BrowseFilter) ([]*domain.Listing, int64, error) {
	query := bson.M{"isApproved": true}

	if filter.TransactionType != "" {
		query["transactionType"] = filter.TransactionType
	}
	if filter.PropertyType != "" {
		query["propertyType"] = filter.PropertyType
	}
	price := bson.M{}
	if filter.MinPrice > 0 {
		price["$gte"] = filter.MinPrice
	}
	if filter.MaxPrice > 0 {
		price["$lte"] = filter.MaxPrice
	}
	if len(price) > 0 {
		query["price"] = price
	}
	if filter.MinRooms > 0 {
		query["rooms"] = bson.M{"$gte": filter.MinRooms}
	}
	if filter.City != "" {
		query["address.city"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.City), Options: "i"}
	}

	return r.findPage(ctx, query, filter.Page, filter.PageSize)
}

func (r *ListingRepository) FindAll(ctx context.Context, filter domain.AdminFilter) ([]*domain.Listing, int64, error) {
	query := bson.M{}
	if filter.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"address.city": re},
			bson.M{"address.postalCode": re},
			bson.M{"reference": re},
		}
	}
	return r.findPage(ctx, query, filter.Page, filter.PageSize)
}

func (r *ListingRepository) FindByOwner(ctx context.Context, ownerID string) ([]*domain.Listing, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"postedBy": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	var listings []*domain.Listing
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

// NextReference allocates the next sequence number through an atomic
// upserted $inc, so concurrent submitters never collide.
func (r *ListingRepository) NextReference(ctx context.Context) (string, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": "listing_reference"},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return "", fmt.Errorf("failed to advance reference counter: %w", err)
	}
	return fmt.Sprintf("PROP-%06d", counter.Seq), nil
}

func (r *ListingRepository) findPage(ctx context.Context, query bson.M, page, pageSize int) ([]*domain.Listing, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 12
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	var listings []*domain.Listing
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}

var _ domain.ListingRepository = (*ListingRepository)(nil)
