package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/daniyar-kh/marketplace-backend/internal/listing/domain"
)

// Columns a caller may sort by. Anything else falls back to created_at
// descending rather than erroring.
var sortableColumns = map[string]string{
	"created_at": "created_at",
	"name":       "name",
	"price":      "price",
	"stock":      "stock",
}

type ListingRepository struct {
	collection *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{collection: db.Collection("listings")}
}

func (r *ListingRepository) Insert(ctx context.Context, listing *domain.Listing) error {
	listing.ID = primitive.NewObjectID().Hex()
	listing.CreatedAt = time.Now().UTC()
	listing.UpdatedAt = listing.CreatedAt

	doc, err := toListingDocument(listing)
	if err != nil {
		return err
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert listing: %w", err)
	}
	return nil
}

func (r *ListingRepository) FindByIDForOwner(ctx context.Context, id, ownerID string) (*domain.Listing, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// A syntactically invalid id can never exist, same outcome as a miss.
		return nil, domain.ErrListingNotFound
	}

	var doc listingDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": oid, "owner_id": ownerID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrListingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find listing %s: %w", id, err)
	}
	return toDomainListing(&doc), nil
}

func (r *ListingRepository) FindForOwner(ctx context.Context, filter domain.Filter) ([]*domain.Listing, int64, error) {
	query := bson.M{"owner_id": filter.OwnerID}
	if filter.Search != "" {
		query["name"] = bson.M{"$regex": regexp.QuoteMeta(filter.Search), "$options": "i"}
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count listings: %w", err)
	}

	opts := options.Find().
		SetSort(sortSpec(filter.SortBy, filter.SortOrder)).
		SetSkip(pageOffset(filter.Page, filter.PerPage)).
		SetLimit(filter.PerPage)

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find listings: %w", err)
	}
	var docs []*listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode listings: %w", err)
	}
	return toDomainListings(docs), total, nil
}

func (r *ListingRepository) FindAll(ctx context.Context, page, perPage int64) ([]*domain.Listing, int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count listings: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(pageOffset(page, perPage)).
		SetLimit(perPage)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find listings: %w", err)
	}
	var docs []*listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode listings: %w", err)
	}
	return toDomainListings(docs), total, nil
}

func (r *ListingRepository) UpdateForOwner(ctx context.Context, listing *domain.Listing) error {
	doc, err := toListingDocument(listing)
	if err != nil {
		return domain.ErrListingNotFound
	}
	listing.UpdatedAt = time.Now().UTC()
	doc.UpdatedAt = listing.UpdatedAt

	update := bson.M{"$set": bson.M{
		"name":           doc.Name,
		"category":       doc.Category,
		"description":    doc.Description,
		"price":          doc.Price,
		"stock":          doc.Stock,
		"pre_zero_stock": doc.PreZeroStock,
		"image_urls":     doc.ImageURLs,
		"updated_at":     doc.UpdatedAt,
	}}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": doc.ID, "owner_id": listing.OwnerID}, update)
	if err != nil {
		return fmt.Errorf("update listing %s: %w", listing.ID, err)
	}
	// The listing may have been deleted between fetch and persist; the match
	// count is authoritative, not the earlier fetch.
	if res.MatchedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) DeleteForOwner(ctx context.Context, id, ownerID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrListingNotFound
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid, "owner_id": ownerID})
	if err != nil {
		return fmt.Errorf("delete listing %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func sortSpec(sortBy, sortOrder string) bson.D {
	column, ok := sortableColumns[sortBy]
	if !ok {
		return bson.D{{Key: "created_at", Value: -1}}
	}
	direction := 1
	if sortOrder == "desc" {
		direction = -1
	}
	return bson.D{{Key: column, Value: direction}}
}

func pageOffset(page, perPage int64) int64 {
	if page < 1 {
		page = 1
	}
	return (page - 1) * perPage
}
