package mongodb

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/daniyar-kh/marketplace-backend/internal/listing/domain"
)

type listingDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID      string             `bson:"owner_id"`
	Name         string             `bson:"name"`
	Category     string             `bson:"category"`
	Description  string             `bson:"description"`
	Price        float64            `bson:"price"`
	Stock        int64              `bson:"stock"`
	PreZeroStock int64              `bson:"pre_zero_stock"`
	ImageURLs    []string           `bson:"image_urls"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

type profileDocument struct {
	ID        string    `bson:"_id"`
	Username  string    `bson:"username"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func toListingDocument(l *domain.Listing) (*listingDocument, error) {
	doc := &listingDocument{
		OwnerID:      l.OwnerID,
		Name:         l.Name,
		Category:     l.Category,
		Description:  l.Description,
		Price:        l.Price,
		Stock:        l.Stock,
		PreZeroStock: l.PreZeroStock,
		ImageURLs:    l.ImageURLs,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
	if l.ID != "" {
		id, err := primitive.ObjectIDFromHex(l.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid listing id %q: %w", l.ID, err)
		}
		doc.ID = id
	}
	return doc, nil
}

func toDomainListing(d *listingDocument) *domain.Listing {
	return &domain.Listing{
		ID:           d.ID.Hex(),
		OwnerID:      d.OwnerID,
		Name:         d.Name,
		Category:     d.Category,
		Description:  d.Description,
		Price:        d.Price,
		Stock:        d.Stock,
		PreZeroStock: d.PreZeroStock,
		ImageURLs:    d.ImageURLs,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func toDomainListings(docs []*listingDocument) []*domain.Listing {
	listings := make([]*domain.Listing, 0, len(docs))
	for _, doc := range docs {
		listings = append(listings, toDomainListing(doc))
	}
	return listings
}
