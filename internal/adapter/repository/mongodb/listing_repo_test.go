package mongodb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/daniyar-kh/marketplace-backend/internal/listing/domain"
)

func TestSortSpec_AllowedColumns(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "price", Value: 1}}, sortSpec("price", "asc"))
	assert.Equal(t, bson.D{{Key: "price", Value: -1}}, sortSpec("price", "desc"))
	assert.Equal(t, bson.D{{Key: "name", Value: 1}}, sortSpec("name", ""))
	assert.Equal(t, bson.D{{Key: "stock", Value: 1}}, sortSpec("stock", "asc"))
	assert.Equal(t, bson.D{{Key: "created_at", Value: -1}}, sortSpec("created_at", "desc"))
}

func TestSortSpec_UnknownColumnFallsBack(t *testing.T) {
	for _, column := range []string{"", "owner_id", "price; drop table", "description"} {
		assert.Equal(t, bson.D{{Key: "created_at", Value: -1}}, sortSpec(column, "asc"))
	}
}

func TestPageOffset(t *testing.T) {
	assert.Equal(t, int64(0), pageOffset(1, 10))
	assert.Equal(t, int64(10), pageOffset(2, 10))
	assert.Equal(t, int64(0), pageOffset(0, 10))
	assert.Equal(t, int64(0), pageOffset(-3, 10))
}

func TestListingDocumentRoundTrip(t *testing.T) {
	id := primitive.NewObjectID()
	listing := &domain.Listing{
		ID:           id.Hex(),
		OwnerID:      "user-a",
		Name:         "Widget",
		Category:     "Electronics",
		Description:  "A cool widget.",
		Price:        19.99,
		Stock:        3,
		PreZeroStock: 3,
		ImageURLs:    []string{"https://img.example.com/one.jpg"},
	}

	doc, err := toListingDocument(listing)
	require.NoError(t, err)
	assert.Equal(t, id, doc.ID)

	back := toDomainListing(doc)
	assert.Equal(t, listing, back)
}

func TestToListingDocument_RejectsMalformedID(t *testing.T) {
	_, err := toListingDocument(&domain.Listing{ID: "not-an-object-id"})
	assert.Error(t, err)
}
