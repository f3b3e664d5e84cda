package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/daniyar-kh/marketplace-backend/internal/listing/domain"
)

// UserRepository stores display profiles keyed by the auth provider's
// principal id, so no local id generation happens here.
type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{collection: db.Collection("users")}
}

func (r *UserRepository) FindProfile(ctx context.Context, id string) (*domain.Profile, error) {
	var doc profileDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find profile %s: %w", id, err)
	}
	return &domain.Profile{ID: doc.ID, Username: doc.Username, UpdatedAt: doc.UpdatedAt}, nil
}

func (r *UserRepository) UpsertProfile(ctx context.Context, profile *domain.Profile) error {
	profile.UpdatedAt = time.Now().UTC()
	doc := profileDocument{
		ID:        profile.ID,
		Username:  profile.Username,
		UpdatedAt: profile.UpdatedAt,
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": profile.ID}, doc, opts); err != nil {
		return fmt.Errorf("upsert profile %s: %w", profile.ID, err)
	}
	return nil
}
