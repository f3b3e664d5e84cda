package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/daniyar-kh/marketplace-backend/internal/listing/domain"
)

const (
	listingTTL = 1 * time.Hour
	feedTTL    = 1 * time.Minute

	// feedVersionKey is bumped on every listing write. Feed page keys embed
	// the version, so bumping it invalidates every cached page at once.
	feedVersionKey = "feed:version"
)

type feedPage struct {
	Listings []*domain.Listing `json:"listings"`
	Total    int64             `json:"total"`
}

type ListingCache struct {
	client *redis.Client
}

func NewListingCache(addr string) (*ListingCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}
	return &ListingCache{client: client}, nil
}

// GetListing returns (nil, nil) on a cache miss. Keys are owner-scoped so a
// cached entry can never serve a listing past the ownership filter.
func (c *ListingCache) GetListing(ctx context.Context, ownerID, id string) (*domain.Listing, error) {
	data, err := c.client.Get(ctx, listingKey(ownerID, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var listing domain.Listing
	if err := json.Unmarshal(data, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (c *ListingCache) SetListing(ctx context.Context, listing *domain.Listing) error {
	data, err := json.Marshal(listing)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, listingKey(listing.OwnerID, listing.ID), data, listingTTL).Err()
}

func (c *ListingCache) InvalidateListing(ctx context.Context, ownerID, id string) error {
	return c.client.Del(ctx, listingKey(ownerID, id)).Err()
}

// GetFeed returns ok=false on a cache miss.
func (c *ListingCache) GetFeed(ctx context.Context, page, perPage int64) ([]*domain.Listing, int64, bool, error) {
	version, err := c.client.Get(ctx, feedVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return nil, 0, false, nil
	}
	if err != nil {
		return nil, 0, false, err
	}

	data, err := c.client.Get(ctx, feedKey(version, page, perPage)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, 0, false, nil
	}
	if err != nil {
		return nil, 0, false, err
	}

	var cached feedPage
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, 0, false, err
	}
	return cached.Listings, cached.Total, true, nil
}

func (c *ListingCache) SetFeed(ctx context.Context, page, perPage int64, listings []*domain.Listing, total int64) error {
	version, err := c.client.Get(ctx, feedVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		version = 0
		if err := c.client.Set(ctx, feedVersionKey, version, 0).Err(); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	data, err := json.Marshal(feedPage{Listings: listings, Total: total})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, feedKey(version, page, perPage), data, feedTTL).Err()
}

func (c *ListingCache) InvalidateFeed(ctx context.Context) error {
	return c.client.Incr(ctx, feedVersionKey).Err()
}

func listingKey(ownerID, id string) string {
	return fmt.Sprintf("listing:%s:%s", ownerID, id)
}

func feedKey(version, page, perPage int64) string {
	return fmt.Sprintf("feed:%d:%d:%d", version, page, perPage)
}
