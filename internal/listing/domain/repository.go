package domain

import "context"

// ListingRepository is the persistence port for listings. Owner-scoped
// operations filter on owner equality inside the store query; a miss (no such
// id, or owned by someone else) surfaces as ErrListingNotFound.
type ListingRepository interface {
	// Insert assigns ID and CreatedAt/UpdatedAt and persists the listing.
	Insert(ctx context.Context, listing *Listing) error
	FindByIDForOwner(ctx context.Context, id, ownerID string) (*Listing, error)
	// FindForOwner returns one page of the owner's listings plus the total
	// count matching the filter (ignoring pagination).
	FindForOwner(ctx context.Context, filter Filter) ([]*Listing, int64, error)
	// FindAll returns one page of the public feed, newest first.
	FindAll(ctx context.Context, page, perPage int64) ([]*Listing, int64, error)
	// UpdateForOwner persists the listing iff it still belongs to its owner;
	// zero matched rows surface as ErrListingNotFound.
	UpdateForOwner(ctx context.Context, listing *Listing) error
	DeleteForOwner(ctx context.Context, id, ownerID string) error
}

// UserRepository stores display profiles keyed by principal id.
type UserRepository interface {
	FindProfile(ctx context.Context, id string) (*Profile, error)
	UpsertProfile(ctx context.Context, profile *Profile) error
}
