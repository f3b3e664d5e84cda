package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/daniyar-kh/marketplace-backend/internal/listing/domain"
)

// DefaultPerPage is the page size for listing pages; the API exposes no page
// size parameter.
const DefaultPerPage int64 = 10

// Subjects carrying listing lifecycle events.
const (
	SubjectListingCreated      = "listings.created"
	SubjectListingUpdated      = "listings.updated"
	SubjectListingDeleted      = "listings.deleted"
	SubjectListingStockChanged = "listings.stock_changed"
)

// MediaStore persists a raw image payload with an external media host and
// returns its public URL.
type MediaStore interface {
	Store(ctx context.Context, filename string, data []byte) (string, error)
}

// ListingCache is the read-through cache in front of the repository. A miss
// is (nil, nil) for single listings and ok=false for feed pages.
type ListingCache interface {
	GetListing(ctx context.Context, ownerID, id string) (*domain.Listing, error)
	SetListing(ctx context.Context, listing *domain.Listing) error
	InvalidateListing(ctx context.Context, ownerID, id string) error
	GetFeed(ctx context.Context, page, perPage int64) ([]*domain.Listing, int64, bool, error)
	SetFeed(ctx context.Context, page, perPage int64, listings []*domain.Listing, total int64) error
	InvalidateFeed(ctx context.Context) error
}

// EventPublisher emits listing lifecycle events. Publishing is best effort:
// a broker failure never fails the request that triggered it.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, payload interface{}) error
}

// StockNotifier tells an owner their listing just went out of stock.
type StockNotifier interface {
	SendOutOfStockEmail(toEmail, listingName string) error
}

// FileUpload is one raw image submitted with a create or update.
type FileUpload struct {
	Name string
	Data []byte
}

// ListingInput carries the client payload for create and update. Price and
// Stock arrive as strings because multipart forms have no other
// representation; the usecase owns parsing them. ImageURLs holds already
// hosted images (JSON mode, or the kept set on update), Files holds raw
// payloads still to be uploaded.
type ListingInput struct {
	Name        string
	Category    string
	Description string
	Price       string
	Stock       string
	ImageURLs   []string
	Files       []FileUpload
}

type listingEvent struct {
	ListingID string `json:"listing_id"`
	OwnerID   string `json:"owner_id"`
	Stock     int64  `json:"stock"`
}

type ListingUsecase struct {
	repo     domain.ListingRepository
	media    MediaStore
	cache    ListingCache
	events   EventPublisher
	notifier StockNotifier
	logger   *zap.Logger
}

// NewListingUsecase wires the core policy. notifier may be nil when no SMTP
// account is configured.
func NewListingUsecase(repo domain.ListingRepository, media MediaStore, cache ListingCache, events EventPublisher, notifier StockNotifier, logger *zap.Logger) *ListingUsecase {
	return &ListingUsecase{
		repo:     repo,
		media:    media,
		cache:    cache,
		events:   events,
		notifier: notifier,
		logger:   logger,
	}
}

// CreateListing validates the payload, uploads any raw images, and persists a
// listing owned by the principal. PreZeroStock starts at the initial stock,
// or 1 when the listing is created already out of stock.
func (uc *ListingUsecase) CreateListing(ctx context.Context, principal domain.Principal, in ListingInput) (*domain.Listing, error) {
	fields, err := parseListingFields(in)
	if err != nil {
		return nil, err
	}
	urls, err := uc.collectImageURLs(ctx, in)
	if err != nil {
		return nil, err
	}

	preZero := fields.stock
	if preZero == 0 {
		preZero = 1
	}

	listing := &domain.Listing{
		OwnerID:      principal.ID,
		Name:         fields.name,
		Category:     fields.category,
		Description:  fields.description,
		Price:        fields.price,
		Stock:        fields.stock,
		PreZeroStock: preZero,
		ImageURLs:    urls,
	}
	if err := uc.repo.Insert(ctx, listing); err != nil {
		uc.logger.Error("failed to insert listing", zap.String("owner_id", principal.ID), zap.Error(err))
		return nil, err
	}

	uc.afterWrite(ctx, listing, SubjectListingCreated)
	return listing, nil
}

// UpdateListing replaces the mutable fields of an owned listing. The image
// set becomes the kept URLs followed by freshly uploaded files, in submission
// order. Ownership never changes here.
func (uc *ListingUsecase) UpdateListing(ctx context.Context, principal domain.Principal, id string, in ListingInput) (*domain.Listing, error) {
	listing, err := uc.repo.FindByIDForOwner(ctx, id, principal.ID)
	if err != nil {
		return nil, err
	}

	fields, err := parseListingFields(in)
	if err != nil {
		return nil, err
	}
	urls, err := uc.collectImageURLs(ctx, in)
	if err != nil {
		return nil, err
	}

	listing.Name = fields.name
	listing.Category = fields.category
	listing.Description = fields.description
	listing.Price = fields.price
	listing.Stock = fields.stock
	listing.ImageURLs = urls
	if fields.stock > 0 {
		listing.PreZeroStock = fields.stock
	}

	if err := uc.repo.UpdateForOwner(ctx, listing); err != nil {
		// Deleted between fetch and persist reads the same as never owned.
		return nil, err
	}

	uc.afterWrite(ctx, listing, SubjectListingUpdated)
	return listing, nil
}

func (uc *ListingUsecase) DeleteListing(ctx context.Context, principal domain.Principal, id string) error {
	if err := uc.repo.DeleteForOwner(ctx, id, principal.ID); err != nil {
		return err
	}

	if err := uc.cache.InvalidateListing(ctx, principal.ID, id); err != nil {
		uc.logger.Warn("failed to invalidate listing cache", zap.String("listing_id", id), zap.Error(err))
	}
	if err := uc.cache.InvalidateFeed(ctx); err != nil {
		uc.logger.Warn("failed to invalidate feed cache", zap.Error(err))
	}
	uc.publish(ctx, SubjectListingDeleted, listingEvent{ListingID: id, OwnerID: principal.ID})
	return nil
}

func (uc *ListingUsecase) GetListing(ctx context.Context, principal domain.Principal, id string) (*domain.Listing, error) {
	cached, err := uc.cache.GetListing(ctx, principal.ID, id)
	if err != nil {
		uc.logger.Warn("listing cache read failed", zap.String("listing_id", id), zap.Error(err))
	}
	if cached != nil {
		return cached, nil
	}

	listing, err := uc.repo.FindByIDForOwner(ctx, id, principal.ID)
	if err != nil {
		return nil, err
	}
	if err := uc.cache.SetListing(ctx, listing); err != nil {
		uc.logger.Warn("listing cache write failed", zap.String("listing_id", id), zap.Error(err))
	}
	return listing, nil
}

// ListMine pages through the principal's own listings.
func (uc *ListingUsecase) ListMine(ctx context.Context, principal domain.Principal, page int64, search, sortBy, sortOrder string) ([]*domain.Listing, domain.Pagination, error) {
	if page < 1 {
		page = 1
	}
	filter := domain.Filter{
		OwnerID:   principal.ID,
		Search:    strings.TrimSpace(search),
		Page:      page,
		PerPage:   DefaultPerPage,
		SortBy:    sortBy,
		SortOrder: sortOrder,
	}

	listings, total, err := uc.repo.FindForOwner(ctx, filter)
	if err != nil {
		uc.logger.Error("failed to list listings", zap.String("owner_id", principal.ID), zap.Error(err))
		return nil, domain.Pagination{}, err
	}
	return listings, paginationMeta(page, DefaultPerPage, total), nil
}

// Feed returns one page of the public feed, newest first, served from cache
// when possible.
func (uc *ListingUsecase) Feed(ctx context.Context, page int64) ([]*domain.Listing, domain.Pagination, error) {
	if page < 1 {
		page = 1
	}

	if listings, total, ok, err := uc.cache.GetFeed(ctx, page, DefaultPerPage); err != nil {
		uc.logger.Warn("feed cache read failed", zap.Error(err))
	} else if ok {
		return listings, paginationMeta(page, DefaultPerPage, total), nil
	}

	listings, total, err := uc.repo.FindAll(ctx, page, DefaultPerPage)
	if err != nil {
		uc.logger.Error("failed to load feed", zap.Error(err))
		return nil, domain.Pagination{}, err
	}
	if err := uc.cache.SetFeed(ctx, page, DefaultPerPage, listings, total); err != nil {
		uc.logger.Warn("feed cache write failed", zap.Error(err))
	}
	return listings, paginationMeta(page, DefaultPerPage, total), nil
}

// SetStockStatus runs the stock toggle. Toggling out of stock remembers the
// current positive level in PreZeroStock before zeroing; toggling back in
// restores the remembered level. Restoring always overwrites the current
// stock, even when it is already positive.
func (uc *ListingUsecase) SetStockStatus(ctx context.Context, principal domain.Principal, id string, status domain.StockStatus) (*domain.Listing, error) {
	if status != domain.StockStatusIn && status != domain.StockStatusOut {
		return nil, fmt.Errorf("%w: status must be %q or %q", domain.ErrValidation, domain.StockStatusIn, domain.StockStatusOut)
	}

	listing, err := uc.repo.FindByIDForOwner(ctx, id, principal.ID)
	if err != nil {
		return nil, err
	}

	wentOutOfStock := false
	switch status {
	case domain.StockStatusOut:
		// Toggling off an already-empty listing leaves PreZeroStock alone so
		// the remembered level is never clobbered with zero.
		if listing.Stock > 0 {
			listing.PreZeroStock = listing.Stock
			wentOutOfStock = true
		}
		listing.Stock = 0
	case domain.StockStatusIn:
		if listing.PreZeroStock > 0 {
			listing.Stock = listing.PreZeroStock
		} else {
			listing.Stock = 1
		}
	}

	if err := uc.repo.UpdateForOwner(ctx, listing); err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			return nil, fmt.Errorf("%w: listing %s vanished during status change", domain.ErrUpdateFailed, id)
		}
		return nil, err
	}

	uc.afterWrite(ctx, listing, SubjectListingStockChanged)
	if wentOutOfStock && uc.notifier != nil && principal.Email != "" {
		if err := uc.notifier.SendOutOfStockEmail(principal.Email, listing.Name); err != nil {
			uc.logger.Warn("failed to send out-of-stock email", zap.String("listing_id", id), zap.Error(err))
		}
	}
	return listing, nil
}

// collectImageURLs validates the combined image count and uploads raw files,
// returning kept URLs followed by new ones in submission order.
func (uc *ListingUsecase) collectImageURLs(ctx context.Context, in ListingInput) ([]string, error) {
	kept := make([]string, 0, len(in.ImageURLs))
	for _, u := range in.ImageURLs {
		if u = strings.TrimSpace(u); u != "" {
			kept = append(kept, u)
		}
	}

	count := len(kept) + len(in.Files)
	if count < domain.MinImages || count > domain.MaxImages {
		return nil, fmt.Errorf("%w: a listing must have between %d and %d images, got %d",
			domain.ErrValidation, domain.MinImages, domain.MaxImages, count)
	}

	for _, f := range in.Files {
		url, err := uc.media.Store(ctx, f.Name, f.Data)
		if err != nil {
			return nil, err
		}
		kept = append(kept, url)
	}
	return kept, nil
}

func (uc *ListingUsecase) afterWrite(ctx context.Context, listing *domain.Listing, subject string) {
	if err := uc.cache.SetListing(ctx, listing); err != nil {
		uc.logger.Warn("listing cache write failed", zap.String("listing_id", listing.ID), zap.Error(err))
	}
	if err := uc.cache.InvalidateFeed(ctx); err != nil {
		uc.logger.Warn("failed to invalidate feed cache", zap.Error(err))
	}
	uc.publish(ctx, subject, listingEvent{ListingID: listing.ID, OwnerID: listing.OwnerID, Stock: listing.Stock})
}

func (uc *ListingUsecase) publish(ctx context.Context, subject string, ev listingEvent) {
	if err := uc.events.Publish(ctx, subject, ev); err != nil {
		uc.logger.Warn("failed to publish event", zap.String("subject", subject), zap.Error(err))
	}
}

type listingFields struct {
	name        string
	category    string
	description string
	price       float64
	stock       int64
}

// parseListingFields enforces the field rules shared by create and update:
// all five fields present, price a non-negative decimal, stock a non-negative
// integer.
func parseListingFields(in ListingInput) (listingFields, error) {
	f := listingFields{
		name:        strings.TrimSpace(in.Name),
		category:    strings.TrimSpace(in.Category),
		description: strings.TrimSpace(in.Description),
	}
	if f.name == "" || f.category == "" || f.description == "" || strings.TrimSpace(in.Price) == "" || strings.TrimSpace(in.Stock) == "" {
		return listingFields{}, fmt.Errorf("%w: name, price, category, description and stock are required", domain.ErrValidation)
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(in.Price), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return listingFields{}, fmt.Errorf("%w: price must be a non-negative number", domain.ErrValidation)
	}
	stock, err := strconv.ParseInt(strings.TrimSpace(in.Stock), 10, 64)
	if err != nil || stock < 0 {
		return listingFields{}, fmt.Errorf("%w: stock must be a non-negative integer", domain.ErrValidation)
	}

	f.price = price
	f.stock = stock
	return f, nil
}

func paginationMeta(page, perPage, total int64) domain.Pagination {
	return domain.Pagination{
		Page:       page,
		HasNext:    page*perPage < total,
		TotalCount: total,
	}
}
