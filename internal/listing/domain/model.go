package domain

import "time"

// StockStatus is the requested availability state of a listing.
type StockStatus string

const (
	StockStatusIn  StockStatus = "in_stock"
	StockStatusOut StockStatus = "out_of_stock"
)

// Image bounds enforced on create and update.
const (
	MinImages = 1
	MaxImages = 4
)

// Listing is a single marketplace item. OwnerID is assigned at creation and
// never changes afterwards.
type Listing struct {
	ID          string  `json:"id"`
	OwnerID     string  `json:"owner_id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int64   `json:"stock"`
	// PreZeroStock remembers the last positive stock level before the listing
	// was toggled out of stock, so toggling back restores it. Always >= 1 once
	// the listing exists.
	PreZeroStock int64     `json:"pre_zero_stock"`
	ImageURLs    []string  `json:"image_urls"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// InStock reports whether the listing currently has sellable stock.
func (l *Listing) InStock() bool { return l.Stock > 0 }

// Principal is the authenticated identity making a request.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

// Profile is the public display profile attached to a principal.
type Profile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Filter narrows and pages an owner-scoped listing query. OwnerID is applied
// server-side in the repository, never by post-filtering fetched rows.
type Filter struct {
	OwnerID   string
	Search    string
	Page      int64
	PerPage   int64
	SortBy    string
	SortOrder string
}

// Pagination is the metadata returned alongside a listing page.
type Pagination struct {
	Page       int64 `json:"page"`
	HasNext    bool  `json:"hasNext"`
	TotalCount int64 `json:"totalCount"`
}
