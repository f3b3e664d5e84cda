package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/daniyar-kh/marketplace-backend/internal/adapter/httpapi/middleware"
	"github.com/daniyar-kh/marketplace-backend/internal/listing/domain"
	"github.com/daniyar-kh/marketplace-backend/internal/listing/usecase"
)

// Uploads beyond this size are rejected while parsing the multipart form.
const maxUploadBytes = 32 << 20

type Handler struct {
	listings *usecase.ListingUsecase
	profiles *usecase.ProfileUsecase
	logger   *zap.Logger
}

func NewHandler(listings *usecase.ListingUsecase, profiles *usecase.ProfileUsecase, logger *zap.Logger) *Handler {
	return &Handler{listings: listings, profiles: profiles, logger: logger}
}

// listingRequest is the JSON body for create and update. Price and stock are
// json.Number so both `"9.99"` and `9.99` are accepted; the service parses
// them.
type listingRequest struct {
	Name        string      `json:"name"`
	Price       json.Number `json:"price"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
	Stock       json.Number `json:"stock"`
	Image       string      `json:"image"`
	ImageURLs   []string    `json:"image_urls"`
}

type listingsResponse struct {
	Listings   []*domain.Listing `json:"listings"`
	Pagination domain.Pagination `json:"pagination"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type profileRequest struct {
	Username string `json:"username"`
}

// HandleFeed serves the public feed, newest first. No auth required.
func (h *Handler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	listings, pagination, err := h.listings.Feed(r.Context(), queryPage(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, listingsResponse{Listings: listings, Pagination: pagination})
}

func (h *Handler) HandleMyListings(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, domain.ErrUnauthenticated)
		return
	}

	q := r.URL.Query()
	listings, pagination, err := h.listings.ListMine(r.Context(), principal, queryPage(r),
		q.Get("search"), q.Get("sortBy"), q.Get("sortOrder"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, listingsResponse{Listings: listings, Pagination: pagination})
}

func (h *Handler) HandleCreateListing(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, domain.ErrUnauthenticated)
		return
	}

	input, err := decodeListingInput(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	listing, err := h.listings.CreateListing(r.Context(), principal, input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, listing)
}

func (h *Handler) HandleGetListing(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, domain.ErrUnauthenticated)
		return
	}

	listing, err := h.listings.GetListing(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func (h *Handler) HandleUpdateListing(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, domain.ErrUnauthenticated)
		return
	}

	input, err := decodeListingInput(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	listing, err := h.listings.UpdateListing(r.Context(), principal, chi.URLParam(r, "id"), input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func (h *Handler) HandleDeleteListing(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, domain.ErrUnauthenticated)
		return
	}

	if err := h.listings.DeleteListing(r.Context(), principal, chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Listing deleted successfully."})
}

func (h *Handler) HandleUpdateStockStatus(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, domain.ErrUnauthenticated)
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, fmt.Errorf("%w: invalid request body", domain.ErrValidation))
		return
	}

	listing, err := h.listings.SetStockStatus(r.Context(), principal, chi.URLParam(r, "id"), domain.StockStatus(req.Status))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func (h *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, domain.ErrUnauthenticated)
		return
	}

	profile, err := h.profiles.GetProfile(r.Context(), principal)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, domain.ErrUnauthenticated)
		return
	}

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, fmt.Errorf("%w: invalid request body", domain.ErrValidation))
		return
	}

	profile, err := h.profiles.UpdateProfile(r.Context(), principal, req.Username)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// decodeListingInput accepts both submission modes: a JSON body carrying
// pre-hosted image URLs, or a multipart form carrying raw files (plus any
// kept URLs on update). File order in the form is preserved.
func decodeListingInput(r *http.Request) (usecase.ListingInput, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return decodeMultipartInput(r)
	}

	var req listingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return usecase.ListingInput{}, fmt.Errorf("%w: invalid request body", domain.ErrValidation)
	}

	urls := req.ImageURLs
	if req.Image != "" {
		urls = append(urls, req.Image)
	}
	return usecase.ListingInput{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Price:       req.Price.String(),
		Stock:       req.Stock.String(),
		ImageURLs:   urls,
	}, nil
}

func decodeMultipartInput(r *http.Request) (usecase.ListingInput, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return usecase.ListingInput{}, fmt.Errorf("%w: invalid multipart form", domain.ErrValidation)
	}

	input := usecase.ListingInput{
		Name:        r.FormValue("name"),
		Category:    r.FormValue("category"),
		Description: r.FormValue("description"),
		Price:       r.FormValue("price"),
		Stock:       r.FormValue("stock"),
		ImageURLs:   r.MultipartForm.Value["image_urls"],
	}

	for _, header := range r.MultipartForm.File["images"] {
		file, err := header.Open()
		if err != nil {
			return usecase.ListingInput{}, fmt.Errorf("%w: unreadable file %q", domain.ErrInvalidFile, header.Filename)
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return usecase.ListingInput{}, fmt.Errorf("%w: unreadable file %q", domain.ErrInvalidFile, header.Filename)
		}
		input.Files = append(input.Files, usecase.FileUpload{Name: header.Filename, Data: data})
	}
	return input, nil
}

func queryPage(r *http.Request) int64 {
	page, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64)
	if err != nil || page < 1 {
		return 1
	}
	return page
}
