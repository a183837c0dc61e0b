package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"EstateHub/cache"
	"EstateHub/models"
	"EstateHub/store"
	"EstateHub/utils"
)

// ListingStore is the slice of the persistence layer the listing routes
// need; tests substitute a fake.
type ListingStore interface {
	Create(ctx context.Context, input models.ListingInput) (int64, error)
	GetAll(ctx context.Context, filter models.ListingFilter) ([]models.Listing, error)
	GetByID(ctx context.Context, id int64) (*models.Listing, error)
	Update(ctx context.Context, id int64, patch models.ListingUpdate) (*models.Listing, error)
	Delete(ctx context.Context, id int64) error
	IncrementViews(ctx context.Context, id int64) error
	AddRating(ctx context.Context, id int64, value int) error
	ToggleFeatured(ctx context.Context, id int64) (bool, error)
	Stats(ctx context.Context) (*models.ListingStats, error)
}

type ListingController struct {
	store ListingStore
	cache *cache.Cache
}

func NewListingController(s ListingStore, c *cache.Cache) *ListingController {
	return &ListingController{store: s, cache: c}
}

func parseListingID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func (lc *ListingController) List(c echo.Context) error {
	ctx := c.Request().Context()
	params := map[string]string{
		"status":   c.QueryParam("status"),
		"featured": c.QueryParam("featured"),
		"page":     c.QueryParam("page"),
		"limit":    c.QueryParam("limit"),
	}

	if lc.cache != nil {
		var cached []models.ListingView
		if hit, err := lc.cache.Get(ctx, store.ListingsCachePrefix, params, &cached); err == nil && hit {
			return c.JSON(http.StatusOK, cached)
		}
	}

	filter := models.ListingFilter{}
	if status := params["status"]; status != "" {
		if !utils.IsValidListingStatus(status) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid status filter"})
		}
		filter.Status = status
	}
	switch params["featured"] {
	case "true":
		t := true
		filter.Featured = &t
	case "false":
		f := false
		filter.Featured = &f
	}
	if p := params["page"]; p != "" {
		if num, err := strconv.Atoi(p); err == nil && num > 0 {
			filter.Page = num
		}
	}
	if l := params["limit"]; l != "" {
		if num, err := strconv.Atoi(l); err == nil && num > 0 {
			filter.Limit = num
		}
	}

	listings, err := lc.store.GetAll(ctx, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch listings"})
	}

	views := make([]models.ListingView, 0, len(listings))
	for i := range listings {
		views = append(views, listings[i].View())
	}

	if lc.cache != nil {
		_ = lc.cache.Set(ctx, store.ListingsCachePrefix, params, views)
	}
	return c.JSON(http.StatusOK, views)
}

// Get serves one listing for display, bumping its view counter first so
// the returned view carries the fresh count.
func (lc *ListingController) Get(c echo.Context) error {
	id, err := parseListingID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid listing ID"})
	}

	ctx := c.Request().Context()
	if err := lc.store.IncrementViews(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Listing not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch listing"})
	}

	listing, err := lc.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Listing not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch listing"})
	}
	return c.JSON(http.StatusOK, listing.View())
}

func (lc *ListingController) Rate(c echo.Context) error {
	id, err := parseListingID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid listing ID"})
	}

	var req models.RatingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Rating must be between 1 and 5"})
	}

	if err := lc.store.AddRating(c.Request().Context(), id, req.Value); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Listing not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to submit rating"})
	}
	return c.JSON(http.StatusCreated, map[string]string{"message": "Rating submitted"})
}

func (lc *ListingController) Create(c echo.Context) error {
	var input models.ListingInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Title, location and status are required"})
	}
	if !utils.IsValidListingStatus(input.Status) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid listing status"})
	}

	id, err := lc.store.Create(c.Request().Context(), input)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create listing"})
	}
	return c.JSON(http.StatusCreated, map[string]int64{"id": id})
}

func (lc *ListingController) Update(c echo.Context) error {
	id, err := parseListingID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid listing ID"})
	}

	var patch models.ListingUpdate
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if patch.Status != nil && !utils.IsValidListingStatus(*patch.Status) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid listing status"})
	}

	listing, err := lc.store.Update(c.Request().Context(), id, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Listing not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update listing"})
	}
	return c.JSON(http.StatusOK, listing.View())
}

func (lc *ListingController) Delete(c echo.Context) error {
	id, err := parseListingID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid listing ID"})
	}

	if err := lc.store.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Listing not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete listing"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Listing deleted successfully"})
}

func (lc *ListingController) ToggleFeature(c echo.Context) error {
	id, err := parseListingID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid listing ID"})
	}

	featured, err := lc.store.ToggleFeatured(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Listing not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update listing"})
	}
	return c.JSON(http.StatusOK, map[string]bool{"featured": featured})
}
