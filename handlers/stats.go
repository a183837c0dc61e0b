package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"EstateHub/cache"
	"EstateHub/models"
	"EstateHub/store"
)

type DashboardStats struct {
	Listings models.ListingStats `json:"listings"`
	Contacts models.ContactStats `json:"contacts"`
}

type StatsController struct {
	listings ListingStore
	contacts ContactStore
	cache    *cache.Cache
}

func NewStatsController(listings ListingStore, contacts ContactStore, c *cache.Cache) *StatsController {
	return &StatsController{listings: listings, contacts: contacts, cache: c}
}

func (sc *StatsController) Stats(c echo.Context) error {
	ctx := c.Request().Context()
	params := map[string]string{"view": "dashboard"}

	if sc.cache != nil {
		var cached DashboardStats
		if hit, err := sc.cache.Get(ctx, store.StatsCachePrefix, params, &cached); err == nil && hit {
			return c.JSON(http.StatusOK, cached)
		}
	}

	listingStats, err := sc.listings.Stats(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to compute stats"})
	}
	contactStats, err := sc.contacts.Stats(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to compute stats"})
	}

	stats := DashboardStats{Listings: *listingStats, Contacts: *contactStats}
	if sc.cache != nil {
		_ = sc.cache.Set(ctx, store.StatsCachePrefix, params, stats)
	}
	return c.JSON(http.StatusOK, stats)
}
