// This file defines handlers for the public browsing API.  These
// routes let unauthenticated guests browse restaurants and their
// tables without an account.  Sensitive fields (activity flags,
// timestamps) are filtered from responses, and the routes sit behind
// the Redis response cache since the data changes rarely.

package handler

import (
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/restaurant-table-booking/internal/repository"
)

// PublicHandler aggregates repositories needed for unauthenticated
// browsing.  It produces sanitized responses suitable for public
// consumption.
type PublicHandler struct {
    RestaurantRepo *repository.RestaurantRepo // provides access to restaurant data
    TableRepo      *repository.TableRepo      // provides access to table data
}

// PublicRestaurant represents a restaurant exposed via the public
// API.  It contains only safe fields.
type PublicRestaurant struct {
    ID      uint64 `json:"id"`
    Name    string `json:"name"`
    Address string `json:"address"`
}

// PublicTable represents a table exposed via the public API.  Status
// is included so guests can see availability before registering.
type PublicTable struct {
    ID          uint64 `json:"id"`
    TableNumber uint32 `json:"table_number"`
    Capacity    uint32 `json:"capacity"`
    Status      string `json:"status"`
}

// GetPublicRestaurants returns all active restaurants.  Response JSON
// contains an "items" array of PublicRestaurant.
func (h *PublicHandler) GetPublicRestaurants(c echo.Context) error {
    ctx := c.Request().Context()
    restaurants, err := h.RestaurantRepo.ListActive(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    out := make([]PublicRestaurant, 0, len(restaurants))
    for _, r := range restaurants {
        out = append(out, PublicRestaurant{ID: r.ID, Name: r.Name, Address: r.Address})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetPublicTables lists the tables of a restaurant for unauthenticated
// users.  It validates the restaurant exists and is active, then
// returns only non-sensitive fields.
func (h *PublicHandler) GetPublicTables(c echo.Context) error {
    ctx := c.Request().Context()
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    // ensure restaurant exists and is active
    if _, err := h.RestaurantRepo.GetActive(ctx, id); err != nil {
        if err == repository.ErrRestaurantNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    tables, err := h.TableRepo.ListByRestaurant(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    out := make([]PublicTable, 0, len(tables))
    for _, t := range tables {
        out = append(out, PublicTable{ID: t.ID, TableNumber: t.TableNumber, Capacity: t.Capacity, Status: t.Status})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": out})
}
