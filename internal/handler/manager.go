package handler // handler package contains manager-specific venue handlers

import (
    "net/http" // http provides status code constants
    "strconv"  // strconv parses string identifiers to numeric types
    "strings"  // strings offers trimming utilities
    "time"     // time stamps newly created records

    "github.com/iliyamo/restaurant-table-booking/internal/repository" // repository holds database access
    "github.com/labstack/echo/v4"                                     // echo is the web framework used for handlers
)

// ManagerHandler groups repositories used by MANAGER-only endpoints.
type ManagerHandler struct {
    RestaurantRepo *repository.RestaurantRepo // restaurant persistence
    TableRepo      *repository.TableRepo      // table persistence
}

// NewManagerHandler constructs a ManagerHandler.
func NewManagerHandler(r *repository.RestaurantRepo, t *repository.TableRepo) *ManagerHandler {
    return &ManagerHandler{RestaurantRepo: r, TableRepo: t}
}

// CreateRestaurant handles POST /v1/restaurants and registers a new venue
func (h *ManagerHandler) CreateRestaurant(c echo.Context) error { // begin CreateRestaurant handler
    var body struct { // anonymous struct to bind incoming JSON
        Name    string `json:"name"`    // display name of the venue
        Address string `json:"address"` // street address shown to guests
    }
    if err := c.Bind(&body); err != nil { // attempt to bind the request body into the struct
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"}) // return bad request when binding fails
    }
    name := strings.TrimSpace(body.Name)       // trim spaces around the restaurant name
    address := strings.TrimSpace(body.Address) // trim spaces around the address
    if name == "" {                            // ensure the name is not empty after trimming
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"}) // respond with error when name is empty
    }
    if address == "" { // the address is shown in notifications and cannot be blank
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "address is required"}) // respond with error when address is empty
    }
    rec := &repository.RestaurantRecord{ // instantiate a new restaurant record
        Name:     name,    // assign the trimmed name
        Address:  address, // assign the trimmed address
        IsActive: true,    // new venues are active immediately
    }
    if err := h.RestaurantRepo.Create(c.Request().Context(), rec, time.Now().UTC()); err != nil { // delegate creation to the repository
        if strings.Contains(err.Error(), "1062") { // check for duplicate key error
            return c.JSON(http.StatusConflict, echo.Map{"error": "restaurant name already exists"}) // respond with conflict when the name is not unique
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create restaurant"}) // respond with internal error for other failures
    }
    return c.JSON(http.StatusCreated, echo.Map{ // return 201 and the created venue on success
        "id":      rec.ID,      // generated identifier
        "name":    rec.Name,    // stored name
        "address": rec.Address, // stored address
    })
}

// CreateTable handles POST /v1/restaurants/:id/tables and adds a table to a venue
func (h *ManagerHandler) CreateTable(c echo.Context) error { // begin CreateTable handler
    restaurantID, err := strconv.ParseUint(c.Param("id"), 10, 64) // parse the restaurant ID from the URL
    if err != nil {                                               // validate that the ID is numeric
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"}) // invalid ID error response
    }
    var body struct { // struct for binding the JSON payload
        TableNumber uint32 `json:"table_number"` // human-facing table number, unique per venue
        Capacity    uint32 `json:"capacity"`     // maximum party size the table seats
    }
    if err := c.Bind(&body); err != nil { // attempt to bind the request body
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"}) // return bad request when binding fails
    }
    if body.TableNumber == 0 { // table numbers start at 1
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "table_number is required"}) // respond with error when missing
    }
    if body.Capacity == 0 { // a table must seat at least one guest
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be positive"}) // respond with error when capacity is zero
    }
    if _, err := h.RestaurantRepo.GetActive(c.Request().Context(), restaurantID); err != nil { // verify the venue exists and is active
        if err == repository.ErrRestaurantNotFound { // when the restaurant is not found
            return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"}) // respond with not found
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"}) // respond with database error
    }
    rec := &repository.TableRecord{ // instantiate a new table record
        RestaurantID: restaurantID,     // bind the table to the venue
        TableNumber:  body.TableNumber, // assign the table number
        Capacity:     body.Capacity,    // assign the capacity
    }
    if err := h.TableRepo.Create(c.Request().Context(), rec, time.Now().UTC()); err != nil { // delegate creation to the repository
        if strings.Contains(err.Error(), "1062") { // duplicate table number within the venue
            return c.JSON(http.StatusConflict, echo.Map{"error": "table number already exists"}) // respond with conflict
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create table"}) // respond with internal error
    }
    return c.JSON(http.StatusCreated, echo.Map{ // return 201 and the created table on success
        "id":           rec.ID,           // generated identifier
        "table_number": rec.TableNumber,  // stored table number
        "capacity":     rec.Capacity,     // stored capacity
        "status":       rec.Status,       // always AVAILABLE for new tables
    })
}
