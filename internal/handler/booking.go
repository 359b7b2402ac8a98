package handler

import (
    "context"  // context carries deadlines into publish calls
    "errors"   // for errors.Is comparisons
    "net/http" // HTTP status codes
    "strconv"  // parsing path parameters
    "time"     // validating dates and stamping rows
    "unicode/utf8"

    "github.com/iliyamo/restaurant-table-booking/internal/model"      // status constants
    "github.com/iliyamo/restaurant-table-booking/internal/queue"      // event payloads
    "github.com/iliyamo/restaurant-table-booking/internal/repository" // repository layer
    "github.com/labstack/echo/v4"                                     // Echo web framework
)

// StatusPublisher emits booking lifecycle events to the message
// broker.  The notification consumer turns these events into
// notification rows.  Publish failures must never fail the request.
type StatusPublisher interface {
    PublishBookingStatus(ctx context.Context, ev queue.BookingStatusEvent) error
}

// BookingHandler groups repositories required to create, cancel and
// list table bookings on behalf of customers.  All methods assume
// that JWT authentication and role validation has already been
// performed by middleware.  Methods may return 401 Unauthorized if
// the user ID cannot be extracted from the context.  The booking
// insert and the table status flip run inside one transaction so the
// two writes cannot diverge.
type BookingHandler struct {
    RestaurantRepo *repository.RestaurantRepo // access to restaurants for validation and names
    TableRepo      *repository.TableRepo      // access to restaurant_tables for status transitions
    BookingRepo    *repository.BookingRepo    // access to bookings
    Events         StatusPublisher            // optional broker publisher; nil disables events
}

// NewBookingHandler constructs a new BookingHandler with the provided
// repositories.  The event publisher may be nil (events disabled).
func NewBookingHandler(restaurantRepo *repository.RestaurantRepo, tableRepo *repository.TableRepo, bookingRepo *repository.BookingRepo, events StatusPublisher) *BookingHandler {
    if restaurantRepo == nil || tableRepo == nil || bookingRepo == nil {
        panic("nil repository passed to NewBookingHandler")
    }
    return &BookingHandler{
        RestaurantRepo: restaurantRepo,
        TableRepo:      tableRepo,
        BookingRepo:    bookingRepo,
        Events:         events,
    }
}

type createBookingReq struct {
    RestaurantID    uint64 `json:"restaurant_id"`
    TableID         uint64 `json:"table_id"`
    Date            string `json:"date"`
    Time            string `json:"time"`
    Guests          uint32 `json:"guests"`
    SpecialRequests string `json:"special_requests"`
}

const (
    minGuests             = 1
    maxGuests             = 20
    maxSpecialRequestsLen = 500
)

// validateCreateBooking checks the request body before any database
// access.  It returns an empty string when the request is valid.
func validateCreateBooking(req *createBookingReq) string {
    if req.RestaurantID == 0 {
        return "restaurant_id must be a positive integer"
    }
    if req.TableID == 0 {
        return "table_id must be a positive integer"
    }
    if _, err := time.Parse("2006-01-02", req.Date); err != nil {
        return "date must be a valid YYYY-MM-DD date"
    }
    if _, err := time.Parse("15:04", req.Time); err != nil {
        return "time must be a valid 24-hour HH:MM time"
    }
    if req.Guests < minGuests || req.Guests > maxGuests {
        return "guests must be between 1 and 20"
    }
    if utf8.RuneCountInString(req.SpecialRequests) > maxSpecialRequestsLen {
        return "special_requests must be at most 500 characters"
    }
    return ""
}

// CreateBooking handles POST /v1/bookings.  It validates the request,
// verifies the restaurant is active and the table belongs to it, and
// rejects bookings that exceed the table capacity or target a table
// that is not AVAILABLE.  On success the booking row is inserted and
// the table flipped to RESERVED inside a single transaction, then a
// booking.status event is published.  Returns 201 Created with the
// booking summary.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req createBookingReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if msg := validateCreateBooking(&req); msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }

    ctx := c.Request().Context()
    tx, err := h.BookingRepo.DB().BeginTx(ctx, nil)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    restaurant, err := h.RestaurantRepo.GetActiveTx(ctx, tx, req.RestaurantID)
    if err != nil {
        if errors.Is(err, repository.ErrRestaurantNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
        }
        c.Logger().Errorf("create booking: load restaurant failed (user=%d): %v", userID, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    table, err := h.TableRepo.GetForRestaurantTx(ctx, tx, req.TableID, req.RestaurantID)
    if err != nil {
        if errors.Is(err, repository.ErrTableNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
        }
        c.Logger().Errorf("create booking: load table failed (user=%d): %v", userID, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if req.Guests > table.Capacity {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "guests exceed table capacity"})
    }
    if table.Status != model.TableAvailable {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "table is not available"})
    }

    now := time.Now().UTC()
    booking := &repository.BookingRecord{
        UserID:       userID,
        RestaurantID: req.RestaurantID,
        TableID:      req.TableID,
        BookingDate:  req.Date,
        BookingTime:  req.Time,
        Guests:       req.Guests,
        Status:       model.BookingConfirmed,
    }
    if req.SpecialRequests != "" {
        s := req.SpecialRequests
        booking.SpecialRequests = &s
    }
    if err := h.BookingRepo.CreateTx(ctx, tx, booking, now); err != nil {
        c.Logger().Errorf("create booking: insert failed (user=%d): %v", userID, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create booking"})
    }
    if err := h.TableRepo.UpdateStatusTx(ctx, tx, table.ID, model.TableReserved, now); err != nil {
        c.Logger().Errorf("create booking: reserve table failed (user=%d): %v", userID, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update table status"})
    }
    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
    }
    committed = true

    h.publishStatus(ctx, queue.BookingStatusEvent{
        BookingID:      booking.ID,
        UserID:         userID,
        RestaurantID:   restaurant.ID,
        RestaurantName: restaurant.Name,
        TableNumber:    table.TableNumber,
        Date:           req.Date,
        Time:           req.Time,
        Guests:         req.Guests,
        Status:         model.BookingConfirmed,
        OccurredAt:     now.Format(time.RFC3339),
    })

    return c.JSON(http.StatusCreated, echo.Map{
        "booking_id":      booking.ID,
        "restaurant_name": restaurant.Name,
        "table_number":    table.TableNumber,
        "date":            req.Date,
        "time":            req.Time,
        "guests":          req.Guests,
        "status":          booking.Status,
    })
}

// CancelBooking handles PUT /v1/bookings/:id/cancel.  It soft-cancels
// a booking owned by the current user and releases the table.  A
// second cancel of the same booking yields 400 and leaves the table
// status untouched.  Both writes share one transaction.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || bookingID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }

    ctx := c.Request().Context()
    tx, err := h.BookingRepo.DB().BeginTx(ctx, nil)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    booking, err := h.BookingRepo.GetForUserTx(ctx, tx, bookingID, userID)
    if err != nil {
        if errors.Is(err, repository.ErrBookingNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        }
        c.Logger().Errorf("cancel booking: load failed (user=%d booking=%d): %v", userID, bookingID, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if booking.Status == model.BookingCancelled {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking already cancelled"})
    }

    now := time.Now().UTC()
    if err := h.BookingRepo.CancelTx(ctx, tx, booking.ID, now); err != nil {
        c.Logger().Errorf("cancel booking: update failed (user=%d booking=%d): %v", userID, bookingID, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel booking"})
    }
    if err := h.TableRepo.UpdateStatusTx(ctx, tx, booking.TableID, model.TableAvailable, now); err != nil {
        c.Logger().Errorf("cancel booking: release table failed (user=%d booking=%d): %v", userID, bookingID, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update table status"})
    }
    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
    }
    committed = true

    h.publishStatus(ctx, queue.BookingStatusEvent{
        BookingID:    booking.ID,
        UserID:       userID,
        RestaurantID: booking.RestaurantID,
        Date:         booking.BookingDate,
        Time:         booking.BookingTime,
        Guests:       booking.Guests,
        Status:       model.BookingCancelled,
        OccurredAt:   now.Format(time.RFC3339),
    })

    return c.JSON(http.StatusOK, echo.Map{
        "booking_id": booking.ID,
        "status":     model.BookingCancelled,
    })
}

// ListBookings handles GET /v1/bookings.  It returns all bookings of
// the current user joined with restaurant and table details, newest
// first.  When no bookings exist, it returns an empty array.
func (h *BookingHandler) ListBookings(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    details, err := h.BookingRepo.ListByUser(c.Request().Context(), userID)
    if err != nil {
        c.Logger().Errorf("list bookings failed (user=%d): %v", userID, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
    }
    return c.JSON(http.StatusOK, details)
}

// GetBooking handles GET /v1/bookings/:id.  It returns a single
// booking for the authenticated user.  When the booking does not
// exist or belongs to someone else, it responds with 404.
func (h *BookingHandler) GetBooking(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || bookingID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    detail, err := h.BookingRepo.GetDetailForUser(c.Request().Context(), bookingID, userID)
    if err != nil {
        if errors.Is(err, repository.ErrBookingNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        }
        c.Logger().Errorf("get booking failed (user=%d booking=%d): %v", userID, bookingID, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch booking"})
    }
    return c.JSON(http.StatusOK, detail)
}

// publishStatus forwards a booking event to the broker when a
// publisher is configured.  Errors are logged and swallowed: the
// booking itself has already committed.
func (h *BookingHandler) publishStatus(ctx context.Context, ev queue.BookingStatusEvent) {
    if h.Events == nil {
        return
    }
    // the publisher logs its own failures
    _ = h.Events.PublishBookingStatus(ctx, ev)
}
