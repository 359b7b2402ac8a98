package handler

import (
    "fmt"
    "net/http"
    "strings"
    "testing"

    "github.com/iliyamo/restaurant-table-booking/internal/model"
)

func TestCreateBookingSuccess(t *testing.T) {
    db := newTestDB(t)
    restaurant, table := seedVenue(t, db, 4)
    pub := &fakePublisher{}
    e := newTestServer(db, pub)

    body := fmt.Sprintf(`{"restaurant_id":%d,"table_id":%d,"date":"2026-09-01","time":"19:30","guests":3,"special_requests":"window seat"}`,
        restaurant.ID, table.ID)
    var resp struct {
        BookingID      uint64 `json:"booking_id"`
        RestaurantName string `json:"restaurant_name"`
        TableNumber    uint32 `json:"table_number"`
        Date           string `json:"date"`
        Time           string `json:"time"`
        Guests         uint32 `json:"guests"`
        Status         string `json:"status"`
    }
    rec := doRequest(t, e, http.MethodPost, "/v1/bookings", 7, body, &resp)
    if rec.Code != http.StatusCreated {
        t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
    }
    if resp.BookingID == 0 {
        t.Error("missing booking_id")
    }
    if resp.RestaurantName != "Trattoria Roma" || resp.TableNumber != 5 {
        t.Errorf("venue fields = %q table %d", resp.RestaurantName, resp.TableNumber)
    }
    if resp.Status != model.BookingConfirmed {
        t.Errorf("status = %q, want CONFIRMED", resp.Status)
    }

    // the table flips to RESERVED in the same transaction
    if got := tableStatus(t, db, table.ID); got != model.TableReserved {
        t.Errorf("table status = %q, want RESERVED", got)
    }

    // one CONFIRMED event reaches the broker
    events := pub.published()
    if len(events) != 1 {
        t.Fatalf("published %d events, want 1", len(events))
    }
    if events[0].Status != model.BookingConfirmed || events[0].BookingID != resp.BookingID || events[0].UserID != 7 {
        t.Errorf("event = %+v", events[0])
    }
}

func TestCreateBookingValidation(t *testing.T) {
    db := newTestDB(t)
    restaurant, table := seedVenue(t, db, 4)
    e := newTestServer(db, nil)

    long := strings.Repeat("x", 501)
    cases := []struct {
        name string
        body string
    }{
        {"zero restaurant", fmt.Sprintf(`{"restaurant_id":0,"table_id":%d,"date":"2026-09-01","time":"19:30","guests":2}`, table.ID)},
        {"zero table", fmt.Sprintf(`{"restaurant_id":%d,"table_id":0,"date":"2026-09-01","time":"19:30","guests":2}`, restaurant.ID)},
        {"bad date", fmt.Sprintf(`{"restaurant_id":%d,"table_id":%d,"date":"09/01/2026","time":"19:30","guests":2}`, restaurant.ID, table.ID)},
        {"bad time", fmt.Sprintf(`{"restaurant_id":%d,"table_id":%d,"date":"2026-09-01","time":"7pm","guests":2}`, restaurant.ID, table.ID)},
        {"zero guests", fmt.Sprintf(`{"restaurant_id":%d,"table_id":%d,"date":"2026-09-01","time":"19:30","guests":0}`, restaurant.ID, table.ID)},
        {"too many guests", fmt.Sprintf(`{"restaurant_id":%d,"table_id":%d,"date":"2026-09-01","time":"19:30","guests":21}`, restaurant.ID, table.ID)},
        {"special requests too long", fmt.Sprintf(`{"restaurant_id":%d,"table_id":%d,"date":"2026-09-01","time":"19:30","guests":2,"special_requests":"%s"}`, restaurant.ID, table.ID, long)},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            rec := doRequest(t, e, http.MethodPost, "/v1/bookings", 7, tc.body, nil)
            if rec.Code != http.StatusBadRequest {
                t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
            }
        })
    }

    // validation failures short-circuit before persistence
    if n := bookingCount(t, db); n != 0 {
        t.Errorf("bookings written on invalid input: %d", n)
    }
    if got := tableStatus(t, db, table.ID); got != model.TableAvailable {
        t.Errorf("table status changed on invalid input: %q", got)
    }
}

func TestCreateBookingCapacityExceeded(t *testing.T) {
    db := newTestDB(t)
    restaurant, table := seedVenue(t, db, 4)
    e := newTestServer(db, nil)

    body := fmt.Sprintf(`{"restaurant_id":%d,"table_id":%d,"date":"2026-09-01","time":"19:30","guests":5}`,
        restaurant.ID, table.ID)
    var resp struct {
        Error string `json:"error"`
    }
    rec := doRequest(t, e, http.MethodPost, "/v1/bookings", 7, body, &resp)
    if rec.Code != http.StatusBadRequest {
        t.Fatalf("status = %d", rec.Code)
    }
    if resp.Error != "guests exceed table capacity" {
        t.Errorf("error = %q", resp.Error)
    }
    if n := bookingCount(t, db); n != 0 {
        t.Errorf("booking written despite capacity rejection: %d", n)
    }
}

func TestCreateBookingTableUnavailable(t *testing.T) {
    db := newTestDB(t)
    restaurant, table := seedVenue(t, db, 4)
    e := newTestServer(db, nil)

    // occupy the table
    if _, err := db.Exec("UPDATE restaurant_tables SET status = ? WHERE id = ?", model.TableReserved, table.ID); err != nil {
        t.Fatalf("reserve table: %v", err)
    }

    body := fmt.Sprintf(`{"restaurant_id":%d,"table_id":%d,"date":"2026-09-01","time":"19:30","guests":2}`,
        restaurant.ID, table.ID)
    var resp struct {
        Error string `json:"error"`
    }
    rec := doRequest(t, e, http.MethodPost, "/v1/bookings", 7, body, &resp)
    if rec.Code != http.StatusBadRequest {
        t.Fatalf("status = %d", rec.Code)
    }
    if resp.Error != "table is not available" {
        t.Errorf("error = %q", resp.Error)
    }
}

func TestCreateBookingUnknownVenue(t *testing.T) {
    db := newTestDB(t)
    restaurant, table := seedVenue(t, db, 4)
    e := newTestServer(db, nil)

    // unknown restaurant
    body := fmt.Sprintf(`{"restaurant_id":9999,"table_id":%d,"date":"2026-09-01","time":"19:30","guests":2}`, table.ID)
    if rec := doRequest(t, e, http.MethodPost, "/v1/bookings", 7, body, nil); rec.Code != http.StatusNotFound {
        t.Errorf("unknown restaurant: status = %d", rec.Code)
    }

    // table belonging to a different venue
    body = fmt.Sprintf(`{"restaurant_id":%d,"table_id":9999,"date":"2026-09-01","time":"19:30","guests":2}`, restaurant.ID)
    if rec := doRequest(t, e, http.MethodPost, "/v1/bookings", 7, body, nil); rec.Code != http.StatusNotFound {
        t.Errorf("unknown table: status = %d", rec.Code)
    }

    // inactive restaurant reads as not found
    if _, err := db.Exec("UPDATE restaurants SET is_active = 0 WHERE id = ?", restaurant.ID); err != nil {
        t.Fatalf("deactivate: %v", err)
    }
    body = fmt.Sprintf(`{"restaurant_id":%d,"table_id":%d,"date":"2026-09-01","time":"19:30","guests":2}`, restaurant.ID, table.ID)
    if rec := doRequest(t, e, http.MethodPost, "/v1/bookings", 7, body, nil); rec.Code != http.StatusNotFound {
        t.Errorf("inactive restaurant: status = %d", rec.Code)
    }
}

func TestCancelBooking(t *testing.T) {
    db := newTestDB(t)
    restaurant, table := seedVenue(t, db, 4)
    pub := &fakePublisher{}
    e := newTestServer(db, pub)

    body := fmt.Sprintf(`{"restaurant_id":%d,"table_id":%d,"date":"2026-09-01","time":"19:30","guests":2}`,
        restaurant.ID, table.ID)
    var created struct {
        BookingID uint64 `json:"booking_id"`
    }
    if rec := doRequest(t, e, http.MethodPost, "/v1/bookings", 7, body, &created); rec.Code != http.StatusCreated {
        t.Fatalf("create: status = %d", rec.Code)
    }

    cancelPath := fmt.Sprintf("/v1/bookings/%d/cancel", created.BookingID)

    // someone else's cancel attempt must 404 and change nothing
    if rec := doRequest(t, e, http.MethodPut, cancelPath, 8, "", nil); rec.Code != http.StatusNotFound {
        t.Errorf("foreign cancel: status = %d", rec.Code)
    }
    if got := tableStatus(t, db, table.ID); got != model.TableReserved {
        t.Errorf("table released by foreign cancel: %q", got)
    }

    var cancelled struct {
        BookingID uint64 `json:"booking_id"`
        Status    string `json:"status"`
    }
    rec := doRequest(t, e, http.MethodPut, cancelPath, 7, "", &cancelled)
    if rec.Code != http.StatusOK {
        t.Fatalf("cancel: status = %d body = %s", rec.Code, rec.Body.String())
    }
    if cancelled.Status != model.BookingCancelled {
        t.Errorf("status = %q, want CANCELLED", cancelled.Status)
    }
    if got := tableStatus(t, db, table.ID); got != model.TableAvailable {
        t.Errorf("table status = %q, want AVAILABLE", got)
    }

    // double cancel is a business rule violation, not a repeat success
    var errResp struct {
        Error string `json:"error"`
    }
    rec = doRequest(t, e, http.MethodPut, cancelPath, 7, "", &errResp)
    if rec.Code != http.StatusBadRequest {
        t.Fatalf("double cancel: status = %d", rec.Code)
    }
    if errResp.Error != "booking already cancelled" {
        t.Errorf("error = %q", errResp.Error)
    }

    // exactly two events: CONFIRMED then CANCELLED
    events := pub.published()
    if len(events) != 2 {
        t.Fatalf("published %d events, want 2", len(events))
    }
    if events[1].Status != model.BookingCancelled {
        t.Errorf("second event status = %q", events[1].Status)
    }
}

func TestGetAndListBookings(t *testing.T) {
    db := newTestDB(t)
    restaurant, table := seedVenue(t, db, 4)
    e := newTestServer(db, nil)

    body := fmt.Sprintf(`{"restaurant_id":%d,"table_id":%d,"date":"2026-09-01","time":"19:30","guests":2}`,
        restaurant.ID, table.ID)
    var created struct {
        BookingID uint64 `json:"booking_id"`
    }
    if rec := doRequest(t, e, http.MethodPost, "/v1/bookings", 7, body, &created); rec.Code != http.StatusCreated {
        t.Fatalf("create: status = %d", rec.Code)
    }

    var detail struct {
        ID             uint64 `json:"id"`
        RestaurantName string `json:"restaurant_name"`
        Status         string `json:"status"`
    }
    rec := doRequest(t, e, http.MethodGet, fmt.Sprintf("/v1/bookings/%d", created.BookingID), 7, "", &detail)
    if rec.Code != http.StatusOK {
        t.Fatalf("get: status = %d", rec.Code)
    }
    if detail.ID != created.BookingID || detail.RestaurantName != "Trattoria Roma" {
        t.Errorf("detail = %+v", detail)
    }

    // ownership on the detail endpoint
    if rec := doRequest(t, e, http.MethodGet, fmt.Sprintf("/v1/bookings/%d", created.BookingID), 8, "", nil); rec.Code != http.StatusNotFound {
        t.Errorf("foreign get: status = %d", rec.Code)
    }

    var list []struct {
        ID uint64 `json:"id"`
    }
    rec = doRequest(t, e, http.MethodGet, "/v1/bookings", 7, "", &list)
    if rec.Code != http.StatusOK {
        t.Fatalf("list: status = %d", rec.Code)
    }
    if len(list) != 1 || list[0].ID != created.BookingID {
        t.Errorf("list = %+v", list)
    }

    // a user with no bookings gets an empty array
    var empty []struct {
        ID uint64 `json:"id"`
    }
    rec = doRequest(t, e, http.MethodGet, "/v1/bookings", 8, "", &empty)
    if rec.Code != http.StatusOK || len(empty) != 0 {
        t.Errorf("empty list: status = %d body = %s", rec.Code, rec.Body.String())
    }
}
