package model

import "time"

// Booking records a customer's reservation of a table for a given
// date and time.  Bookings are owned by the requesting user and are
// never deleted; cancellation flips the status and releases the
// table.  This struct corresponds to a row in the `bookings` table.
//
// Fields:
//  ID              – primary key identifier.
//  UserID          – user who made the booking.
//  RestaurantID    – restaurant being booked.
//  TableID         – table being reserved.
//  BookingDate     – calendar date in YYYY-MM-DD form.
//  BookingTime     – 24-hour clock time in HH:MM form.
//  Guests          – number of guests (1-20).
//  SpecialRequests – optional free-form request text (≤500 chars).
//  Status          – state of the booking (CONFIRMED, CANCELLED).
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Booking struct {
    ID              uint64    // bookings.id
    UserID          uint64    // bookings.user_id
    RestaurantID    uint64    // bookings.restaurant_id
    TableID         uint64    // bookings.table_id
    BookingDate     string    // bookings.booking_date
    BookingTime     string    // bookings.booking_time
    Guests          uint32    // bookings.guests
    SpecialRequests *string   // bookings.special_requests (nullable)
    Status          string    // bookings.status
    CreatedAt       time.Time // bookings.created_at
    UpdatedAt       time.Time // bookings.updated_at
}

// Booking status values persisted in bookings.status.
const (
    BookingConfirmed = "CONFIRMED"
    BookingCancelled = "CANCELLED"
)
