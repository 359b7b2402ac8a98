package model

import "time"

// Notification is a message shown to a user about booking or order
// state changes.  Rows are written by the queue consumer when a
// domain event arrives; the HTTP layer only reads them and flips the
// read flag.  The restaurant/booking/order references are optional
// and mutually independent: a missing join target degrades the
// enriched view to null fields, never to an error.
//
// Fields:
//  ID           – primary key identifier.
//  UserID       – user the notification is addressed to.
//  Title        – short headline.
//  Message      – full notification text.
//  Type         – category (SUCCESS, ERROR, INFO or another label).
//  IsRead       – whether the user has read the notification.
//  RestaurantID – optional related restaurant.
//  BookingID    – optional related booking.
//  OrderID      – optional related order.
//  CreatedAt    – creation timestamp.
type Notification struct {
    ID           uint64    // notifications.id
    UserID       uint64    // notifications.user_id
    Title        string    // notifications.title
    Message      string    // notifications.message
    Type         string    // notifications.type
    IsRead       bool      // notifications.is_read
    RestaurantID *uint64   // notifications.restaurant_id (nullable)
    BookingID    *uint64   // notifications.booking_id (nullable)
    OrderID      *uint64   // notifications.order_id (nullable)
    CreatedAt    time.Time // notifications.created_at
}
