// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingStatusEvent is published when a booking is created or
// cancelled. It carries enough context for downstream consumers to
// build a user-facing notification without querying the primary
// database.
type BookingStatusEvent struct {
    BookingID      uint64 `json:"booking_id"`
    UserID         uint64 `json:"user_id"`
    RestaurantID   uint64 `json:"restaurant_id"`
    RestaurantName string `json:"restaurant_name"`
    TableNumber    uint32 `json:"table_number"`
    Date           string `json:"date"`
    Time           string `json:"time"`
    Guests         uint32 `json:"guests"`
    Status         string `json:"status"` // CONFIRMED or CANCELLED
    OccurredAt     string `json:"occurred_at"`
}

// OrderStatusEvent is published by the ordering system when a food
// order changes state. This service only consumes it to create a
// notification; the order itself lives elsewhere.
type OrderStatusEvent struct {
    OrderID        uint64  `json:"order_id"`
    UserID         uint64  `json:"user_id"`
    RestaurantID   uint64  `json:"restaurant_id"`
    RestaurantName string  `json:"restaurant_name"`
    OrderType      string  `json:"order_type"`
    Status         string  `json:"status"`
    TotalAmount    float64 `json:"total_amount"`
    OccurredAt     string  `json:"occurred_at"`
}
