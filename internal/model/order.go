package model

import "time"

// Order is a food order placed with a restaurant.  Orders are created
// and progressed by systems outside this service; they appear here
// only as enrichment targets for notifications.
type Order struct {
    ID           uint64    // orders.id
    UserID       uint64    // orders.user_id
    RestaurantID uint64    // orders.restaurant_id
    OrderType    string    // orders.order_type (e.g. DINE_IN, TAKEAWAY)
    Status       string    // orders.status
    TotalAmount  float64   // orders.total_amount
    CreatedAt    time.Time // orders.created_at
}
