package model

import "time"

// Table describes a physical table inside a restaurant.  Tables are
// the shared resource mutated by the booking flow: creating a booking
// moves a table from AVAILABLE to RESERVED and cancelling moves it
// back.  The status flag is table-global, not scoped to a date/time
// slot, so two bookings on different dates still contend for the same
// flag.  That limitation is inherited from the source system and is
// deliberately not papered over here.
//
// Fields:
//  ID           – primary key identifier.
//  RestaurantID – restaurant to which this table belongs.
//  TableNumber  – number of the table within the restaurant.
//  Capacity     – maximum number of guests the table seats.
//  Status       – availability status (AVAILABLE, RESERVED).
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Table struct {
    ID           uint64    // restaurant_tables.id
    RestaurantID uint64    // restaurant_tables.restaurant_id
    TableNumber  uint32    // restaurant_tables.table_number
    Capacity     uint32    // restaurant_tables.capacity
    Status       string    // restaurant_tables.status
    CreatedAt    time.Time // restaurant_tables.created_at
    UpdatedAt    time.Time // restaurant_tables.updated_at
}

// Table status values persisted in restaurant_tables.status.
const (
    TableAvailable = "AVAILABLE"
    TableReserved  = "RESERVED"
)
