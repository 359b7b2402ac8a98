package model

import "time"

// Restaurant represents a venue that accepts table bookings.
// A restaurant owns a set of tables and is referenced by bookings
// and notifications.  This struct corresponds to a row in the
// `restaurants` table.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – human-friendly restaurant name.
//  Address   – street address shown to customers.
//  IsActive  – whether the restaurant currently accepts bookings.
//  CreatedAt – timestamp when the restaurant was created.
//  UpdatedAt – timestamp of last update.
type Restaurant struct {
    ID        uint64    // restaurants.id
    Name      string    // restaurants.name
    Address   string    // restaurants.address
    IsActive  bool      // restaurants.is_active
    CreatedAt time.Time // restaurants.created_at
    UpdatedAt time.Time // restaurants.updated_at
}
