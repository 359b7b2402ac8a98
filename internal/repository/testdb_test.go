package repository

import (
    "database/sql"
    "fmt"
    "sync/atomic"
    "testing"

    _ "modernc.org/sqlite"
)

var testDBSeq atomic.Uint64

// schemaDDL mirrors the production MySQL schema with portable types.
// The repositories use ? placeholders and pass timestamps from Go, so
// the same queries run against sqlite in tests.
const schemaDDL = `
CREATE TABLE restaurants (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    address TEXT NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT 1,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);
CREATE TABLE restaurant_tables (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    restaurant_id INTEGER NOT NULL,
    table_number INTEGER NOT NULL,
    capacity INTEGER NOT NULL,
    status TEXT NOT NULL,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);
CREATE TABLE bookings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    restaurant_id INTEGER NOT NULL,
    table_id INTEGER NOT NULL,
    booking_date TEXT NOT NULL,
    booking_time TEXT NOT NULL,
    guests INTEGER NOT NULL,
    special_requests TEXT,
    status TEXT NOT NULL,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);
CREATE TABLE notifications (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    title TEXT NOT NULL,
    message TEXT NOT NULL,
    type TEXT NOT NULL,
    is_read BOOLEAN NOT NULL DEFAULT 0,
    restaurant_id INTEGER,
    booking_id INTEGER,
    order_id INTEGER,
    created_at DATETIME NOT NULL
);
CREATE TABLE orders (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    restaurant_id INTEGER NOT NULL,
    order_type TEXT NOT NULL,
    status TEXT NOT NULL,
    total_amount REAL NOT NULL,
    created_at DATETIME NOT NULL
);
CREATE INDEX idx_notifications_user ON notifications(user_id);
CREATE INDEX idx_notifications_user_read ON notifications(user_id, is_read);
`

// newTestDB opens a fresh in-memory sqlite database with the schema
// applied.  Each call gets its own database; a single pooled
// connection keeps the in-memory store alive for the test's lifetime.
func newTestDB(t *testing.T) *sql.DB {
    t.Helper()
    dsn := fmt.Sprintf("file:repotest%d?mode=memory&cache=shared", testDBSeq.Add(1))
    db, err := sql.Open("sqlite", dsn)
    if err != nil {
        t.Fatalf("open sqlite: %v", err)
    }
    db.SetMaxOpenConns(1)
    if _, err := db.Exec(schemaDDL); err != nil {
        t.Fatalf("apply schema: %v", err)
    }
    t.Cleanup(func() { _ = db.Close() })
    return db
}
