package handler

import (
    "context"
    "database/sql"
    "encoding/json"
    "fmt"
    "io"
    "net/http/httptest"
    "strconv"
    "strings"
    "sync"
    "sync/atomic"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    _ "modernc.org/sqlite"

    "github.com/iliyamo/restaurant-table-booking/internal/queue"
    "github.com/iliyamo/restaurant-table-booking/internal/repository"
)

var handlerTestDBSeq atomic.Uint64

const handlerSchemaDDL = `
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
`

func newTestDB(t *testing.T) *sql.DB {
    t.Helper()
    dsn := fmt.Sprintf("file:handlertest%d?mode=memory&cache=shared", handlerTestDBSeq.Add(1))
    db, err := sql.Open("sqlite", dsn)
    if err != nil {
        t.Fatalf("open sqlite: %v", err)
    }
    db.SetMaxOpenConns(1)
    if _, err := db.Exec(handlerSchemaDDL); err != nil {
        t.Fatalf("apply schema: %v", err)
    }
    t.Cleanup(func() { _ = db.Close() })
    return db
}

// fakePublisher records booking events instead of talking to a broker.
type fakePublisher struct {
    mu     sync.Mutex
    events []queue.BookingStatusEvent
}

func (f *fakePublisher) PublishBookingStatus(_ context.Context, ev queue.BookingStatusEvent) error {
    f.mu.Lock()
    defer f.mu.Unlock()
    f.events = append(f.events, ev)
    return nil
}

func (f *fakePublisher) published() []queue.BookingStatusEvent {
    f.mu.Lock()
    defer f.mu.Unlock()
    out := make([]queue.BookingStatusEvent, len(f.events))
    copy(out, f.events)
    return out
}

// testAuth injects user_id from the X-Test-User header, standing in
// for the JWT middleware so handlers can be exercised without tokens.
func testAuth(next echo.HandlerFunc) echo.HandlerFunc {
    return func(c echo.Context) error {
        if raw := c.Request().Header.Get("X-Test-User"); raw != "" {
            if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
                c.Set("user_id", id)
            }
        }
        return next(c)
    }
}

// newTestServer wires the customer routes against the given database
// with the fake auth middleware.
func newTestServer(db *sql.DB, events StatusPublisher) *echo.Echo {
    restaurantRepo := repository.NewRestaurantRepo(db)
    tableRepo := repository.NewTableRepo(db)
    bookingRepo := repository.NewBookingRepo(db)
    notificationRepo := repository.NewNotificationRepo(db)

    b := NewBookingHandler(restaurantRepo, tableRepo, bookingRepo, events)
    n := NewNotificationHandler(notificationRepo)

    e := echo.New()
    g := e.Group("/v1", testAuth)
    g.GET("/bookings/notifications", n.GetNotifications)
    g.GET("/bookings/notifications/unread-count", n.GetUnreadCount)
    g.PUT("/bookings/notifications/mark-all-read", n.MarkAllRead)
    g.PUT("/bookings/notifications/:id/read", n.MarkRead)
    g.POST("/bookings", b.CreateBooking)
    g.GET("/bookings", b.ListBookings)
    g.GET("/bookings/:id", b.GetBooking)
    g.PUT("/bookings/:id/cancel", b.CancelBooking)
    return e
}

// doRequest performs one request as the given user and decodes the
// JSON body into out when non-nil.
func doRequest(t *testing.T, e *echo.Echo, method, path string, userID uint64, body string, out interface{}) *httptest.ResponseRecorder {
    t.Helper()
    var rd io.Reader
    if body != "" {
        rd = strings.NewReader(body)
    }
    req := httptest.NewRequest(method, path, rd)
    if body != "" {
        req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    }
    if userID != 0 {
        req.Header.Set("X-Test-User", strconv.FormatUint(userID, 10))
    }
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    if out != nil {
        if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
            t.Fatalf("decode response %q: %v", rec.Body.String(), err)
        }
    }
    return rec
}

// seedVenue inserts an active restaurant with one table.
func seedVenue(t *testing.T, db *sql.DB, capacity uint32) (*repository.RestaurantRecord, *repository.TableRecord) {
    t.Helper()
    ctx := context.Background()
    now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

    restaurant := &repository.RestaurantRecord{Name: "Trattoria Roma", Address: "12 Via Appia", IsActive: true}
    if err := repository.NewRestaurantRepo(db).Create(ctx, restaurant, now); err != nil {
        t.Fatalf("create restaurant: %v", err)
    }
    table := &repository.TableRecord{RestaurantID: restaurant.ID, TableNumber: 5, Capacity: capacity}
    if err := repository.NewTableRepo(db).Create(ctx, table, now); err != nil {
        t.Fatalf("create table: %v", err)
    }
    return restaurant, table
}

// tableStatus reads the current availability flag of a table.
func tableStatus(t *testing.T, db *sql.DB, tableID uint64) string {
    t.Helper()
    var status string
    if err := db.QueryRow("SELECT status FROM restaurant_tables WHERE id = ?", tableID).Scan(&status); err != nil {
        t.Fatalf("read table status: %v", err)
    }
    return status
}

// bookingCount counts rows in the bookings table.
func bookingCount(t *testing.T, db *sql.DB) int {
    t.Helper()
    var n int
    if err := db.QueryRow("SELECT COUNT(*) FROM bookings").Scan(&n); err != nil {
        t.Fatalf("count bookings: %v", err)
    }
    return n
}
