package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/iliyamo/restaurant-table-booking/internal/model"
)

// BookingRepo provides CRUD operations for bookings.  A booking ties
// a user to one table at a restaurant for a date and time.  Bookings
// are soft-cancelled only: rows are never deleted, cancellation flips
// the status column.  All timestamp fields are stored in UTC.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying pool so handlers can open transactions
// spanning the booking insert and the table status update.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// BookingRecord mirrors the schema of the bookings table.  It is used
// internally by the repository when constructing or scanning rows.
type BookingRecord struct {
    ID              uint64
    UserID          uint64
    RestaurantID    uint64
    TableID         uint64
    BookingDate     string
    BookingTime     string
    Guests          uint32
    SpecialRequests *string
    Status          string
    CreatedAt       time.Time
    UpdatedAt       time.Time
}

// CreateTx inserts a new booking within the scope of an existing
// transaction and populates the generated ID on the provided record.
// The caller must commit or rollback; the companion table status
// update belongs to the same transaction so a crash between the two
// writes cannot leave a reserved table without a booking or vice
// versa.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *BookingRecord, now time.Time) error {
    const q = `INSERT INTO bookings (user_id, restaurant_id, table_id, booking_date, booking_time, guests, special_requests, status, created_at, updated_at)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
    var special sql.NullString
    if b.SpecialRequests != nil {
        special = sql.NullString{String: *b.SpecialRequests, Valid: true}
    }
    res, err := tx.ExecContext(ctx, q,
        b.UserID, b.RestaurantID, b.TableID, b.BookingDate, b.BookingTime,
        b.Guests, special, b.Status, now, now,
    )
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = uint64(id)
    b.CreatedAt = now
    b.UpdatedAt = now
    return nil
}

// GetForUserTx loads a booking by id within a transaction, enforcing
// ownership.  It returns ErrBookingNotFound both when the row is
// absent and when it belongs to a different user.
func (r *BookingRepo) GetForUserTx(ctx context.Context, tx *sql.Tx, bookingID, userID uint64) (*BookingRecord, error) {
    const q = `SELECT id, user_id, restaurant_id, table_id, booking_date, booking_time, guests, special_requests, status, created_at, updated_at
               FROM bookings
               WHERE id = ? AND user_id = ?`
    var b BookingRecord
    var special sql.NullString
    err := tx.QueryRowContext(ctx, q, bookingID, userID).Scan(
        &b.ID, &b.UserID, &b.RestaurantID, &b.TableID, &b.BookingDate, &b.BookingTime,
        &b.Guests, &special, &b.Status, &b.CreatedAt, &b.UpdatedAt,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrBookingNotFound
        }
        return nil, err
    }
    if special.Valid {
        s := special.String
        b.SpecialRequests = &s
    }
    return &b, nil
}

// CancelTx flips a booking to CANCELLED and touches updated_at within
// the provided transaction.  It does not check the current status;
// callers load the row first and reject double cancellation with
// ErrAlreadyCancelled.
func (r *BookingRepo) CancelTx(ctx context.Context, tx *sql.Tx, bookingID uint64, now time.Time) error {
    const q = `UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?`
    _, err := tx.ExecContext(ctx, q, model.BookingCancelled, now, bookingID)
    return err
}

// BookingDetail is a booking joined with its restaurant and table for
// display to customers.
type BookingDetail struct {
    ID              uint64  `json:"id"`
    RestaurantID    uint64  `json:"restaurant_id"`
    RestaurantName  string  `json:"restaurant_name"`
    TableID         uint64  `json:"table_id"`
    TableNumber     uint32  `json:"table_number"`
    Date            string  `json:"date"`
    Time            string  `json:"time"`
    Guests          uint32  `json:"guests"`
    SpecialRequests *string `json:"special_requests,omitempty"`
    Status          string  `json:"status"`
    CreatedAt       string  `json:"created_at"`
}

// GetDetailForUser returns a single booking joined with restaurant and
// table details, enforcing ownership.  ErrBookingNotFound is returned
// when no booking with the given id exists for the user.
func (r *BookingRepo) GetDetailForUser(ctx context.Context, bookingID, userID uint64) (*BookingDetail, error) {
    const q = `SELECT b.id, b.restaurant_id, r.name, b.table_id, t.table_number,
                      b.booking_date, b.booking_time, b.guests, b.special_requests, b.status, b.created_at
               FROM bookings b
               JOIN restaurants r ON r.id = b.restaurant_id
               JOIN restaurant_tables t ON t.id = b.table_id
               WHERE b.id = ? AND b.user_id = ?`
    var d BookingDetail
    var special sql.NullString
    var createdAt time.Time
    err := r.db.QueryRowContext(ctx, q, bookingID, userID).Scan(
        &d.ID, &d.RestaurantID, &d.RestaurantName, &d.TableID, &d.TableNumber,
        &d.Date, &d.Time, &d.Guests, &special, &d.Status, &createdAt,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrBookingNotFound
        }
        return nil, err
    }
    if special.Valid {
        s := special.String
        d.SpecialRequests = &s
    }
    d.CreatedAt = createdAt.UTC().Format(time.RFC3339)
    return &d, nil
}

// ListByUser returns all bookings for the given user joined with
// restaurant and table details, ordered by creation time descending
// (newest first).  When no bookings exist, an empty slice is
// returned.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
    const q = `SELECT b.id, b.restaurant_id, r.name, b.table_id, t.table_number,
                      b.booking_date, b.booking_time, b.guests, b.special_requests, b.status, b.created_at
               FROM bookings b
               JOIN restaurants r ON r.id = b.restaurant_id
               JOIN restaurant_tables t ON t.id = b.table_id
               WHERE b.user_id = ?
               ORDER BY b.created_at DESC, b.id DESC`
    rows, err := r.db.QueryContext(ctx, q, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    details := make([]BookingDetail, 0)
    for rows.Next() {
        var d BookingDetail
        var special sql.NullString
        var createdAt time.Time
        if err := rows.Scan(
            &d.ID, &d.RestaurantID, &d.RestaurantName, &d.TableID, &d.TableNumber,
            &d.Date, &d.Time, &d.Guests, &special, &d.Status, &createdAt,
        ); err != nil {
            return nil, err
        }
        if special.Valid {
            s := special.String
            d.SpecialRequests = &s
        }
        d.CreatedAt = createdAt.UTC().Format(time.RFC3339)
        details = append(details, d)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return details, nil
}
