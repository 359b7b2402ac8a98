package repository

import (
    "context"
    "database/sql"
    "time"
)

// NotificationRepo reads and mutates user notifications.  Rows are
// written by the queue consumer when booking or order events arrive;
// this service never creates notifications on behalf of an HTTP
// request.  Queries assume indexes on notifications(user_id),
// notifications(created_at) and notifications(user_id, is_read).
type NotificationRepo struct {
    db *sql.DB
}

// NewNotificationRepo returns a new NotificationRepo bound to the given database.
func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{db: db} }

// NotificationRecord mirrors the schema of the notifications table.
// The three reference columns are nullable and mutually independent.
type NotificationRecord struct {
    ID           uint64
    UserID       uint64
    Title        string
    Message      string
    Type         string
    IsRead       bool
    RestaurantID *uint64
    BookingID    *uint64
    OrderID      *uint64
    CreatedAt    time.Time
}

// RelatedBooking carries the booking context joined onto a
// notification.  Present in the enriched view only when the booking
// link exists and the booking row is still there.
type RelatedBooking struct {
    BookingID   uint64 `json:"booking_id"`
    Date        string `json:"date"`
    Time        string `json:"time"`
    TableNumber uint32 `json:"table_number"`
}

// RelatedOrder carries the order context joined onto a notification.
type RelatedOrder struct {
    OrderID     uint64  `json:"order_id"`
    OrderType   string  `json:"order_type"`
    Status      string  `json:"status"`
    TotalAmount float64 `json:"total_amount"`
}

// EnrichedNotification is a notification joined with optional
// restaurant, booking and order context.  Missing join targets
// degrade to null fields, never to an error: a notification must stay
// readable even after the row it once pointed at is gone.
type EnrichedNotification struct {
    ID                uint64          `json:"id"`
    Title             string          `json:"title"`
    Message           string          `json:"message"`
    Type              string          `json:"type"`
    IsRead            bool            `json:"is_read"`
    CreatedAt         string          `json:"created_at"`
    RestaurantName    *string         `json:"restaurant_name"`
    RestaurantAddress *string         `json:"restaurant_address"`
    Booking           *RelatedBooking `json:"booking,omitempty"`
    Order             *RelatedOrder   `json:"order,omitempty"`
}

// Create inserts a notification row.  Used by the queue consumer and
// by tests; there is no HTTP surface for creating notifications.
func (r *NotificationRepo) Create(ctx context.Context, n *NotificationRecord, now time.Time) error {
    const q = `INSERT INTO notifications (user_id, title, message, type, is_read, restaurant_id, booking_id, order_id, created_at)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q,
        n.UserID, n.Title, n.Message, n.Type, n.IsRead,
        nullableID(n.RestaurantID), nullableID(n.BookingID), nullableID(n.OrderID), now,
    )
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    n.ID = uint64(id)
    n.CreatedAt = now
    return nil
}

// ListByUser returns up to limit notifications for the user, newest
// first, enriched with restaurant, booking and order context via
// LEFT JOINs.  When unreadOnly is set, read rows are filtered out.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID uint64, limit int, unreadOnly bool) ([]EnrichedNotification, error) {
    q := `SELECT n.id, n.title, n.message, n.type, n.is_read, n.created_at,
                 r.name, r.address,
                 b.id, b.booking_date, b.booking_time, t.table_number,
                 o.id, o.order_type, o.status, o.total_amount
          FROM notifications n
          LEFT JOIN restaurants r ON r.id = n.restaurant_id
          LEFT JOIN bookings b ON b.id = n.booking_id
          LEFT JOIN restaurant_tables t ON t.id = b.table_id
          LEFT JOIN orders o ON o.id = n.order_id
          WHERE n.user_id = ?`
    args := []interface{}{userID}
    if unreadOnly {
        q += ` AND n.is_read = ?`
        args = append(args, false)
    }
    q += ` ORDER BY n.created_at DESC, n.id DESC LIMIT ?`
    args = append(args, limit)

    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := make([]EnrichedNotification, 0)
    for rows.Next() {
        var (
            e           EnrichedNotification
            createdAt   time.Time
            rName       sql.NullString
            rAddress    sql.NullString
            bID         sql.NullInt64
            bDate       sql.NullString
            bTime       sql.NullString
            tNumber     sql.NullInt64
            oID         sql.NullInt64
            oType       sql.NullString
            oStatus     sql.NullString
            oTotal      sql.NullFloat64
        )
        if err := rows.Scan(
            &e.ID, &e.Title, &e.Message, &e.Type, &e.IsRead, &createdAt,
            &rName, &rAddress,
            &bID, &bDate, &bTime, &tNumber,
            &oID, &oType, &oStatus, &oTotal,
        ); err != nil {
            return nil, err
        }
        e.CreatedAt = createdAt.UTC().Format(time.RFC3339)
        if rName.Valid {
            name := rName.String
            e.RestaurantName = &name
        }
        if rAddress.Valid {
            addr := rAddress.String
            e.RestaurantAddress = &addr
        }
        if bID.Valid {
            rb := RelatedBooking{BookingID: uint64(bID.Int64), Date: bDate.String, Time: bTime.String}
            if tNumber.Valid {
                rb.TableNumber = uint32(tNumber.Int64)
            }
            e.Booking = &rb
        }
        if oID.Valid {
            e.Order = &RelatedOrder{
                OrderID:     uint64(oID.Int64),
                OrderType:   oType.String,
                Status:      oStatus.String,
                TotalAmount: oTotal.Float64,
            }
        }
        out = append(out, e)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// CountUnread returns the number of unread notifications for the
// user.  The count is independent of any limit applied to the list.
func (r *NotificationRepo) CountUnread(ctx context.Context, userID uint64) (int, error) {
    const q = `SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = ?`
    var n int
    err := r.db.QueryRowContext(ctx, q, userID, false).Scan(&n)
    return n, err
}

// CountTotal returns the total number of notifications for the user.
func (r *NotificationRepo) CountTotal(ctx context.Context, userID uint64) (int, error) {
    const q = `SELECT COUNT(*) FROM notifications WHERE user_id = ?`
    var n int
    err := r.db.QueryRowContext(ctx, q, userID).Scan(&n)
    return n, err
}

// MarkRead flips is_read for a single notification owned by the user.
// The existence check runs first because an UPDATE that changes
// nothing reports zero affected rows on MySQL, which would make a
// repeated call look like a miss.  Marking an already-read row again
// is not an error.
func (r *NotificationRepo) MarkRead(ctx context.Context, notificationID, userID uint64) error {
    const sel = `SELECT id FROM notifications WHERE id = ? AND user_id = ?`
    var id uint64
    if err := r.db.QueryRowContext(ctx, sel, notificationID, userID).Scan(&id); err != nil {
        if err == sql.ErrNoRows {
            return ErrNotificationNotFound
        }
        return err
    }
    const upd = `UPDATE notifications SET is_read = ? WHERE id = ? AND user_id = ?`
    _, err := r.db.ExecContext(ctx, upd, true, notificationID, userID)
    return err
}

// MarkAllRead flips is_read for every unread notification owned by
// the user.  Having nothing unread is a no-op, not an error.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID uint64) error {
    const q = `UPDATE notifications SET is_read = ? WHERE user_id = ? AND is_read = ?`
    _, err := r.db.ExecContext(ctx, q, true, userID, false)
    return err
}

// nullableID converts an optional reference into a driver-friendly value.
func nullableID(v *uint64) interface{} {
    if v == nil {
        return nil
    }
    return *v
}
