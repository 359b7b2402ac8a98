package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/iliyamo/restaurant-table-booking/internal/model"
)

// TableRepo provides lookups and status transitions for restaurant
// tables.  The status column is the coarse availability flag flipped
// by the booking flow: AVAILABLE -> RESERVED on creation and back on
// cancellation.  There is no per-date/time slot modelling; the flag
// is table-global, which means bookings on different dates contend
// for the same table.  That is a known limitation of the source data
// model, preserved here rather than silently redesigned.
type TableRepo struct {
    db *sql.DB
}

// NewTableRepo returns a new TableRepo bound to the given database.
func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

// TableRecord mirrors the schema of the restaurant_tables table.
type TableRecord struct {
    ID           uint64
    RestaurantID uint64
    TableNumber  uint32
    Capacity     uint32
    Status       string
    CreatedAt    time.Time
    UpdatedAt    time.Time
}

// Create inserts a new table for a restaurant.  New tables start
// AVAILABLE.  The generated ID is populated on the record.
func (r *TableRepo) Create(ctx context.Context, rec *TableRecord, now time.Time) error {
    const q = `INSERT INTO restaurant_tables (restaurant_id, table_number, capacity, status, created_at, updated_at)
               VALUES (?, ?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, rec.RestaurantID, rec.TableNumber, rec.Capacity, model.TableAvailable, now, now)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    rec.ID = uint64(id)
    rec.Status = model.TableAvailable
    rec.CreatedAt = now
    rec.UpdatedAt = now
    return nil
}

// GetForRestaurantTx loads a table by id inside the given transaction
// and verifies it belongs to the expected restaurant.  It returns
// ErrTableNotFound when the row is absent or belongs to a different
// venue; the caller cannot distinguish the two cases and should not.
func (r *TableRepo) GetForRestaurantTx(ctx context.Context, tx *sql.Tx, tableID, restaurantID uint64) (*TableRecord, error) {
    const q = `SELECT id, restaurant_id, table_number, capacity, status, created_at, updated_at
               FROM restaurant_tables
               WHERE id = ? AND restaurant_id = ?`
    var rec TableRecord
    err := tx.QueryRowContext(ctx, q, tableID, restaurantID).Scan(
        &rec.ID, &rec.RestaurantID, &rec.TableNumber, &rec.Capacity, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrTableNotFound
        }
        return nil, err
    }
    return &rec, nil
}

// UpdateStatusTx transitions a table's availability flag within the
// provided transaction.  The caller must commit or rollback.
func (r *TableRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, tableID uint64, status string, now time.Time) error {
    const q = `UPDATE restaurant_tables SET status = ?, updated_at = ? WHERE id = ?`
    _, err := tx.ExecContext(ctx, q, status, now, tableID)
    return err
}

// ListByRestaurant returns all tables of a restaurant ordered by
// table number.  Used by the public browse endpoint.
func (r *TableRepo) ListByRestaurant(ctx context.Context, restaurantID uint64) ([]TableRecord, error) {
    const q = `SELECT id, restaurant_id, table_number, capacity, status, created_at, updated_at
               FROM restaurant_tables
               WHERE restaurant_id = ?
               ORDER BY table_number`
    rows, err := r.db.QueryContext(ctx, q, restaurantID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]TableRecord, 0)
    for rows.Next() {
        var rec TableRecord
        if err := rows.Scan(&rec.ID, &rec.RestaurantID, &rec.TableNumber, &rec.Capacity, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, rec)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}
