package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"
)

// RestaurantRepo encapsulates all database queries related to
// restaurants.  It depends on a sql.DB connection which should be
// configured elsewhere.
type RestaurantRepo struct {
    db *sql.DB
}

// NewRestaurantRepo constructs a RestaurantRepo with the provided DB
// handle.  This function allows dependency injection of the database
// in tests and at startup.
func NewRestaurantRepo(db *sql.DB) *RestaurantRepo { return &RestaurantRepo{db: db} }

// DB exposes the underlying pool so handlers can open transactions
// spanning multiple repositories.
func (r *RestaurantRepo) DB() *sql.DB { return r.db }

// RestaurantRecord mirrors the schema of the restaurants table.
type RestaurantRecord struct {
    ID        uint64
    Name      string
    Address   string
    IsActive  bool
    CreatedAt time.Time
    UpdatedAt time.Time
}

// Create inserts a new restaurant and populates the generated ID and
// timestamp fields on the provided record.
func (r *RestaurantRepo) Create(ctx context.Context, rec *RestaurantRecord, now time.Time) error {
    const qInsert = `INSERT INTO restaurants (name, address, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, qInsert, rec.Name, rec.Address, rec.IsActive, now, now)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    rec.ID = uint64(id)
    rec.CreatedAt = now
    rec.UpdatedAt = now
    return nil
}

// GetActiveTx loads a restaurant by id inside the given transaction.
// It returns ErrRestaurantNotFound when the row is absent or the
// restaurant is marked inactive; an inactive venue must not accept
// new bookings.
func (r *RestaurantRepo) GetActiveTx(ctx context.Context, tx *sql.Tx, id uint64) (*RestaurantRecord, error) {
    const q = `SELECT id, name, address, is_active, created_at, updated_at FROM restaurants WHERE id = ?`
    var rec RestaurantRecord
    err := tx.QueryRowContext(ctx, q, id).Scan(
        &rec.ID, &rec.Name, &rec.Address, &rec.IsActive, &rec.CreatedAt, &rec.UpdatedAt,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrRestaurantNotFound
        }
        return nil, err
    }
    if !rec.IsActive {
        return nil, ErrRestaurantNotFound
    }
    return &rec, nil
}

// GetActive is the pool-backed variant of GetActiveTx for read paths
// that do not run inside a transaction.
func (r *RestaurantRepo) GetActive(ctx context.Context, id uint64) (*RestaurantRecord, error) {
    const q = `SELECT id, name, address, is_active, created_at, updated_at FROM restaurants WHERE id = ?`
    var rec RestaurantRecord
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &rec.ID, &rec.Name, &rec.Address, &rec.IsActive, &rec.CreatedAt, &rec.UpdatedAt,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrRestaurantNotFound
        }
        return nil, err
    }
    if !rec.IsActive {
        return nil, ErrRestaurantNotFound
    }
    return &rec, nil
}

// ListActive returns all active restaurants ordered by name.  Used by
// the public browse endpoint; inactive venues are hidden from guests.
func (r *RestaurantRepo) ListActive(ctx context.Context) ([]RestaurantRecord, error) {
    const q = `SELECT id, name, address, is_active, created_at, updated_at
               FROM restaurants
               WHERE is_active = ?
               ORDER BY name`
    rows, err := r.db.QueryContext(ctx, q, true)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]RestaurantRecord, 0)
    for rows.Next() {
        var rec RestaurantRecord
        if err := rows.Scan(&rec.ID, &rec.Name, &rec.Address, &rec.IsActive, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, rec)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}
