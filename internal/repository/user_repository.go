package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"
    "time"

    "github.com/iliyamo/restaurant-table-booking/internal/utils"
)

// UserRepo reads and creates accounts.  Emails are normalized to
// lower case before every query so lookups are case-insensitive.
type UserRepo struct {
    db *sql.DB
}

// NewUserRepo returns a new UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// ErrEmailExists is returned when registering with a taken email.
var ErrEmailExists = errors.New("email already exists")

// User mirrors the schema of the users table.
type User struct {
    ID           uint64
    Email        string
    PasswordHash string
    Role         string
    IsActive     bool
    CreatedAt    time.Time
    UpdatedAt    time.Time
}

// Create hashes the password and inserts the user, returning the
// generated id.  A duplicate email maps to ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, email, password, role string, cost int) (uint64, error) {
    email = strings.ToLower(strings.TrimSpace(email))
    hash, err := utils.HashPassword(password, cost)
    if err != nil {
        return 0, err
    }
    const q = `INSERT INTO users (email, password_hash, role) VALUES (?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, email, hash, role)
    if err != nil {
        // MySQL duplicate key error code
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return 0, ErrEmailExists
        }
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (User, error) {
    email = strings.ToLower(strings.TrimSpace(email))
    const q = `SELECT id, email, password_hash, role, is_active, created_at, updated_at FROM users WHERE email = ? LIMIT 1`
    var u User
    err := r.db.QueryRowContext(ctx, q, email).Scan(
        &u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
    )
    return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (User, error) {
    const q = `SELECT id, email, password_hash, role, is_active, created_at, updated_at FROM users WHERE id = ? LIMIT 1`
    var u User
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
    )
    return u, err
}
