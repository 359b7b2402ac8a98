package repository

import (
    "context"
    "database/sql"
    "time"
)

// TokenRepo persists refresh token hashes.  Only the SHA-256 hash of
// a refresh token is ever stored; the raw value lives client-side.
type TokenRepo struct {
    db *sql.DB
}

// NewTokenRepo returns a new TokenRepo bound to the given database.
func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{db: db} }

// StoreRefresh inserts a refresh token hash row.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
    const q = `INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?, ?, ?)`
    _, err := r.db.ExecContext(ctx, q, userID, tokenHash, exp)
    return err
}

// ValidateRefresh returns the owning user when a non-revoked,
// non-expired token with the given hash exists.  Revoked and expired
// tokens read the same as missing ones.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
    const q = `SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash = ? LIMIT 1`
    var (
        userID    uint64
        expiresAt time.Time
        revokedAt sql.NullTime
    )
    err := r.db.QueryRowContext(ctx, q, tokenHash).Scan(&userID, &expiresAt, &revokedAt)
    if err != nil {
        return 0, err
    }
    if revokedAt.Valid || time.Now().UTC().After(expiresAt) {
        return 0, sql.ErrNoRows
    }
    return userID, nil
}

// RevokeByHash marks a single token as revoked.  Revoking an already
// revoked token changes nothing.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
    const q = `UPDATE refresh_tokens SET revoked_at = ? WHERE token_hash = ? AND revoked_at IS NULL`
    _, err := r.db.ExecContext(ctx, q, time.Now().UTC(), tokenHash)
    return err
}

// RevokeAllForUser revokes every active token of a user.  Used when a
// compromised account needs all sessions terminated at once.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
    const q = `UPDATE refresh_tokens SET revoked_at = ? WHERE user_id = ? AND revoked_at IS NULL`
    _, err := r.db.ExecContext(ctx, q, time.Now().UTC(), userID)
    return err
}
