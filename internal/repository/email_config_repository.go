package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/lehoang/visit-registration/internal/model"
)

// EmailConfigRepo stores per-admin SMTP credentials.  One row per
// user; the notification consumer reads these when sending "as" the
// admin who approved or rejected a registration.
type EmailConfigRepo struct {
    db *sql.DB
}

// NewEmailConfigRepo returns a new EmailConfigRepo bound to the given database.
func NewEmailConfigRepo(db *sql.DB) *EmailConfigRepo { return &EmailConfigRepo{db: db} }

// GetByUser loads the SMTP configuration for one admin.  ErrNotFound
// when the admin has no stored configuration.
func (r *EmailConfigRepo) GetByUser(ctx context.Context, userID uint64) (model.EmailConfig, error) {
    const q = `SELECT user_id, host, port, secure, email, password, updated_at
               FROM email_configs WHERE user_id = ?`
    var c model.EmailConfig
    err := r.db.QueryRowContext(ctx, q, userID).Scan(
        &c.UserID, &c.Host, &c.Port, &c.Secure, &c.Email, &c.Password, &c.UpdatedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return model.EmailConfig{}, ErrNotFound
    }
    return c, err
}

// Upsert replaces the SMTP configuration for one admin.
func (r *EmailConfigRepo) Upsert(ctx context.Context, c model.EmailConfig) error {
    const q = `INSERT INTO email_configs (user_id, host, port, secure, email, password, updated_at)
               VALUES (?, ?, ?, ?, ?, ?, ?)
               ON DUPLICATE KEY UPDATE host = VALUES(host), port = VALUES(port),
                   secure = VALUES(secure), email = VALUES(email),
                   password = VALUES(password), updated_at = VALUES(updated_at)`
    _, err := r.db.ExecContext(ctx, q,
        c.UserID, c.Host, c.Port, c.Secure, c.Email, c.Password, time.Now().UTC())
    return err
}
