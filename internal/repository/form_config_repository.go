package repository

import (
    "context"
    "database/sql"
    "encoding/json"
    "errors"
    "log"
    "time"

    "github.com/lehoang/visit-registration/internal/model"
)

// FormConfigRepo persists the singleton form configuration as a JSON
// document in the form_configs table.  There is exactly one
// authoritative row; saves replace it wholesale.
type FormConfigRepo struct {
    db *sql.DB
}

// NewFormConfigRepo returns a new FormConfigRepo bound to the given database.
func NewFormConfigRepo(db *sql.DB) *FormConfigRepo { return &FormConfigRepo{db: db} }

// Get loads the stored configuration.  When no row exists yet, the
// default configuration is inserted and returned, so the first read
// initializes the record exactly once (the insert ignores a concurrent
// duplicate).  When the stored blob cannot be decoded or fails
// validation the in-memory default is returned instead of failing the
// request; the fault is logged.
func (r *FormConfigRepo) Get(ctx context.Context) (model.FormConfig, error) {
    const q = `SELECT data, updated_at FROM form_configs WHERE id = ?`
    var raw []byte
    var updatedAt time.Time
    err := r.db.QueryRowContext(ctx, q, model.FormConfigID).Scan(&raw, &updatedAt)
    if errors.Is(err, sql.ErrNoRows) {
        cfg := model.DefaultFormConfig()
        if err := r.insertDefault(ctx, cfg); err != nil {
            return model.FormConfig{}, err
        }
        return cfg, nil
    }
    if err != nil {
        return model.FormConfig{}, err
    }
    var cfg model.FormConfig
    if err := json.Unmarshal(raw, &cfg); err != nil {
        log.Printf("form config: stored blob unreadable, using defaults: %v", err)
        return model.DefaultFormConfig(), nil
    }
    if err := cfg.Validate(); err != nil {
        log.Printf("form config: stored blob invalid, using defaults: %v", err)
        return model.DefaultFormConfig(), nil
    }
    cfg.UpdatedAt = updatedAt
    return cfg, nil
}

// Save validates and stores the configuration, replacing any previous
// value (last writer wins).
func (r *FormConfigRepo) Save(ctx context.Context, cfg model.FormConfig) (model.FormConfig, error) {
    if err := cfg.Validate(); err != nil {
        return model.FormConfig{}, err
    }
    now := time.Now().UTC()
    cfg.UpdatedAt = now
    raw, err := json.Marshal(cfg)
    if err != nil {
        return model.FormConfig{}, err
    }
    const q = `INSERT INTO form_configs (id, data, updated_at) VALUES (?, ?, ?)
               ON DUPLICATE KEY UPDATE data = VALUES(data), updated_at = VALUES(updated_at)`
    if _, err := r.db.ExecContext(ctx, q, model.FormConfigID, raw, now); err != nil {
        return model.FormConfig{}, err
    }
    return cfg, nil
}

func (r *FormConfigRepo) insertDefault(ctx context.Context, cfg model.FormConfig) error {
    raw, err := json.Marshal(cfg)
    if err != nil {
        return err
    }
    const q = `INSERT IGNORE INTO form_configs (id, data, updated_at) VALUES (?, ?, ?)`
    _, err = r.db.ExecContext(ctx, q, model.FormConfigID, raw, time.Now().UTC())
    return err
}
