package handler // handler defines http handlers

import (
    "context"
    "errors"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/lehoang/visit-registration/internal/model"
    "github.com/lehoang/visit-registration/internal/queue"
    "github.com/lehoang/visit-registration/internal/repository"
)

// RegistrationStore is the slice of the registration repository the
// handlers depend on.  Tests substitute fakes built from function
// fields.
type RegistrationStore interface {
    Create(ctx context.Context, reg *model.Registration, now time.Time) error
    GetByID(ctx context.Context, id string) (model.Registration, error)
    List(ctx context.Context, f repository.ListFilter) ([]model.Registration, error)
    UpdateStatus(ctx context.Context, id, status string, now time.Time) (model.Registration, error)
    Delete(ctx context.Context, id string) error
    CountByDate(ctx context.Context, date string) (int, error)
    CountByDateAndFloor(ctx context.Context, date, floor string) (int, error)
}

// ConfigStore loads and replaces the singleton form configuration.
type ConfigStore interface {
    Get(ctx context.Context) (model.FormConfig, error)
    Save(ctx context.Context, cfg model.FormConfig) (model.FormConfig, error)
}

// EmailConfigStore persists per-admin SMTP credentials.
type EmailConfigStore interface {
    GetByUser(ctx context.Context, userID uint64) (model.EmailConfig, error)
    Upsert(ctx context.Context, cfg model.EmailConfig) error
}

// UserStore is the slice of the user repository the auth handlers use.
type UserStore interface {
    Create(ctx context.Context, username, email, password, role string, cost int) (uint64, error)
    GetByUsername(ctx context.Context, username string) (model.User, error)
    GetByID(ctx context.Context, id uint64) (model.User, error)
    Count(ctx context.Context) (int, error)
}

// Notifier hands a notification event to the background mail pipeline.
// Implementations must not block the request.
type Notifier interface {
    Notify(event queue.NotificationEvent)
}

// getUserID extracts the user_id from echo.Context and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
    switch t := c.Get("user_id").(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// validDate reports whether s is a well-formed YYYY-MM-DD day.
func validDate(s string) bool {
    _, err := time.Parse("2006-01-02", s)
    return err == nil
}
