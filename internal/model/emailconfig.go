package model

import "time"

// EmailConfig holds per-admin SMTP credentials.  Notification emails
// for a status change are sent "as" the admin who performed the
// change; when the admin has no stored config the process-wide SMTP
// settings from the environment are used instead.
type EmailConfig struct {
    UserID    uint64    `json:"userId"`
    Host      string    `json:"host"`
    Port      int       `json:"port"`
    Secure    bool      `json:"secure"`
    Email     string    `json:"email"`
    Password  string    `json:"-"`
    UpdatedAt time.Time `json:"updatedAt"`
}
