package model

import (
    "errors"
    "fmt"
    "time"
)

// FormConfigID is the well-known identifier of the singleton form
// configuration record.  Exactly one configuration is authoritative at
// a time; saves replace it wholesale (last writer wins).
const FormConfigID = "default"

// FormSchedule restricts the days and hours during which the public
// form accepts submissions.  When Enabled is false the form is always
// open (unless manually closed).  OpenDays holds weekday numbers in
// the 0–6 range where 0 is Sunday.
type FormSchedule struct {
    Enabled       bool   `json:"enabled"`
    OpenTime      string `json:"openTime"`
    CloseTime     string `json:"closeTime"`
    OpenDays      []int  `json:"openDays"`
    ClosedMessage string `json:"closedMessage,omitempty"`
}

// FloorLimit caps the number of registrations accepted for a single
// floor per day.  Disabled entries are kept for display but not
// enforced.
type FloorLimit struct {
    FloorName        string `json:"floorName"`
    MaxRegistrations int    `json:"maxRegistrations"`
    Enabled          bool   `json:"enabled"`
}

// RegistrationLimit is the admin-configurable daily cap shown to end
// users.  It is enforced in addition to the fixed system ceilings, not
// instead of them.
type RegistrationLimit struct {
    Enabled                bool         `json:"enabled"`
    MaxRegistrationsPerDay int          `json:"maxRegistrationsPerDay"`
    Message                string       `json:"message,omitempty"`
    ByFloor                bool         `json:"byFloor"`
    FloorLimits            []FloorLimit `json:"floorLimits,omitempty"`
}

// FieldSpec describes one form field: its label, whether submitters
// must fill it, whether it is shown at all, and the option set for
// enumerable fields.
type FieldSpec struct {
    Label        string   `json:"label"`
    Required     bool     `json:"required"`
    Enabled      bool     `json:"enabled"`
    Options      []string `json:"options,omitempty"`
    DefaultValue string   `json:"defaultValue,omitempty"`
}

// FormConfig is the admin-editable configuration of the public form.
// It is stored as a single JSON document and validated on every load
// and save so malformed configs fail fast instead of leaking zero
// values into the admission logic.
type FormConfig struct {
    Title             string               `json:"title"`
    IsFormClosed      bool                 `json:"isFormClosed"`
    FormSchedule      *FormSchedule        `json:"formSchedule,omitempty"`
    RegistrationLimit *RegistrationLimit   `json:"registrationLimit,omitempty"`
    Fields            map[string]FieldSpec `json:"fields"`
    UpdatedAt         time.Time            `json:"updatedAt,omitempty"`
}

// DefaultFormConfig returns the configuration used when no stored
// record exists yet.  The field set mirrors the public form: name,
// phone, email, school, studentId, purpose, floor, contact, date and
// time, with options for the enumerable ones.
func DefaultFormConfig() FormConfig {
    return FormConfig{
        Title:        "Đăng ký lên văn phòng",
        IsFormClosed: false,
        RegistrationLimit: &RegistrationLimit{
            Enabled:                true,
            MaxRegistrationsPerDay: 40,
            Message:                "Số lượng đăng ký trong ngày đã đạt giới hạn.",
        },
        Fields: map[string]FieldSpec{
            "name":      {Label: "Họ và tên", Required: true, Enabled: true},
            "phone":     {Label: "Số điện thoại", Required: true, Enabled: true},
            "email":     {Label: "Email", Required: true, Enabled: true},
            "school":    {Label: "Trường", Required: false, Enabled: true},
            "studentId": {Label: "Mã số sinh viên", Required: false, Enabled: true},
            "purpose": {
                Label:    "Mục đích",
                Required: true,
                Enabled:  true,
                Options:  []string{"Học tập", "Làm việc", "Tham quan", "Khác"},
            },
            "floor": {
                Label:    "Tầng",
                Required: true,
                Enabled:  true,
                Options:  []string{"2", "3", "4", "5"},
            },
            "contact": {
                Label:    "Bạn biết đến chúng tôi qua đâu?",
                Required: false,
                Enabled:  true,
                Options:  []string{"Facebook", "Bạn bè", "Website", "Khác"},
            },
            "date": {Label: "Ngày lên văn phòng", Required: true, Enabled: true},
            "time": {Label: "Thời gian", Required: false, Enabled: true},
        },
    }
}

// ErrInvalidFormConfig is returned by Validate when a configuration is
// structurally unusable.
var ErrInvalidFormConfig = errors.New("invalid form config")

// Validate checks the configuration for values that would break the
// admission logic.  It does not fill defaults; callers decide whether
// to reject the config or fall back to DefaultFormConfig.
func (c FormConfig) Validate() error {
    if c.Title == "" {
        return fmt.Errorf("%w: title is required", ErrInvalidFormConfig)
    }
    if s := c.FormSchedule; s != nil && s.Enabled {
        if _, err := ParseClock(s.OpenTime); err != nil {
            return fmt.Errorf("%w: openTime %q: %v", ErrInvalidFormConfig, s.OpenTime, err)
        }
        if _, err := ParseClock(s.CloseTime); err != nil {
            return fmt.Errorf("%w: closeTime %q: %v", ErrInvalidFormConfig, s.CloseTime, err)
        }
        for _, d := range s.OpenDays {
            if d < 0 || d > 6 {
                return fmt.Errorf("%w: open day %d out of range", ErrInvalidFormConfig, d)
            }
        }
    }
    if l := c.RegistrationLimit; l != nil && l.Enabled {
        if l.MaxRegistrationsPerDay <= 0 {
            return fmt.Errorf("%w: maxRegistrationsPerDay must be positive", ErrInvalidFormConfig)
        }
        for _, fl := range l.FloorLimits {
            if fl.FloorName == "" {
                return fmt.Errorf("%w: floor limit with empty floorName", ErrInvalidFormConfig)
            }
            if fl.MaxRegistrations < 0 {
                return fmt.Errorf("%w: floor %q has negative limit", ErrInvalidFormConfig, fl.FloorName)
            }
        }
    }
    return nil
}

// FloorLimitFor returns the enabled per-floor limit matching the given
// floor, or nil when none applies.  Per-floor limits are only
// consulted when the limit feature and ByFloor are both enabled.
func (c FormConfig) FloorLimitFor(floor string) *FloorLimit {
    l := c.RegistrationLimit
    if l == nil || !l.Enabled || !l.ByFloor {
        return nil
    }
    for i := range l.FloorLimits {
        if l.FloorLimits[i].Enabled && l.FloorLimits[i].FloorName == floor {
            return &l.FloorLimits[i]
        }
    }
    return nil
}

// ParseClock parses an "HH:MM" wall-clock string.
func ParseClock(s string) (time.Duration, error) {
    t, err := time.Parse("15:04", s)
    if err != nil {
        return 0, err
    }
    return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
