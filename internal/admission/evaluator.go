// Package admission implements the registration admission logic: the
// schedule-based open/closed check and the accept/reject decision that
// combines it with the daily and per-floor capacity limits.
package admission

import (
    "time"

    "github.com/lehoang/visit-registration/internal/model"
)

// DefaultClosedMessage is shown when the form is closed and no custom
// message has been configured.
const DefaultClosedMessage = "Biểu mẫu đăng ký hiện đang đóng."

// WindowStatus is the result of evaluating the form schedule.
type WindowStatus struct {
    IsOpen  bool   `json:"isOpen"`
    Message string `json:"message"`
}

// EvaluateWindow decides whether the form is open at the given
// instant.  It is a pure function of the configuration and now.
//
// Precedence:
//  1. the manual isFormClosed override always wins;
//  2. an absent or disabled schedule means always open;
//  3. the weekday must be in openDays;
//  4. the wall-clock time must fall inside [openTime, closeTime].
//
// A closeTime earlier than openTime is treated as a window spanning
// midnight: the form is open from openTime until closeTime of the
// following day.
func EvaluateWindow(cfg model.FormConfig, now time.Time) WindowStatus {
    closed := func() WindowStatus {
        msg := DefaultClosedMessage
        if cfg.FormSchedule != nil && cfg.FormSchedule.ClosedMessage != "" {
            msg = cfg.FormSchedule.ClosedMessage
        }
        return WindowStatus{IsOpen: false, Message: msg}
    }

    if cfg.IsFormClosed {
        return closed()
    }
    sched := cfg.FormSchedule
    if sched == nil || !sched.Enabled {
        return WindowStatus{IsOpen: true}
    }

    day := int(now.Weekday()) // 0=Sunday .. 6=Saturday
    if !containsDay(sched.OpenDays, day) {
        return closed()
    }

    open, err := model.ParseClock(sched.OpenTime)
    if err != nil {
        return closed()
    }
    close_, err := model.ParseClock(sched.CloseTime)
    if err != nil {
        return closed()
    }

    midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
    clock := now.Sub(midnight)

    if close_ < open {
        // Overnight window: open until closeTime, then again from openTime.
        if clock >= open || clock <= close_ {
            return WindowStatus{IsOpen: true}
        }
        return closed()
    }
    if clock >= open && clock <= close_ {
        return WindowStatus{IsOpen: true}
    }
    return closed()
}

func containsDay(days []int, day int) bool {
    for _, d := range days {
        if d == day {
            return true
        }
    }
    return false
}
