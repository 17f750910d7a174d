package admission

import (
    "context"
    "time"

    "github.com/lehoang/visit-registration/internal/model"
)

// Rejection reasons.  These are business outcomes, not faults; they
// travel to the client as a typed result together with a user-facing
// message.
const (
    ReasonValidation        = "validation"
    ReasonFormClosed        = "form_closed"
    ReasonDailyCapacity     = "daily_capacity_exceeded"
    ReasonFloorCapacity     = "floor_capacity_exceeded"
    ReasonRegistrationLimit = "registration_limit_message"
)

// Fixed system ceilings.  These are enforced on top of the
// admin-configurable registration limit, never instead of it.  The
// office never physically admits more than 55 visitors a day, and the
// smaller floors carry their own hard caps.
const dailyCeiling = 55

var floorCeilings = map[string]int{
    "3": 20,
    "4": 15,
    "5": 20,
}

// DefaultLimitMessage is used for capacity rejections when the config
// carries no custom message.
const DefaultLimitMessage = "Số lượng đăng ký đã đạt giới hạn, vui lòng chọn ngày khác."

// Counter exposes the capacity counts the decision engine needs.  The
// registration repository implements it; tests substitute fakes.
type Counter interface {
    CountByDate(ctx context.Context, date string) (int, error)
    CountByDateAndFloor(ctx context.Context, date, floor string) (int, error)
}

// Decision is the outcome of an admission check.  When Accepted is
// false, Reason carries one of the Reason* constants and Message a
// human-readable explanation for the submitter.
type Decision struct {
    Accepted bool   `json:"accepted"`
    Reason   string `json:"reason,omitempty"`
    Message  string `json:"message,omitempty"`
}

func rejected(reason, message string) Decision {
    return Decision{Accepted: false, Reason: reason, Message: message}
}

// Engine combines the schedule gate with the capacity checks.
type Engine struct {
    counter Counter
}

// NewEngine returns an Engine backed by the given counter.
func NewEngine(counter Counter) *Engine {
    if counter == nil {
        panic("nil counter passed to NewEngine")
    }
    return &Engine{counter: counter}
}

// Decide runs the full admission check for a candidate registration.
// Checks run in a fixed order; the first failed check determines the
// rejection reason.  A non-nil error is a persistence fault, not a
// rejection.
//
// The counts and the caller's subsequent insert are separate
// statements: near a boundary, concurrent submissions can overshoot a
// limit by at most the number of in-flight requests.  This is an
// accepted property of the design, not a defect to paper over here.
func (e *Engine) Decide(ctx context.Context, cand model.Registration, cfg model.FormConfig, now time.Time) (Decision, error) {
    // 1. Required fields.
    if cand.Name == "" || cand.Email == "" || cand.Phone == "" || cand.Date == "" || cand.Purpose == "" {
        return rejected(ReasonValidation, "Vui lòng điền đầy đủ các trường bắt buộc."), nil
    }

    // 2. Schedule gate.
    if win := EvaluateWindow(cfg, now); !win.IsOpen {
        return rejected(ReasonFormClosed, win.Message), nil
    }

    dayCount, err := e.counter.CountByDate(ctx, cand.Date)
    if err != nil {
        return Decision{}, err
    }

    // 3. Fixed global ceiling.
    if dayCount >= dailyCeiling {
        return rejected(ReasonDailyCapacity, DefaultLimitMessage), nil
    }

    // 4. Fixed per-floor ceilings.
    if ceiling, ok := floorCeilings[cand.Floor]; ok {
        floorCount, err := e.counter.CountByDateAndFloor(ctx, cand.Date, cand.Floor)
        if err != nil {
            return Decision{}, err
        }
        if floorCount >= ceiling {
            return rejected(ReasonFloorCapacity, DefaultLimitMessage), nil
        }
    }

    limit := cfg.RegistrationLimit
    if limit != nil && limit.Enabled {
        msg := limit.Message
        if msg == "" {
            msg = DefaultLimitMessage
        }
        // 5. Configured daily limit.
        if dayCount >= limit.MaxRegistrationsPerDay {
            return rejected(ReasonRegistrationLimit, msg), nil
        }
        // 6. Configured per-floor limit.
        if fl := cfg.FloorLimitFor(cand.Floor); fl != nil {
            floorCount, err := e.counter.CountByDateAndFloor(ctx, cand.Date, cand.Floor)
            if err != nil {
                return Decision{}, err
            }
            if floorCount >= fl.MaxRegistrations {
                return rejected(ReasonRegistrationLimit, msg), nil
            }
        }
    }

    return Decision{Accepted: true}, nil
}
