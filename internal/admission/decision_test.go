package admission

import (
    "context"
    "errors"
    "testing"
    "time"

    "github.com/lehoang/visit-registration/internal/model"
)

// fakeCounter returns canned counts per date and per date+floor.
type fakeCounter struct {
    byDate  map[string]int
    byFloor map[string]int // key: date|floor
    err     error
}

func (f *fakeCounter) CountByDate(_ context.Context, date string) (int, error) {
    if f.err != nil {
        return 0, f.err
    }
    return f.byDate[date], nil
}

func (f *fakeCounter) CountByDateAndFloor(_ context.Context, date, floor string) (int, error) {
    if f.err != nil {
        return 0, f.err
    }
    return f.byFloor[date+"|"+floor], nil
}

func candidate() model.Registration {
    return model.Registration{
        Name:    "Nguyễn Văn A",
        Email:   "a@example.com",
        Phone:   "0900000000",
        Date:    "2026-03-02",
        Floor:   "2",
        Purpose: "Học tập",
    }
}

func openConfig() model.FormConfig {
    cfg := model.DefaultFormConfig()
    cfg.RegistrationLimit = nil
    return cfg
}

func decide(t *testing.T, c Counter, cand model.Registration, cfg model.FormConfig) Decision {
    t.Helper()
    d, err := NewEngine(c).Decide(context.Background(), cand, cfg, time.Now())
    if err != nil {
        t.Fatalf("Decide: %v", err)
    }
    return d
}

func TestDecideAcceptsValidCandidate(t *testing.T) {
    d := decide(t, &fakeCounter{}, candidate(), openConfig())
    if !d.Accepted {
        t.Fatalf("expected accept, got %+v", d)
    }
}

func TestDecideMissingRequiredField(t *testing.T) {
    for _, strip := range []func(*model.Registration){
        func(r *model.Registration) { r.Name = "" },
        func(r *model.Registration) { r.Email = "" },
        func(r *model.Registration) { r.Phone = "" },
        func(r *model.Registration) { r.Date = "" },
        func(r *model.Registration) { r.Purpose = "" },
    } {
        cand := candidate()
        strip(&cand)
        d := decide(t, &fakeCounter{}, cand, openConfig())
        if d.Accepted || d.Reason != ReasonValidation {
            t.Fatalf("got %+v, want validation rejection", d)
        }
    }
}

func TestDecideFormClosed(t *testing.T) {
    cfg := openConfig()
    cfg.IsFormClosed = true

    d := decide(t, &fakeCounter{}, candidate(), cfg)
    if d.Accepted || d.Reason != ReasonFormClosed {
        t.Fatalf("got %+v, want form_closed rejection", d)
    }
    if d.Message != DefaultClosedMessage {
        t.Fatalf("message = %q", d.Message)
    }
}

func TestDecideFixedDailyCeiling(t *testing.T) {
    // Even with no configured limit, the 55th registration of a day is
    // the last one accepted.
    c := &fakeCounter{byDate: map[string]int{"2026-03-02": 54}}
    if d := decide(t, c, candidate(), openConfig()); !d.Accepted {
        t.Fatalf("54 existing should still accept, got %+v", d)
    }

    c.byDate["2026-03-02"] = 55
    d := decide(t, c, candidate(), openConfig())
    if d.Accepted || d.Reason != ReasonDailyCapacity {
        t.Fatalf("got %+v, want daily_capacity_exceeded", d)
    }
    if d.Message != DefaultLimitMessage {
        t.Fatalf("message = %q", d.Message)
    }
}

func TestDecideFixedFloorCeilings(t *testing.T) {
    cases := []struct {
        floor   string
        ceiling int
    }{
        {"3", 20},
        {"4", 15},
        {"5", 20},
    }
    for _, tc := range cases {
        cand := candidate()
        cand.Floor = tc.floor

        c := &fakeCounter{byFloor: map[string]int{"2026-03-02|" + tc.floor: tc.ceiling - 1}}
        if d := decide(t, c, cand, openConfig()); !d.Accepted {
            t.Fatalf("floor %s below ceiling should accept, got %+v", tc.floor, d)
        }

        c.byFloor["2026-03-02|"+tc.floor] = tc.ceiling
        d := decide(t, c, cand, openConfig())
        if d.Accepted || d.Reason != ReasonFloorCapacity {
            t.Fatalf("floor %s at ceiling: got %+v, want floor_capacity_exceeded", tc.floor, d)
        }
    }

    // Floor 2 carries no fixed ceiling.
    cand := candidate()
    cand.Floor = "2"
    c := &fakeCounter{byFloor: map[string]int{"2026-03-02|2": 50}}
    if d := decide(t, c, cand, openConfig()); !d.Accepted {
        t.Fatalf("floor 2 has no fixed ceiling, got %+v", d)
    }
}

func TestDecideConfiguredDailyLimit(t *testing.T) {
    cfg := openConfig()
    cfg.RegistrationLimit = &model.RegistrationLimit{
        Enabled:                true,
        MaxRegistrationsPerDay: 10,
        Message:                "Hết chỗ hôm nay.",
    }

    c := &fakeCounter{byDate: map[string]int{"2026-03-02": 10}}
    d := decide(t, c, candidate(), cfg)
    if d.Accepted || d.Reason != ReasonRegistrationLimit {
        t.Fatalf("got %+v, want registration_limit_message", d)
    }
    if d.Message != "Hết chỗ hôm nay." {
        t.Fatalf("custom message not used: %q", d.Message)
    }

    // Raising the limit by one admits the same candidate.
    cfg.RegistrationLimit.MaxRegistrationsPerDay = 11
    if d := decide(t, c, candidate(), cfg); !d.Accepted {
        t.Fatalf("count below limit should accept, got %+v", d)
    }
}

func TestDecideConfiguredFloorLimit(t *testing.T) {
    cfg := openConfig()
    cfg.RegistrationLimit = &model.RegistrationLimit{
        Enabled:                true,
        MaxRegistrationsPerDay: 40,
        ByFloor:                true,
        FloorLimits: []model.FloorLimit{
            {FloorName: "2", MaxRegistrations: 5, Enabled: true},
        },
    }

    cand := candidate()
    cand.Floor = "2"
    c := &fakeCounter{byFloor: map[string]int{"2026-03-02|2": 5}}
    d := decide(t, c, cand, cfg)
    if d.Accepted || d.Reason != ReasonRegistrationLimit {
        t.Fatalf("got %+v, want registration_limit_message", d)
    }
    if d.Message != DefaultLimitMessage {
        t.Fatalf("message = %q, want default limit message", d.Message)
    }
}

func TestDecideFixedCeilingBeatsConfiguredLimit(t *testing.T) {
    // A configured limit above the fixed ceiling never takes effect:
    // the ceiling rejects first and keeps its own reason.
    cfg := openConfig()
    cfg.RegistrationLimit = &model.RegistrationLimit{
        Enabled:                true,
        MaxRegistrationsPerDay: 100,
    }

    c := &fakeCounter{byDate: map[string]int{"2026-03-02": 55}}
    d := decide(t, c, candidate(), cfg)
    if d.Reason != ReasonDailyCapacity {
        t.Fatalf("reason = %q, want daily_capacity_exceeded", d.Reason)
    }
}

func TestDecidePropagatesCounterError(t *testing.T) {
    c := &fakeCounter{err: errors.New("db gone")}
    _, err := NewEngine(c).Decide(context.Background(), candidate(), openConfig(), time.Now())
    if err == nil {
        t.Fatal("expected error from counter")
    }
}
