package model

import (
    "errors"
    "testing"
    "time"
)

func TestDefaultFormConfig(t *testing.T) {
    cfg := DefaultFormConfig()

    if cfg.Title == "" {
        t.Fatal("default config has no title")
    }
    if cfg.IsFormClosed {
        t.Fatal("default config must start open")
    }
    if cfg.RegistrationLimit == nil || !cfg.RegistrationLimit.Enabled {
        t.Fatal("default config must enable the registration limit")
    }
    if got := cfg.RegistrationLimit.MaxRegistrationsPerDay; got != 40 {
        t.Fatalf("default daily limit = %d, want 40", got)
    }
    for _, name := range []string{"name", "phone", "email", "purpose", "floor", "date"} {
        f, ok := cfg.Fields[name]
        if !ok {
            t.Fatalf("default config missing field %q", name)
        }
        if !f.Enabled {
            t.Fatalf("field %q disabled by default", name)
        }
    }
    if err := cfg.Validate(); err != nil {
        t.Fatalf("default config must validate: %v", err)
    }
}

func TestFormConfigValidate(t *testing.T) {
    valid := func() FormConfig { return DefaultFormConfig() }

    cases := []struct {
        name   string
        mutate func(*FormConfig)
        ok     bool
    }{
        {"default", func(*FormConfig) {}, true},
        {"empty title", func(c *FormConfig) { c.Title = "" }, false},
        {"bad open time", func(c *FormConfig) {
            c.FormSchedule = &FormSchedule{Enabled: true, OpenTime: "8am", CloseTime: "17:00"}
        }, false},
        {"bad close time", func(c *FormConfig) {
            c.FormSchedule = &FormSchedule{Enabled: true, OpenTime: "08:00", CloseTime: "25:00"}
        }, false},
        {"day out of range", func(c *FormConfig) {
            c.FormSchedule = &FormSchedule{Enabled: true, OpenTime: "08:00", CloseTime: "17:00", OpenDays: []int{7}}
        }, false},
        {"disabled schedule skips clock checks", func(c *FormConfig) {
            c.FormSchedule = &FormSchedule{Enabled: false, OpenTime: "garbage"}
        }, true},
        {"zero daily limit", func(c *FormConfig) {
            c.RegistrationLimit.MaxRegistrationsPerDay = 0
        }, false},
        {"disabled limit skips checks", func(c *FormConfig) {
            c.RegistrationLimit = &RegistrationLimit{Enabled: false}
        }, true},
        {"floor limit without name", func(c *FormConfig) {
            c.RegistrationLimit.FloorLimits = []FloorLimit{{MaxRegistrations: 5, Enabled: true}}
        }, false},
        {"negative floor limit", func(c *FormConfig) {
            c.RegistrationLimit.FloorLimits = []FloorLimit{{FloorName: "3", MaxRegistrations: -1}}
        }, false},
    }

    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            cfg := valid()
            tc.mutate(&cfg)
            err := cfg.Validate()
            if tc.ok && err != nil {
                t.Fatalf("unexpected error: %v", err)
            }
            if !tc.ok {
                if err == nil {
                    t.Fatal("expected validation error")
                }
                if !errors.Is(err, ErrInvalidFormConfig) {
                    t.Fatalf("error %v does not wrap ErrInvalidFormConfig", err)
                }
            }
        })
    }
}

func TestFloorLimitFor(t *testing.T) {
    cfg := DefaultFormConfig()
    cfg.RegistrationLimit = &RegistrationLimit{
        Enabled: true,
        ByFloor: true,
        FloorLimits: []FloorLimit{
            {FloorName: "3", MaxRegistrations: 10, Enabled: true},
            {FloorName: "4", MaxRegistrations: 8, Enabled: false},
        },
    }

    if fl := cfg.FloorLimitFor("3"); fl == nil || fl.MaxRegistrations != 10 {
        t.Fatalf("floor 3: got %+v", fl)
    }
    if fl := cfg.FloorLimitFor("4"); fl != nil {
        t.Fatal("disabled floor limit must not apply")
    }
    if fl := cfg.FloorLimitFor("9"); fl != nil {
        t.Fatal("unknown floor must have no limit")
    }

    cfg.RegistrationLimit.ByFloor = false
    if fl := cfg.FloorLimitFor("3"); fl != nil {
        t.Fatal("per-floor limits require byFloor")
    }
}

func TestParseClock(t *testing.T) {
    d, err := ParseClock("09:30")
    if err != nil {
        t.Fatalf("ParseClock: %v", err)
    }
    if want := 9*time.Hour + 30*time.Minute; d != want {
        t.Fatalf("got %v, want %v", d, want)
    }
    if _, err := ParseClock("24:00"); err == nil {
        t.Fatal("expected error for 24:00")
    }
    if _, err := ParseClock(""); err == nil {
        t.Fatal("expected error for empty clock")
    }
}
