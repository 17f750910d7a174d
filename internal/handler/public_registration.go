package handler

import (
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/lehoang/visit-registration/internal/admission"
    "github.com/lehoang/visit-registration/internal/hub"
    "github.com/lehoang/visit-registration/internal/model"
)

// PublicHandler serves the unauthenticated surface: form submission,
// remaining-capacity counts and the form configuration read.
type PublicHandler struct {
    Regs      RegistrationStore
    Configs   ConfigStore
    Engine    *admission.Engine
    Publisher hub.Publisher

    // now is the clock the schedule gate runs on.  The configured
    // openTime/closeTime and openDays are wall-clock values in the
    // server's zone, so both the reported window and the enforced one
    // must read the same local clock.  Overridden in tests.
    now func() time.Time
}

// NewPublicHandler constructs a PublicHandler.  The admission engine
// counts through the same store the handler persists into.
func NewPublicHandler(regs RegistrationStore, configs ConfigStore, pub hub.Publisher) *PublicHandler {
    if regs == nil || configs == nil || pub == nil {
        panic("nil dependency passed to NewPublicHandler")
    }
    return &PublicHandler{
        Regs:      regs,
        Configs:   configs,
        Engine:    admission.NewEngine(regs),
        Publisher: pub,
        now:       time.Now,
    }
}

type submitReq struct {
    Name          string `json:"name"`
    Email         string `json:"email"`
    Phone         string `json:"phone"`
    School        string `json:"school"`
    StudentID     string `json:"studentId"`
    Date          string `json:"date"`
    Time          string `json:"time"`
    Floor         string `json:"floor"`
    Purpose       string `json:"purpose"`
    PurposeDetail string `json:"purposeDetail"`
    Contact       string `json:"contact"`
}

// Submit handles POST /v1/registrations.  The candidate runs through
// the admission engine; rejections are business outcomes returned with
// a reason and a user-facing message, never 5xx.  On acceptance the
// registration is persisted as pending and a created event is
// broadcast.
func (h *PublicHandler) Submit(c echo.Context) error {
    var req submitReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if req.Date != "" && !validDate(req.Date) {
        return c.JSON(http.StatusBadRequest, echo.Map{
            "reason":  admission.ReasonValidation,
            "message": "invalid date, expected YYYY-MM-DD",
        })
    }

    ctx := c.Request().Context()
    cfg, err := h.Configs.Get(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load form config"})
    }

    cand := model.Registration{
        Name:          req.Name,
        Email:         req.Email,
        Phone:         req.Phone,
        School:        req.School,
        StudentID:     req.StudentID,
        Date:          req.Date,
        Time:          req.Time,
        Floor:         req.Floor,
        Purpose:       req.Purpose,
        PurposeDetail: req.PurposeDetail,
        Contact:       req.Contact,
    }

    now := h.now()
    decision, err := h.Engine.Decide(ctx, cand, cfg, now)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check capacity"})
    }
    if !decision.Accepted {
        return c.JSON(rejectionStatus(decision.Reason), echo.Map{
            "reason":  decision.Reason,
            "message": decision.Message,
        })
    }

    if err := h.Regs.Create(ctx, &cand, now); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create registration"})
    }
    // Fire-and-forget: dashboard updates are not part of the
    // submission's correctness.
    h.Publisher.Publish(hub.EventRegistrationCreated, cand)

    return c.JSON(http.StatusCreated, echo.Map{"item": cand})
}

// rejectionStatus maps an admission reason to an HTTP status.
// Validation problems are 400; everything else is a well-formed
// request refused by policy.
func rejectionStatus(reason string) int {
    switch reason {
    case admission.ReasonValidation:
        return http.StatusBadRequest
    case admission.ReasonFormClosed:
        return http.StatusForbidden
    default:
        return http.StatusConflict
    }
}

// Count handles GET /v1/registrations/count?date=YYYY-MM-DD[&floor=N].
// It backs the client-side "remaining slots" display.  Rejected
// registrations are excluded by the store queries.
func (h *PublicHandler) Count(c echo.Context) error {
    date := c.QueryParam("date")
    if !validDate(date) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "date is required as YYYY-MM-DD"})
    }
    floor := c.QueryParam("floor")

    ctx := c.Request().Context()
    var n int
    var err error
    if floor != "" {
        n, err = h.Regs.CountByDateAndFloor(ctx, date, floor)
    } else {
        n, err = h.Regs.CountByDate(ctx, date)
    }
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to count registrations"})
    }
    resp := echo.Map{"date": date, "count": n}
    if floor != "" {
        resp["floor"] = floor
    }
    return c.JSON(http.StatusOK, resp)
}

// GetFormConfig handles GET /v1/form-config.  Besides the stored
// configuration it reports whether the form is open right now, so
// clients render the closed message without re-implementing the
// schedule logic.
func (h *PublicHandler) GetFormConfig(c echo.Context) error {
    cfg, err := h.Configs.Get(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load form config"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "config": cfg,
        "window": admission.EvaluateWindow(cfg, h.now()),
    })
}
