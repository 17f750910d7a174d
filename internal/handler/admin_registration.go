package handler

import (
    "context"
    "errors"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/lehoang/visit-registration/internal/hub"
    "github.com/lehoang/visit-registration/internal/model"
    "github.com/lehoang/visit-registration/internal/queue"
    "github.com/lehoang/visit-registration/internal/repository"
)

// AdminHandler implements the registration lifecycle operations:
// approve, reject, delete and their batch variants.  All methods
// assume JWT authentication and the ADMIN role have been enforced by
// middleware.  Status mutations commit first; events and notification
// emails are strictly best-effort afterwards.
type AdminHandler struct {
    Regs      RegistrationStore
    Publisher hub.Publisher
    Notifier  Notifier
}

// NewAdminHandler constructs an AdminHandler.  All dependencies must
// be non-nil.
func NewAdminHandler(regs RegistrationStore, pub hub.Publisher, notifier Notifier) *AdminHandler {
    if regs == nil || pub == nil || notifier == nil {
        panic("nil dependency passed to NewAdminHandler")
    }
    return &AdminHandler{Regs: regs, Publisher: pub, Notifier: notifier}
}

// List handles GET /v1/admin/registrations with optional date, status
// and floor filters, newest first.
func (h *AdminHandler) List(c echo.Context) error {
    f := repository.ListFilter{
        Date:   c.QueryParam("date"),
        Status: c.QueryParam("status"),
        Floor:  c.QueryParam("floor"),
    }
    if f.Date != "" && !validDate(f.Date) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date filter"})
    }
    items, err := h.Regs.List(c.Request().Context(), f)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load registrations"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Approve handles PUT /v1/admin/registrations/:id/approve.
func (h *AdminHandler) Approve(c echo.Context) error {
    return h.transition(c, model.StatusApproved)
}

// Reject handles PUT /v1/admin/registrations/:id/reject.
func (h *AdminHandler) Reject(c echo.Context) error {
    return h.transition(c, model.StatusRejected)
}

// errTerminal marks an attempt to apply the opposite transition to a
// record that already reached a terminal status.
var errTerminal = errors.New("terminal status")

// transition applies pending→approved or pending→rejected to a single
// registration.  Re-invoking the transition a record already completed
// is an idempotent no-op (no event, no email); the opposite transition
// on a terminal record is a conflict.
func (h *AdminHandler) transition(c echo.Context, target string) error {
    id := c.Param("id")
    if id == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid registration id"})
    }
    actorID, _ := getUserID(c)

    reg, changed, err := h.applyTransition(c.Request().Context(), id, target, actorID)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "registration not found"})
        }
        if errors.Is(err, errTerminal) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "registration already " + reg.Status})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update registration"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": reg, "changed": changed})
}

// applyTransition is the single-record transition shared by the single
// and batch endpoints.  changed is false for idempotent no-ops.  On an
// actual change the status-changed event is broadcast and a
// notification email is enqueued; both happen after the mutation
// committed and neither can fail the operation.
func (h *AdminHandler) applyTransition(ctx context.Context, id, target string, actorID uint64) (model.Registration, bool, error) {
    reg, err := h.Regs.GetByID(ctx, id)
    if err != nil {
        return model.Registration{}, false, err
    }
    if reg.Status == target {
        return reg, false, nil
    }
    if reg.Status != model.StatusPending {
        return reg, false, errTerminal
    }

    now := time.Now().UTC()
    updated, err := h.Regs.UpdateStatus(ctx, id, target, now)
    if err != nil {
        return reg, false, err
    }

    h.Publisher.Publish(hub.EventRegistrationStatusChanged, updated)
    h.Notifier.Notify(queue.NotificationEvent{
        RegistrationID: updated.ID,
        Name:           updated.Name,
        Email:          updated.Email,
        Date:           updated.Date,
        Time:           updated.Time,
        Floor:          updated.Floor,
        Status:         updated.Status,
        ActorUserID:    actorID,
        OccurredAt:     now.Format(time.RFC3339),
    })
    return updated, true, nil
}

// Delete handles DELETE /v1/admin/registrations/:id.  Missing ids are
// a 404 in single-item mode.
func (h *AdminHandler) Delete(c echo.Context) error {
    id := c.Param("id")
    if id == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid registration id"})
    }
    if err := h.Regs.Delete(c.Request().Context(), id); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "registration not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete registration"})
    }
    h.Publisher.Publish(hub.EventRegistrationDeleted, echo.Map{"id": id})
    return c.NoContent(http.StatusNoContent)
}

type batchUpdateReq struct {
    IDs    []string `json:"ids"`
    Status string   `json:"status"`
}

// BatchUpdate handles POST /v1/admin/registrations/batch.  Items are
// processed independently: missing ids and conflicts are skipped, the
// committed subset is reported via the updated count, and the call
// never fails as a whole because of one bad id.
func (h *AdminHandler) BatchUpdate(c echo.Context) error {
    var req batchUpdateReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if req.Status != model.StatusApproved && req.Status != model.StatusRejected {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be approved or rejected"})
    }
    if len(req.IDs) == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "ids is required"})
    }
    actorID, _ := getUserID(c)

    ctx := c.Request().Context()
    updated := 0
    skipped := 0
    for _, id := range req.IDs {
        _, _, err := h.applyTransition(ctx, id, req.Status, actorID)
        switch {
        case err == nil: // changed or idempotent no-op, both count as success
            updated++
        case errors.Is(err, repository.ErrNotFound) || errors.Is(err, errTerminal):
            skipped++
        default:
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update registrations"})
        }
    }
    return c.JSON(http.StatusOK, echo.Map{"updated": updated, "skipped": skipped})
}

type batchDeleteReq struct {
    IDs []string `json:"ids"`
}

// BatchDelete handles POST /v1/admin/registrations/batch-delete.
// Missing ids are
// skipped; the response reports how many records were removed.
func (h *AdminHandler) BatchDelete(c echo.Context) error {
    var req batchDeleteReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if len(req.IDs) == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "ids is required"})
    }

    ctx := c.Request().Context()
    deleted := 0
    for _, id := range req.IDs {
        err := h.Regs.Delete(ctx, id)
        if errors.Is(err, repository.ErrNotFound) {
            continue
        }
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete registrations"})
        }
        h.Publisher.Publish(hub.EventRegistrationDeleted, echo.Map{"id": id})
        deleted++
    }
    return c.JSON(http.StatusOK, echo.Map{"deleted": deleted})
}
