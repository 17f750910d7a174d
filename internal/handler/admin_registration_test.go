package handler

import (
    "context"
    "net/http"
    "testing"
    "time"

    "github.com/lehoang/visit-registration/internal/model"
    "github.com/lehoang/visit-registration/internal/repository"
)

// memRegStore keeps registrations in a map and implements the store
// the way the real repository behaves, so terminal-status and
// not-found paths exercise real transitions.
func memRegStore(regs ...model.Registration) *fakeRegStore {
    byID := make(map[string]model.Registration, len(regs))
    for _, r := range regs {
        byID[r.ID] = r
    }
    return &fakeRegStore{
        getByID: func(_ context.Context, id string) (model.Registration, error) {
            r, ok := byID[id]
            if !ok {
                return model.Registration{}, repository.ErrNotFound
            }
            return r, nil
        },
        updateStatus: func(_ context.Context, id, status string, now time.Time) (model.Registration, error) {
            r, ok := byID[id]
            if !ok {
                return model.Registration{}, repository.ErrNotFound
            }
            r.Status = status
            r.UpdatedAt = now
            byID[id] = r
            return r, nil
        },
        remove: func(_ context.Context, id string) error {
            if _, ok := byID[id]; !ok {
                return repository.ErrNotFound
            }
            delete(byID, id)
            return nil
        },
        countByDate: func(_ context.Context, date string) (int, error) {
            n := 0
            for _, r := range byID {
                if r.Date == date && r.CountsAgainstCapacity() {
                    n++
                }
            }
            return n, nil
        },
        countByDateAndFloor: func(_ context.Context, date, floor string) (int, error) {
            n := 0
            for _, r := range byID {
                if r.Date == date && r.Floor == floor && r.CountsAgainstCapacity() {
                    n++
                }
            }
            return n, nil
        },
    }
}

func pending(id string) model.Registration {
    return model.Registration{
        ID:     id,
        Name:   "Nguyễn Văn A",
        Email:  "a@example.com",
        Date:   "2026-03-02",
        Floor:  "3",
        Status: model.StatusPending,
    }
}

func TestApprovePending(t *testing.T) {
    store := memRegStore(pending("r1"))
    pub := &fakePublisher{}
    mail := &fakeNotifier{}
    h := NewAdminHandler(store, pub, mail)

    c, rec := newJSONContext(http.MethodPut, "/v1/admin/registrations/r1/approve", "")
    c.SetParamNames("id")
    c.SetParamValues("r1")

    if err := h.Approve(c); err != nil {
        t.Fatalf("Approve: %v", err)
    }
    if rec.Code != http.StatusOK {
        t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
    }

    body := decodeBody(t, rec)
    if body["changed"] != true {
        t.Fatalf("changed = %v, want true", body["changed"])
    }
    item := body["item"].(map[string]interface{})
    if item["status"] != model.StatusApproved {
        t.Fatalf("status = %v", item["status"])
    }

    if len(pub.events) != 1 || pub.events[0] != "registration.status_changed" {
        t.Fatalf("events = %v", pub.events)
    }
    if len(mail.events) != 1 {
        t.Fatalf("notifications = %d, want 1", len(mail.events))
    }
    if got := mail.events[0]; got.RegistrationID != "r1" || got.Status != model.StatusApproved {
        t.Fatalf("notification = %+v", got)
    }
}

func TestApproveAlreadyApprovedIsNoOp(t *testing.T) {
    reg := pending("r1")
    reg.Status = model.StatusApproved
    store := memRegStore(reg)
    pub := &fakePublisher{}
    mail := &fakeNotifier{}
    h := NewAdminHandler(store, pub, mail)

    c, rec := newJSONContext(http.MethodPut, "/v1/admin/registrations/r1/approve", "")
    c.SetParamNames("id")
    c.SetParamValues("r1")

    if err := h.Approve(c); err != nil {
        t.Fatalf("Approve: %v", err)
    }
    if rec.Code != http.StatusOK {
        t.Fatalf("status = %d, want 200", rec.Code)
    }
    if body := decodeBody(t, rec); body["changed"] != false {
        t.Fatalf("changed = %v, want false", body["changed"])
    }
    // Idempotent repeats are silent: no broadcast, no email.
    if len(pub.events) != 0 || len(mail.events) != 0 {
        t.Fatalf("no-op must not emit events (pub=%v mail=%v)", pub.events, mail.events)
    }
}

func TestRejectApprovedIsConflict(t *testing.T) {
    reg := pending("r1")
    reg.Status = model.StatusApproved
    h := NewAdminHandler(memRegStore(reg), &fakePublisher{}, &fakeNotifier{})

    c, rec := newJSONContext(http.MethodPut, "/v1/admin/registrations/r1/reject", "")
    c.SetParamNames("id")
    c.SetParamValues("r1")

    if err := h.Reject(c); err != nil {
        t.Fatalf("Reject: %v", err)
    }
    if rec.Code != http.StatusConflict {
        t.Fatalf("status = %d, want 409", rec.Code)
    }
}

func TestApproveMissingRegistration(t *testing.T) {
    mail := &fakeNotifier{}
    h := NewAdminHandler(memRegStore(), &fakePublisher{}, mail)

    c, rec := newJSONContext(http.MethodPut, "/v1/admin/registrations/nope/approve", "")
    c.SetParamNames("id")
    c.SetParamValues("nope")

    if err := h.Approve(c); err != nil {
        t.Fatalf("Approve: %v", err)
    }
    if rec.Code != http.StatusNotFound {
        t.Fatalf("status = %d, want 404", rec.Code)
    }
    if len(mail.events) != 0 {
        t.Fatal("missing registration must not trigger email")
    }
}

func TestBatchUpdatePartialSuccess(t *testing.T) {
    terminal := pending("done")
    terminal.Status = model.StatusRejected
    store := memRegStore(pending("a"), pending("b"), terminal)
    pub := &fakePublisher{}
    mail := &fakeNotifier{}
    h := NewAdminHandler(store, pub, mail)

    body := `{"ids":["a","missing","done","b"],"status":"approved"}`
    c, rec := newJSONContext(http.MethodPost, "/v1/admin/registrations/batch", body)

    if err := h.BatchUpdate(c); err != nil {
        t.Fatalf("BatchUpdate: %v", err)
    }
    if rec.Code != http.StatusOK {
        t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
    }

    resp := decodeBody(t, rec)
    if resp["updated"] != float64(2) || resp["skipped"] != float64(2) {
        t.Fatalf("got updated=%v skipped=%v, want 2/2", resp["updated"], resp["skipped"])
    }
    // Only the two real transitions produce notifications.
    if len(mail.events) != 2 {
        t.Fatalf("notifications = %d, want 2", len(mail.events))
    }
}

func TestBatchUpdateValidation(t *testing.T) {
    h := NewAdminHandler(memRegStore(), &fakePublisher{}, &fakeNotifier{})

    for _, body := range []string{
        `{"ids":[],"status":"approved"}`,
        `{"ids":["a"],"status":"pending"}`,
        `{"ids":["a"],"status":"nonsense"}`,
    } {
        c, rec := newJSONContext(http.MethodPost, "/v1/admin/registrations/batch", body)
        if err := h.BatchUpdate(c); err != nil {
            t.Fatalf("BatchUpdate: %v", err)
        }
        if rec.Code != http.StatusBadRequest {
            t.Fatalf("body %s: status = %d, want 400", body, rec.Code)
        }
    }
}

func TestDeleteMissingIs404(t *testing.T) {
    pub := &fakePublisher{}
    h := NewAdminHandler(memRegStore(), pub, &fakeNotifier{})

    c, rec := newJSONContext(http.MethodDelete, "/v1/admin/registrations/nope", "")
    c.SetParamNames("id")
    c.SetParamValues("nope")

    if err := h.Delete(c); err != nil {
        t.Fatalf("Delete: %v", err)
    }
    if rec.Code != http.StatusNotFound {
        t.Fatalf("status = %d, want 404", rec.Code)
    }
    if len(pub.events) != 0 {
        t.Fatal("failed delete must not broadcast")
    }
}

func TestBatchDeleteSkipsMissing(t *testing.T) {
    store := memRegStore(pending("a"), pending("b"))
    pub := &fakePublisher{}
    h := NewAdminHandler(store, pub, &fakeNotifier{})

    c, rec := newJSONContext(http.MethodPost, "/v1/admin/registrations/batch-delete", `{"ids":["a","missing","b"]}`)
    if err := h.BatchDelete(c); err != nil {
        t.Fatalf("BatchDelete: %v", err)
    }
    if rec.Code != http.StatusOK {
        t.Fatalf("status = %d", rec.Code)
    }
    if resp := decodeBody(t, rec); resp["deleted"] != float64(2) {
        t.Fatalf("deleted = %v, want 2", resp["deleted"])
    }
    if len(pub.events) != 2 {
        t.Fatalf("broadcasts = %d, want 2", len(pub.events))
    }
}

func TestListRejectsBadDateFilter(t *testing.T) {
    h := NewAdminHandler(memRegStore(), &fakePublisher{}, &fakeNotifier{})

    c, rec := newJSONContext(http.MethodGet, "/v1/admin/registrations?date=March+2", "")
    if err := h.List(c); err != nil {
        t.Fatalf("List: %v", err)
    }
    if rec.Code != http.StatusBadRequest {
        t.Fatalf("status = %d, want 400", rec.Code)
    }
}
