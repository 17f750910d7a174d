package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"
    "time"

    "github.com/google/uuid"

    "github.com/lehoang/visit-registration/internal/model"
)

// RegistrationRepo provides CRUD operations and capacity counts for
// visit registrations.  All timestamp fields are stored in UTC.
// Counting is always a live query: there is no cache between the
// admission check and the store, and the count-then-insert sequence is
// deliberately not wrapped in a transaction.  Two concurrent
// submissions near a capacity boundary can therefore both pass the
// check; the overshoot is bounded by the number of in-flight requests
// and accepted for this workload.
type RegistrationRepo struct {
    db *sql.DB
}

// NewRegistrationRepo returns a new RegistrationRepo bound to the given database.
func NewRegistrationRepo(db *sql.DB) *RegistrationRepo { return &RegistrationRepo{db: db} }

const registrationColumns = `id, name, email, phone, school, student_id, visit_date, visit_time,
       floor, purpose, purpose_detail, contact, status, created_at, updated_at`

// Create inserts a new registration with a fresh ID, pending status
// and the given creation instant.  The stored row is written back onto
// the provided record.
func (r *RegistrationRepo) Create(ctx context.Context, reg *model.Registration, now time.Time) error {
    reg.ID = uuid.NewString()
    reg.Status = model.StatusPending
    reg.CreatedAt = now.UTC()
    reg.UpdatedAt = reg.CreatedAt
    const q = `INSERT INTO registrations
        (id, name, email, phone, school, student_id, visit_date, visit_time,
         floor, purpose, purpose_detail, contact, status, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
    _, err := r.db.ExecContext(ctx, q,
        reg.ID, reg.Name, reg.Email, reg.Phone, reg.School, reg.StudentID,
        reg.Date, reg.Time, reg.Floor, reg.Purpose, reg.PurposeDetail,
        reg.Contact, reg.Status, reg.CreatedAt, reg.UpdatedAt)
    return err
}

// GetByID loads a single registration.  ErrNotFound is returned when
// no row matches.
func (r *RegistrationRepo) GetByID(ctx context.Context, id string) (model.Registration, error) {
    const q = `SELECT ` + registrationColumns + ` FROM registrations WHERE id = ?`
    reg, err := scanRegistration(r.db.QueryRowContext(ctx, q, id))
    if errors.Is(err, sql.ErrNoRows) {
        return model.Registration{}, ErrNotFound
    }
    return reg, err
}

// ListFilter narrows the result of List.  Empty fields are ignored.
type ListFilter struct {
    Date   string
    Status string
    Floor  string
}

// List returns registrations matching the filter, newest first.
func (r *RegistrationRepo) List(ctx context.Context, f ListFilter) ([]model.Registration, error) {
    q := `SELECT ` + registrationColumns + ` FROM registrations`
    var conds []string
    var args []interface{}
    if f.Date != "" {
        conds = append(conds, "visit_date = ?")
        args = append(args, f.Date)
    }
    if f.Status != "" {
        conds = append(conds, "status = ?")
        args = append(args, f.Status)
    }
    if f.Floor != "" {
        conds = append(conds, "floor = ?")
        args = append(args, f.Floor)
    }
    if len(conds) > 0 {
        q += " WHERE " + strings.Join(conds, " AND ")
    }
    q += " ORDER BY created_at DESC"
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    items := make([]model.Registration, 0)
    for rows.Next() {
        reg, err := scanRegistration(rows)
        if err != nil {
            return nil, err
        }
        items = append(items, reg)
    }
    return items, rows.Err()
}

// UpdateStatus sets the status and updated_at of one registration and
// returns the stored row.  The caller is responsible for transition
// rules; this method only requires that the row exists.
func (r *RegistrationRepo) UpdateStatus(ctx context.Context, id, status string, now time.Time) (model.Registration, error) {
    const q = `UPDATE registrations SET status = ?, updated_at = ? WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, status, now.UTC(), id)
    if err != nil {
        return model.Registration{}, err
    }
    if n, err := res.RowsAffected(); err == nil && n == 0 {
        // Either the row is missing or the status was unchanged;
        // disambiguate with a read.
        if _, err := r.GetByID(ctx, id); err != nil {
            return model.Registration{}, err
        }
    }
    return r.GetByID(ctx, id)
}

// Delete removes one registration.  ErrNotFound when nothing matched.
func (r *RegistrationRepo) Delete(ctx context.Context, id string) error {
    res, err := r.db.ExecContext(ctx, `DELETE FROM registrations WHERE id = ?`, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrNotFound
    }
    return nil
}

// CountByDate counts registrations for a calendar day that consume
// capacity.  Rejected rows are excluded regardless of when they were
// rejected.
func (r *RegistrationRepo) CountByDate(ctx context.Context, date string) (int, error) {
    const q = `SELECT COUNT(*) FROM registrations
               WHERE visit_date = ? AND status IN ('pending','approved')`
    var n int
    err := r.db.QueryRowContext(ctx, q, date).Scan(&n)
    return n, err
}

// CountByDateAndFloor is CountByDate narrowed to a single floor.
func (r *RegistrationRepo) CountByDateAndFloor(ctx context.Context, date, floor string) (int, error) {
    const q = `SELECT COUNT(*) FROM registrations
               WHERE visit_date = ? AND floor = ? AND status IN ('pending','approved')`
    var n int
    err := r.db.QueryRowContext(ctx, q, date, floor).Scan(&n)
    return n, err
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
    Scan(dest ...interface{}) error
}

func scanRegistration(row rowScanner) (model.Registration, error) {
    var reg model.Registration
    var school, studentID, visitTime, purposeDetail, contact sql.NullString
    err := row.Scan(
        &reg.ID, &reg.Name, &reg.Email, &reg.Phone, &school, &studentID,
        &reg.Date, &visitTime, &reg.Floor, &reg.Purpose, &purposeDetail,
        &contact, &reg.Status, &reg.CreatedAt, &reg.UpdatedAt,
    )
    if err != nil {
        return model.Registration{}, err
    }
    reg.School = school.String
    reg.StudentID = studentID.String
    reg.Time = visitTime.String
    reg.PurposeDetail = purposeDetail.String
    reg.Contact = contact.String
    return reg, nil
}
