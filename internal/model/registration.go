package model

import "time"

// Registration statuses.  A registration is created as pending and is
// moved exactly once by an administrator to approved or rejected.
// Approved and rejected are terminal.
const (
    StatusPending  = "pending"
    StatusApproved = "approved"
    StatusRejected = "rejected"
)

// Registration records a single visit request submitted through the
// public form.  Capacity accounting is keyed on Date, Floor and
// Status: pending and approved rows consume capacity, rejected rows
// never do.
//
// Fields:
//  ID            – opaque unique identifier assigned at creation.
//  Name          – submitter's full name.
//  Email         – submitter's email address, used for notifications.
//  Phone         – contact phone number.
//  School        – school or organisation, may be empty.
//  StudentID     – student identifier, may be empty.
//  Date          – requested visit day, "YYYY-MM-DD".
//  Time          – optional requested time, "HH:MM".
//  Floor         – floor identifier the visit is scoped to.
//  Purpose       – visit purpose, usually one of the configured options.
//  PurposeDetail – optional free-text elaboration of the purpose.
//  Contact       – how the submitter found out, from configured options.
//  Status        – pending | approved | rejected.
//  CreatedAt     – creation timestamp (UTC).
//  UpdatedAt     – last status change timestamp (UTC).
type Registration struct {
    ID            string    `json:"id"`
    Name          string    `json:"name"`
    Email         string    `json:"email"`
    Phone         string    `json:"phone"`
    School        string    `json:"school,omitempty"`
    StudentID     string    `json:"studentId,omitempty"`
    Date          string    `json:"date"`
    Time          string    `json:"time,omitempty"`
    Floor         string    `json:"floor"`
    Purpose       string    `json:"purpose"`
    PurposeDetail string    `json:"purposeDetail,omitempty"`
    Contact       string    `json:"contact,omitempty"`
    Status        string    `json:"status"`
    CreatedAt     time.Time `json:"createdAt"`
    UpdatedAt     time.Time `json:"updatedAt"`
}

// CountsAgainstCapacity reports whether the registration consumes
// capacity for its date and floor.
func (r Registration) CountsAgainstCapacity() bool {
    return r.Status == StatusPending || r.Status == StatusApproved
}
