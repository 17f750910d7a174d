package model

import "time"

// User represents an administrator account as stored in the `users`
// table.  The system is considered uninitialized while the table is
// empty; the first account is created through the open registration
// endpoint and every later account requires an admin token.
//
// Fields:
//  ID           – primary key identifier.
//  Username     – unique login name.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – account role (ADMIN).
//  IsVerified   – whether the account may log in.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64    `json:"id"`
    Username     string    `json:"username"`
    Email        string    `json:"email"`
    PasswordHash string    `json:"-"`
    Role         string    `json:"role"`
    IsVerified   bool      `json:"isVerified"`
    CreatedAt    time.Time `json:"createdAt"`
    UpdatedAt    time.Time `json:"updatedAt"`
}

// RoleAdmin is the only role currently issued.  Kept as a constant so
// the middleware and token issuance agree on the spelling.
const RoleAdmin = "ADMIN"
