package model

import "time"

// Staff roles. ADMIN manages accounts, packages and settings; WORKER runs
// sales, check-in and the tracking board.
const (
    RoleAdmin  = "ADMIN"
    RoleWorker = "WORKER"
)

// User is a staff account. Customers never authenticate; every user row is
// an employee of the park.
//
// Fields:
//  ID           – primary key identifier.
//  Username     – unique login name, also recorded on sales as SoldBy.
//  PasswordHash – bcrypt hash of the password.
//  Role         – ADMIN or WORKER.
//  IsActive     – deactivated accounts cannot log in.
//  LastLogin    – last successful login, nil if never.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type User struct {
    ID           uint64     `json:"id"`
    Username     string     `json:"username"`
    PasswordHash string     `json:"-"`
    Role         string     `json:"role"`
    IsActive     bool       `json:"is_active"`
    LastLogin    *time.Time `json:"last_login,omitempty"`
    CreatedAt    time.Time  `json:"created_at"`
    UpdatedAt    time.Time  `json:"updated_at"`
}
