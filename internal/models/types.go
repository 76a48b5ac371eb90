package models

import (
	"fmt"
	"time"
)

// Role is the authenticated persona. Areas of the site are keyed by role.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

var Roles = []Role{RoleEmployee, RoleManager, RoleAdmin}

func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleEmployee, RoleManager, RoleAdmin:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// LoginPath is the area's login page.
func (r Role) LoginPath() string {
	return "/pages/" + string(r) + "/login"
}

// DashboardPath is where an authenticated user of this role lands.
func (r Role) DashboardPath() string {
	if r == RoleAdmin {
		return "/pages/admin/dashboard"
	}
	return "/pages/" + string(r) + "/dashboard"
}

// CanSignUp reports whether the area has a self-service signup page.
func (r Role) CanSignUp() bool {
	return r != RoleAdmin
}

// Session is the explicit request context created at login. Business logic
// reads it from the request context only.
type Session struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Role       Role      `json:"role"`
	Username   string    `json:"username"`
	Department string    `json:"department,omitempty"`
	Token      string    `json:"token"`
	CreatedAt  time.Time `json:"createdAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// Credentials are forwarded verbatim to the backend.
type Credentials struct {
	Username   string `json:"username"`
	Email      string `json:"email,omitempty"`
	Password   string `json:"password"`
	Department string `json:"department,omitempty"`
}

// Employee is a directory entry used to pick a feedback peer.
type Employee struct {
	ID         string `json:"_id"`
	Username   string `json:"username"`
	Email      string `json:"email,omitempty"`
	Department string `json:"department,omitempty"`
}

// Feedback is a submitted response as the backend stores it.
type Feedback struct {
	ID          string    `json:"_id"`
	FormID      string    `json:"formId"`
	RequestedID string    `json:"requestedId"`
	SenderID    string    `json:"senderId,omitempty"`
	SenderName  string    `json:"senderName,omitempty"`
	ReceiverID  string    `json:"receiverId,omitempty"`
	Rating      int       `json:"rating"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"createdAt"`
}
