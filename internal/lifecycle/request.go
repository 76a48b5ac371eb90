package lifecycle

import (
	"errors"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusResponded Status = "responded"
	StatusRejected  Status = "rejected"
	StatusExpired   Status = "expired"
)

// Statuses in dashboard order.
var Statuses = []Status{StatusPending, StatusRejected, StatusExpired, StatusResponded}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusResponded, StatusRejected, StatusExpired:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusResponded || s == StatusRejected || s == StatusExpired
}

var (
	ErrRequestAlreadyTerminal = errors.New("request is no longer pending")
	ErrRequestExpired         = errors.New("request deadline has passed")
)

// Request is a feedback request as the backend reports it.
type Request struct {
	ID               string    `json:"_id"`
	SenderID         string    `json:"senderId"`
	SenderName       string    `json:"senderName,omitempty"`
	ReceiverID       string    `json:"receiverId"`
	ReceiverName     string    `json:"receiverName,omitempty"`
	Message          string    `json:"message"`
	Deadline         time.Time `json:"deadline"`
	Status           Status    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
	FeedbackResponse string    `json:"feedbackResponse,omitempty"`
}

// New returns a pending request; status starts pending regardless of input.
func New(senderID, receiverID, message string, deadline, now time.Time) Request {
	return Request{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Message:    message,
		Deadline:   deadline,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// DisplayStatus derives the status every decision must use: a pending
// request whose deadline is behind now reads as expired.
func DisplayStatus(r Request, now time.Time) Status {
	if r.Status == StatusPending && now.After(r.Deadline) {
		return StatusExpired
	}
	return r.Status
}

func CanRespond(r Request, now time.Time) error {
	switch DisplayStatus(r, now) {
	case StatusPending:
		return nil
	case StatusExpired:
		return ErrRequestExpired
	}
	return ErrRequestAlreadyTerminal
}

func CanReject(r Request, now time.Time) error {
	return CanRespond(r, now)
}

// Respond returns r as it will look once the backend accepts the response.
func Respond(r Request, response string, now time.Time) (Request, error) {
	if err := CanRespond(r, now); err != nil {
		return r, err
	}
	r.Status = StatusResponded
	r.FeedbackResponse = response
	r.UpdatedAt = now
	return r, nil
}

func Reject(r Request, now time.Time) (Request, error) {
	if err := CanReject(r, now); err != nil {
		return r, err
	}
	r.Status = StatusRejected
	r.UpdatedAt = now
	return r, nil
}
