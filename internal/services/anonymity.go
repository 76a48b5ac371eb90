package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/soaringjerry/Candor/internal/db"
	"github.com/soaringjerry/Candor/internal/form"
	"github.com/soaringjerry/Candor/internal/logging"
	"github.com/soaringjerry/Candor/internal/models"
	"github.com/soaringjerry/Candor/internal/submission"
)

type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, requestID string, def form.Definition, anonymous bool, at time.Time) error
	SnapshotForRequest(ctx context.Context, requestID string) (db.SubmissionRef, bool, error)
}

type formLookup interface {
	Get(ctx context.Context, id string) (form.Definition, error)
}

// FeedbackView is a response as shown to its reader, redacted when the
// answered form asked for anonymity.
type FeedbackView struct {
	ID          string              `json:"_id,omitempty"`
	FormID      string              `json:"formId"`
	RequestedID string              `json:"requestedId"`
	From        submission.Identity `json:"from"`
	Anonymous   bool                `json:"anonymous"`
	Rating      int                 `json:"rating"`
	Message     string              `json:"message"`
	CreatedAt   time.Time           `json:"createdAt"`
}

// anonymity decides whether a stored response must hide its author. The
// local submission record wins; without one the current form is consulted.
type anonymity struct {
	snapshots SnapshotStore
	forms     formLookup
}

func newAnonymity(snapshots SnapshotStore, forms *FormService) anonymity {
	a := anonymity{snapshots: snapshots}
	if forms != nil {
		a.forms = forms
	}
	return a
}

func (a anonymity) isAnonymous(ctx context.Context, requestID, formID string) bool {
	if a.snapshots != nil && requestID != "" {
		ref, found, err := a.snapshots.SnapshotForRequest(ctx, requestID)
		if err != nil {
			logging.FromContext(ctx).Warn(ctx, "snapshot lookup failed", zap.String("request_id", requestID), zap.Error(err))
		} else if found {
			return ref.Anonymous
		}
	}
	// without a snapshot or a readable form, fail closed
	if a.forms == nil || formID == "" {
		return true
	}
	def, err := a.forms.Get(ctx, formID)
	if err != nil {
		return true
	}
	return submission.AnyAnonymous(def)
}

func (a anonymity) view(ctx context.Context, fb models.Feedback, from submission.Identity) FeedbackView {
	anon := a.isAnonymous(ctx, fb.RequestedID, fb.FormID)
	return FeedbackView{
		ID:          fb.ID,
		FormID:      fb.FormID,
		RequestedID: fb.RequestedID,
		From:        submission.Redact(from, anon),
		Anonymous:   anon,
		Rating:      fb.Rating,
		Message:     fb.Message,
		CreatedAt:   fb.CreatedAt,
	}
}

func senderOf(fb models.Feedback) submission.Identity {
	return submission.Identity{SenderID: fb.SenderID, SenderName: fb.SenderName}
}
