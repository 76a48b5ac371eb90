package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/soaringjerry/Candor/internal/backend"
	"github.com/soaringjerry/Candor/internal/form"
	"github.com/soaringjerry/Candor/internal/lifecycle"
	"github.com/soaringjerry/Candor/internal/logging"
	"github.com/soaringjerry/Candor/internal/models"
	"github.com/soaringjerry/Candor/internal/quality"
	"github.com/soaringjerry/Candor/internal/submission"
)

type FeedbackBackend interface {
	ListEmployees(ctx context.Context, token string) ([]models.Employee, error)
	SendRequest(ctx context.Context, token string, nr backend.NewRequest) (lifecycle.Request, error)
	RequestedFeedback(ctx context.Context, token string) ([]lifecycle.Request, error)
	ReceivedRequests(ctx context.Context, token string, status lifecycle.Status) ([]lifecycle.Request, error)
	AllReceivedRequests(ctx context.Context, token string) ([]lifecycle.Request, error)
	SubmitFeedback(ctx context.Context, token string, p submission.Payload) error
	RejectRequest(ctx context.Context, token, id string) error
	RequestDetail(ctx context.Context, token, id string) (backend.Detail, error)
	FeedbackMessages(ctx context.Context, token string) ([]models.Feedback, error)
}

type Classifier interface {
	Classify(ctx context.Context, text string) quality.Verdict
}

type FeedbackService struct {
	backend    FeedbackBackend
	forms      formLookup
	classifier Classifier
	snapshots  SnapshotStore
	audit      AuditLog
	anon       anonymity
	now        func() time.Time
}

func NewFeedbackService(b FeedbackBackend, forms *FormService, classifier Classifier, snapshots SnapshotStore, audit AuditLog) *FeedbackService {
	return &FeedbackService{
		backend:    b,
		forms:      forms,
		classifier: classifier,
		snapshots:  snapshots,
		audit:      audit,
		anon:       newAnonymity(snapshots, forms),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *FeedbackService) views(reqs []lifecycle.Request) []lifecycle.View {
	now := s.now()
	out := make([]lifecycle.View, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, lifecycle.NewView(r, now))
	}
	return out
}

// Employees lists the peers a request can be sent to, without the caller.
func (s *FeedbackService) Employees(ctx context.Context) ([]models.Employee, error) {
	sess, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	all, err := s.backend.ListEmployees(ctx, sess.Token)
	if err != nil {
		return nil, fromBackend(err)
	}
	out := make([]models.Employee, 0, len(all))
	for _, e := range all {
		if e.ID != sess.UserID {
			out = append(out, e)
		}
	}
	return out, nil
}

// Received lists requests addressed to the caller, filtered by derived
// status. Pending and expired are both stored as pending.
func (s *FeedbackService) Received(ctx context.Context, status lifecycle.Status) ([]lifecycle.View, error) {
	sess, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	if status != "" && !status.Valid() {
		return nil, NewInvalidError("unknown status " + string(status))
	}
	var reqs []lifecycle.Request
	switch status {
	case "":
		reqs, err = s.backend.AllReceivedRequests(ctx, sess.Token)
	case lifecycle.StatusPending, lifecycle.StatusExpired:
		reqs, err = s.backend.ReceivedRequests(ctx, sess.Token, lifecycle.StatusPending)
	default:
		reqs, err = s.backend.ReceivedRequests(ctx, sess.Token, status)
	}
	if err != nil {
		return nil, fromBackend(err)
	}
	return s.views(lifecycle.Filter(reqs, status, s.now())), nil
}

// Sent lists the requests the caller asked others for.
func (s *FeedbackService) Sent(ctx context.Context) ([]lifecycle.View, error) {
	sess, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	reqs, err := s.backend.RequestedFeedback(ctx, sess.Token)
	if err != nil {
		return nil, fromBackend(err)
	}
	return s.views(reqs), nil
}

func (s *FeedbackService) Counts(ctx context.Context) (map[lifecycle.Status]int, error) {
	sess, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	reqs, err := s.backend.AllReceivedRequests(ctx, sess.Token)
	if err != nil {
		return nil, fromBackend(err)
	}
	return lifecycle.CountByStatus(reqs, s.now()), nil
}

type RequestInput struct {
	PeerID   string    `json:"peerId"`
	Message  string    `json:"message"`
	Deadline time.Time `json:"deadline"`
}

// Request asks a peer for feedback. The new request always starts pending.
func (s *FeedbackService) Request(ctx context.Context, in RequestInput) (lifecycle.View, error) {
	sess, err := requireSession(ctx, models.RoleEmployee, models.RoleManager)
	if err != nil {
		return lifecycle.View{}, err
	}
	in.PeerID = strings.TrimSpace(in.PeerID)
	in.Message = strings.TrimSpace(in.Message)
	switch {
	case in.PeerID == "":
		return lifecycle.View{}, NewInvalidError("peer required")
	case in.PeerID == sess.UserID:
		return lifecycle.View{}, NewInvalidError("cannot request feedback from yourself")
	case in.Message == "":
		return lifecycle.View{}, NewInvalidError("message required")
	case !in.Deadline.After(s.now()):
		return lifecycle.View{}, NewInvalidError("deadline must be in the future")
	}
	created, err := s.backend.SendRequest(ctx, sess.Token, backend.NewRequest{PeerID: in.PeerID, Message: in.Message, Deadline: in.Deadline})
	if err != nil {
		return lifecycle.View{}, fromBackend(err)
	}
	now := s.now()
	local := lifecycle.New(sess.UserID, in.PeerID, in.Message, in.Deadline, now)
	local.ID = created.ID
	local.SenderName = sess.Username
	if !created.CreatedAt.IsZero() {
		local.CreatedAt, local.UpdatedAt = created.CreatedAt, created.UpdatedAt
	}
	audit(ctx, s.audit, sess.UserID, "request.send", local.ID, in.PeerID)
	return lifecycle.NewView(local, now), nil
}

// fresh fetches the current state of a request so every legality check sees
// what the backend sees now.
func (s *FeedbackService) fresh(ctx context.Context, sess models.Session, id string) (backend.Detail, error) {
	if strings.TrimSpace(id) == "" {
		return backend.Detail{}, NewInvalidError("request id required")
	}
	d, err := s.backend.RequestDetail(ctx, sess.Token, id)
	if err != nil {
		return backend.Detail{}, fromBackend(err)
	}
	if d.ReceiverID != "" && sess.UserID != "" && d.ReceiverID != sess.UserID {
		return backend.Detail{}, NewForbiddenError("request is addressed to someone else")
	}
	return d, nil
}

func fromLifecycle(err error) error {
	switch {
	case errors.Is(err, lifecycle.ErrRequestExpired):
		return NewConflictError("the request deadline has passed")
	case errors.Is(err, lifecycle.ErrRequestAlreadyTerminal):
		return NewConflictError("the request was already responded to or rejected")
	}
	return err
}

type RespondInput struct {
	RequestID string         `json:"requestId"`
	FormID    string         `json:"formId"`
	Answers   map[string]any `json:"answers"`
	Confirmed bool           `json:"confirmed"`
}

type RespondResult struct {
	Request    lifecycle.View        `json:"request"`
	Submission submission.Submission `json:"submission"`
	Verdict    quality.Verdict       `json:"verdict"`
}

// Respond answers a pending request with a filled-in form. A response the
// classifier calls unconstructive is held back until the author confirms.
func (s *FeedbackService) Respond(ctx context.Context, in RespondInput) (*RespondResult, error) {
	sess, err := requireSession(ctx, models.RoleEmployee, models.RoleManager)
	if err != nil {
		return nil, err
	}
	d, err := s.fresh(ctx, sess, in.RequestID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := lifecycle.CanRespond(d.Request, now); err != nil {
		return nil, fromLifecycle(err)
	}
	if strings.TrimSpace(in.FormID) == "" {
		return nil, NewInvalidError("form required")
	}
	def, err := s.forms.Get(ctx, in.FormID)
	if err != nil {
		return nil, err
	}
	answers, err := submission.AnswersFromKeys(def, in.Answers)
	if err != nil {
		return nil, invalidFromValidation(err)
	}
	sub, err := submission.Build(def, d.ID, answers, now)
	if err != nil {
		return nil, invalidFromValidation(err)
	}

	verdict := quality.Indeterminate
	if text, ok := sub.FirstText(); ok && strings.TrimSpace(text) != "" && s.classifier != nil {
		verdict = s.classifier.Classify(ctx, text)
	}
	if verdict == quality.NotConstructive && !in.Confirmed {
		return nil, &ConfirmationRequiredError{Verdict: verdict}
	}

	if err := s.backend.SubmitFeedback(ctx, sess.Token, sub.Payload()); err != nil {
		return nil, fromBackend(err)
	}
	s.remember(ctx, d.ID, def, sub)
	audit(ctx, s.audit, sess.UserID, "request.respond", d.ID, string(verdict))

	msg, _ := sub.FirstText()
	next, err := lifecycle.Respond(d.Request, msg, now)
	if err != nil {
		return nil, fromLifecycle(err)
	}
	return &RespondResult{Request: lifecycle.NewView(next, now), Submission: sub, Verdict: verdict}, nil
}

func (s *FeedbackService) remember(ctx context.Context, requestID string, def form.Definition, sub submission.Submission) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.SaveSnapshot(ctx, requestID, def, sub.Anonymous, sub.SubmittedAt); err != nil {
		logging.FromContext(ctx).Warn(ctx, "form snapshot failed", zap.String("request_id", requestID), zap.Error(err))
	}
}

func (s *FeedbackService) Reject(ctx context.Context, id string) (lifecycle.View, error) {
	sess, err := requireSession(ctx, models.RoleEmployee, models.RoleManager)
	if err != nil {
		return lifecycle.View{}, err
	}
	d, err := s.fresh(ctx, sess, id)
	if err != nil {
		return lifecycle.View{}, err
	}
	now := s.now()
	next, err := lifecycle.Reject(d.Request, now)
	if err != nil {
		return lifecycle.View{}, fromLifecycle(err)
	}
	if err := s.backend.RejectRequest(ctx, sess.Token, d.ID); err != nil {
		return lifecycle.View{}, fromBackend(err)
	}
	audit(ctx, s.audit, sess.UserID, "request.reject", d.ID, "")
	return lifecycle.NewView(next, now), nil
}

type DetailView struct {
	lifecycle.View
	Feedback *FeedbackView `json:"feedback,omitempty"`
}

// Detail shows one request with its response. The responder is hidden when
// the response is anonymous.
func (s *FeedbackService) Detail(ctx context.Context, id string) (DetailView, error) {
	sess, err := requireSession(ctx)
	if err != nil {
		return DetailView{}, err
	}
	if strings.TrimSpace(id) == "" {
		return DetailView{}, NewInvalidError("request id required")
	}
	d, err := s.backend.RequestDetail(ctx, sess.Token, id)
	if err != nil {
		return DetailView{}, fromBackend(err)
	}
	out := DetailView{View: lifecycle.NewView(d.Request, s.now())}
	if d.Feedback != nil {
		from := senderOf(*d.Feedback)
		if from.SenderID == "" {
			from = submission.Identity{SenderID: d.ReceiverID, SenderName: d.ReceiverName}
		}
		if d.Feedback.RequestedID == "" {
			d.Feedback.RequestedID = d.ID
		}
		v := s.anon.view(ctx, *d.Feedback, from)
		out.Feedback = &v
		if v.Anonymous {
			out.ReceiverID, out.ReceiverName = "", submission.AnonymousName
		}
	}
	return out, nil
}

// Messages lists the responses the caller received, redacted per response.
func (s *FeedbackService) Messages(ctx context.Context) ([]FeedbackView, error) {
	sess, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	fbs, err := s.backend.FeedbackMessages(ctx, sess.Token)
	if err != nil {
		return nil, fromBackend(err)
	}
	out := make([]FeedbackView, 0, len(fbs))
	for _, fb := range fbs {
		out = append(out, s.anon.view(ctx, fb, senderOf(fb)))
	}
	return out, nil
}
