package services

import (
	"context"
	"net/http"
	"time"

	"github.com/soaringjerry/Candor/internal/backend"
	"github.com/soaringjerry/Candor/internal/db"
	"github.com/soaringjerry/Candor/internal/form"
	"github.com/soaringjerry/Candor/internal/lifecycle"
	"github.com/soaringjerry/Candor/internal/models"
	"github.com/soaringjerry/Candor/internal/quality"
	"github.com/soaringjerry/Candor/internal/submission"
)

var testNow = time.Date(2025, 5, 8, 12, 0, 0, 0, time.UTC)

type stubBackend struct {
	forms       []form.Definition
	listCalls   int
	created     []form.Definition
	employees   []models.Employee
	requests    map[string]lifecycle.Request
	feedback    map[string]*models.Feedback
	messages    []models.Feedback
	department  []models.Feedback
	submitted   []submission.Payload
	rejected    []string
	sent        []backend.NewRequest
	receivedArg []lifecycle.Status
	submitErr   error
	loginResult backend.LoginResult
	loginErr    error
	logouts     int
}

func newStubBackend() *stubBackend {
	return &stubBackend{requests: map[string]lifecycle.Request{}, feedback: map[string]*models.Feedback{}}
}

func (b *stubBackend) Login(ctx context.Context, area models.Role, creds models.Credentials) (backend.LoginResult, error) {
	return b.loginResult, b.loginErr
}

func (b *stubBackend) Logout(ctx context.Context, area models.Role, token string) ([]*http.Cookie, error) {
	b.logouts++
	return []*http.Cookie{{Name: "refreshToken", MaxAge: -1}}, nil
}

func (b *stubBackend) Signup(ctx context.Context, area models.Role, creds models.Credentials) error {
	return nil
}

func (b *stubBackend) CreateForm(ctx context.Context, token string, def form.Definition) (form.Definition, error) {
	def.ID = "F-new"
	b.created = append(b.created, def)
	return def, nil
}

func (b *stubBackend) ListForms(ctx context.Context, token string) ([]form.Definition, error) {
	b.listCalls++
	return b.forms, nil
}

func (b *stubBackend) ListEmployees(ctx context.Context, token string) ([]models.Employee, error) {
	return b.employees, nil
}

func (b *stubBackend) SendRequest(ctx context.Context, token string, nr backend.NewRequest) (lifecycle.Request, error) {
	b.sent = append(b.sent, nr)
	return lifecycle.Request{ID: "R-new"}, nil
}

func (b *stubBackend) all() []lifecycle.Request {
	out := make([]lifecycle.Request, 0, len(b.requests))
	for _, id := range []string{"R1", "R2", "R3", "R4"} {
		if r, ok := b.requests[id]; ok {
			out = append(out, r)
		}
	}
	return out
}

func (b *stubBackend) RequestedFeedback(ctx context.Context, token string) ([]lifecycle.Request, error) {
	return b.all(), nil
}

func (b *stubBackend) ReceivedRequests(ctx context.Context, token string, status lifecycle.Status) ([]lifecycle.Request, error) {
	b.receivedArg = append(b.receivedArg, status)
	var out []lifecycle.Request
	for _, r := range b.all() {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (b *stubBackend) AllReceivedRequests(ctx context.Context, token string) ([]lifecycle.Request, error) {
	return b.all(), nil
}

func (b *stubBackend) SubmitFeedback(ctx context.Context, token string, p submission.Payload) error {
	if b.submitErr != nil {
		return b.submitErr
	}
	b.submitted = append(b.submitted, p)
	return nil
}

func (b *stubBackend) RejectRequest(ctx context.Context, token, id string) error {
	b.rejected = append(b.rejected, id)
	return nil
}

func (b *stubBackend) RequestDetail(ctx context.Context, token, id string) (backend.Detail, error) {
	r, ok := b.requests[id]
	if !ok {
		return backend.Detail{}, &backend.Error{Status: http.StatusNotFound, Message: "no such request"}
	}
	return backend.Detail{Request: r, Feedback: b.feedback[id]}, nil
}

func (b *stubBackend) FeedbackMessages(ctx context.Context, token string) ([]models.Feedback, error) {
	return b.messages, nil
}

func (b *stubBackend) DepartmentFeedback(ctx context.Context, token, department string) ([]models.Feedback, error) {
	return b.department, nil
}

type stubSessions struct {
	m map[string]models.Session
}

func (s *stubSessions) Save(ctx context.Context, sess models.Session) error {
	if s.m == nil {
		s.m = map[string]models.Session{}
	}
	s.m[sess.ID] = sess
	return nil
}

func (s *stubSessions) Load(ctx context.Context, id string) (models.Session, bool) {
	sess, ok := s.m[id]
	return sess, ok
}

func (s *stubSessions) Delete(ctx context.Context, id string) { delete(s.m, id) }

type stubAudit struct{ entries []db.AuditEntry }

func (a *stubAudit) AddAudit(ctx context.Context, e db.AuditEntry) error {
	a.entries = append(a.entries, e)
	return nil
}

func (a *stubAudit) ListAudit(ctx context.Context, limit int) ([]db.AuditEntry, error) {
	if limit > len(a.entries) {
		limit = len(a.entries)
	}
	return a.entries[:limit], nil
}

func (a *stubAudit) actions() []string {
	out := make([]string, 0, len(a.entries))
	for _, e := range a.entries {
		out = append(out, e.Action)
	}
	return out
}

type stubClassifier struct {
	verdict quality.Verdict
	seen    []string
}

func (c *stubClassifier) Classify(ctx context.Context, text string) quality.Verdict {
	c.seen = append(c.seen, text)
	return c.verdict
}

type stubSnapshots struct {
	refs map[string]db.SubmissionRef
}

func (s *stubSnapshots) SaveSnapshot(ctx context.Context, requestID string, def form.Definition, anonymous bool, at time.Time) error {
	if s.refs == nil {
		s.refs = map[string]db.SubmissionRef{}
	}
	s.refs[requestID] = db.SubmissionRef{RequestID: requestID, FormID: def.ID, Anonymous: anonymous, SubmittedAt: at, Form: def}
	return nil
}

func (s *stubSnapshots) SnapshotForRequest(ctx context.Context, requestID string) (db.SubmissionRef, bool, error) {
	ref, ok := s.refs[requestID]
	return ref, ok, nil
}

type stubSummarizer struct {
	text string
	err  error
}

func (s stubSummarizer) Summarize(ctx context.Context, texts []string) (string, error) {
	return s.text, s.err
}

func sessionCtx(role models.Role, userID string) context.Context {
	return WithSession(context.Background(), models.Session{
		ID: "S1", UserID: userID, Role: role, Username: userID, Department: "Design", Token: "tok-" + userID,
	})
}

func peerForm() form.Definition {
	return form.Definition{ID: "F1", Title: "Peer", Fields: []form.FieldSpec{
		{ID: "a", Label: "Quality", Type: form.Rating{}, Required: true},
		{ID: "b", Label: "Comments", Type: form.Text{}},
	}}
}
