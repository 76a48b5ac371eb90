package services

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/soaringjerry/Candor/internal/backend"
	"github.com/soaringjerry/Candor/internal/logging"
	"github.com/soaringjerry/Candor/internal/models"
)

type AuthBackend interface {
	Login(ctx context.Context, area models.Role, creds models.Credentials) (backend.LoginResult, error)
	Logout(ctx context.Context, area models.Role, token string) ([]*http.Cookie, error)
	Signup(ctx context.Context, area models.Role, creds models.Credentials) error
}

type SessionStore interface {
	Save(ctx context.Context, sess models.Session) error
	Load(ctx context.Context, id string) (models.Session, bool)
	Delete(ctx context.Context, id string)
}

// SessionService owns the explicit session context: created at login,
// resolved on every request, destroyed at logout.
type SessionService struct {
	backend AuthBackend
	store   SessionStore
	audit   AuditLog
	now     func() time.Time
	idGen   func() string
	ttl     time.Duration
}

func NewSessionService(b AuthBackend, store SessionStore, audit AuditLog, ttl time.Duration) *SessionService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionService{
		backend: b,
		store:   store,
		audit:   audit,
		now:     func() time.Time { return time.Now().UTC() },
		idGen:   func() string { return uuid.NewString() },
		ttl:     ttl,
	}
}

func (s *SessionService) TTL() time.Duration { return s.ttl }

// LoginResult is the new session plus the backend cookies for the browser.
type LoginResult struct {
	Session models.Session
	Cookies []*http.Cookie
}

func (s *SessionService) Login(ctx context.Context, area models.Role, creds models.Credentials) (*LoginResult, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	creds.Username = strings.TrimSpace(creds.Username)
	if (creds.Email == "" && creds.Username == "") || strings.TrimSpace(creds.Password) == "" {
		return nil, NewInvalidError("email/password required")
	}
	res, err := s.backend.Login(ctx, area, creds)
	if err != nil {
		return nil, fromBackend(err)
	}
	if res.Token == "" {
		return nil, NewBadGatewayError("backend did not issue a session token")
	}
	now := s.now()
	username := res.Account.Username
	if username == "" {
		username = creds.Username
	}
	sess := models.Session{
		ID:         s.idGen(),
		UserID:     res.Account.ID,
		Role:       area,
		Username:   username,
		Department: res.Account.Department,
		Token:      res.Token,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.ttl),
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	audit(ctx, s.audit, sess.UserID, "session.login", string(area), "")
	return &LoginResult{Session: sess, Cookies: res.Cookies}, nil
}

// Logout ends the session in ctx. A backend failure is logged; the local
// session is removed regardless.
func (s *SessionService) Logout(ctx context.Context) ([]*http.Cookie, error) {
	sess, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	cookies, berr := s.backend.Logout(ctx, sess.Role, sess.Token)
	if berr != nil {
		logging.FromContext(ctx).Warn(ctx, "backend logout failed", zap.Error(berr))
	}
	s.store.Delete(ctx, sess.ID)
	audit(ctx, s.audit, sess.UserID, "session.logout", string(sess.Role), "")
	return cookies, nil
}

func (s *SessionService) Signup(ctx context.Context, area models.Role, creds models.Credentials) error {
	if !area.CanSignUp() {
		return NewInvalidError("signup is not available for " + string(area))
	}
	creds.Email = strings.TrimSpace(creds.Email)
	creds.Username = strings.TrimSpace(creds.Username)
	if creds.Email == "" || creds.Username == "" || strings.TrimSpace(creds.Password) == "" {
		return NewInvalidError("username, email and password required")
	}
	if err := s.backend.Signup(ctx, area, creds); err != nil {
		return fromBackend(err)
	}
	audit(ctx, s.audit, creds.Email, "session.signup", string(area), "")
	return nil
}

// Resolve loads a live session. Expired records are dropped.
func (s *SessionService) Resolve(ctx context.Context, id string) (models.Session, bool) {
	if id == "" {
		return models.Session{}, false
	}
	sess, ok := s.store.Load(ctx, id)
	if !ok {
		return models.Session{}, false
	}
	if sess.Expired(s.now()) {
		s.store.Delete(ctx, id)
		return models.Session{}, false
	}
	return sess, true
}
