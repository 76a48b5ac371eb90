package services

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/soaringjerry/Candor/internal/cache"
	"github.com/soaringjerry/Candor/internal/form"
	"github.com/soaringjerry/Candor/internal/logging"
	"github.com/soaringjerry/Candor/internal/models"
)

const formsCacheKey = "candor:forms"

type FormBackend interface {
	CreateForm(ctx context.Context, token string, def form.Definition) (form.Definition, error)
	ListForms(ctx context.Context, token string) ([]form.Definition, error)
}

type FormService struct {
	backend FormBackend
	cache   cache.Cache
	ttl     time.Duration
	audit   AuditLog
}

func NewFormService(b FormBackend, c cache.Cache, ttl time.Duration, audit AuditLog) *FormService {
	if c == nil {
		c = cache.NewMemoryCache()
	}
	return &FormService{backend: b, cache: c, ttl: ttl, audit: audit}
}

// Validate normalizes def without storing it.
func (s *FormService) Validate(def form.Definition) (form.Definition, error) {
	out, err := form.ValidateDefinition(def)
	if err != nil {
		return form.Definition{}, invalidFromValidation(err)
	}
	return out, nil
}

func (s *FormService) Create(ctx context.Context, def form.Definition) (form.Definition, error) {
	sess, err := requireSession(ctx, models.RoleAdmin)
	if err != nil {
		return form.Definition{}, err
	}
	valid, err := s.Validate(def)
	if err != nil {
		return form.Definition{}, err
	}
	created, err := s.backend.CreateForm(ctx, sess.Token, valid)
	if err != nil {
		return form.Definition{}, fromBackend(err)
	}
	s.cache.Delete(ctx, formsCacheKey)
	audit(ctx, s.audit, sess.UserID, "form.create", created.ID, created.Title)
	return created, nil
}

// List reads through the forms cache.
func (s *FormService) List(ctx context.Context) ([]form.Definition, error) {
	sess, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	if b, ok := s.cache.Get(ctx, formsCacheKey); ok {
		var defs []form.Definition
		if err := json.Unmarshal(b, &defs); err == nil {
			return defs, nil
		}
	}
	defs, err := s.backend.ListForms(ctx, sess.Token)
	if err != nil {
		return nil, fromBackend(err)
	}
	if defs == nil {
		defs = []form.Definition{}
	}
	for _, def := range defs {
		for i, f := range def.Fields {
			if _, ok := f.Type.(form.Unsupported); ok {
				logging.FromContext(ctx).Warn(ctx, "form has a field of unsupported kind",
					zap.String("form_id", def.ID),
					zap.Int("field", i),
					zap.String("kind", string(f.Kind())),
				)
			}
		}
	}
	if b, err := json.Marshal(defs); err == nil {
		s.cache.Set(ctx, formsCacheKey, b, s.ttl)
	} else {
		logging.FromContext(ctx).Warn(ctx, "forms cache encode failed", zap.Error(err))
	}
	return defs, nil
}

func (s *FormService) Get(ctx context.Context, id string) (form.Definition, error) {
	defs, err := s.List(ctx)
	if err != nil {
		return form.Definition{}, err
	}
	for _, d := range defs {
		if d.ID == id {
			return d, nil
		}
	}
	return form.Definition{}, NewNotFoundError("form not found")
}

func (s *FormService) Describe(ctx context.Context, id string) ([]form.Descriptor, error) {
	def, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return form.DescribeForm(def), nil
}
