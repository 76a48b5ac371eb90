package services

import (
	"context"
	"testing"
	"time"

	"github.com/soaringjerry/Candor/internal/cache"
	"github.com/soaringjerry/Candor/internal/form"
	"github.com/soaringjerry/Candor/internal/models"
)

func TestFormCreateValidatesAndInvalidatesCache(t *testing.T) {
	b := newStubBackend()
	b.forms = []form.Definition{peerForm()}
	audit := &stubAudit{}
	svc := NewFormService(b, cache.NewMemoryCache(), time.Minute, audit)
	admin := sessionCtx(models.RoleAdmin, "root")

	if _, err := svc.List(admin); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if _, err := svc.List(admin); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if b.listCalls != 1 {
		t.Fatalf("second List should hit the cache, backend called %d times", b.listCalls)
	}

	_, err := svc.Create(admin, form.Definition{Title: "Bad", Fields: []form.FieldSpec{{Label: "Pick", Type: form.Radio{Options: []string{" ", ""}}}}})
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorInvalid {
		t.Fatalf("expected invalid, got %v", err)
	}
	errs, ok := se.Details.(form.ValidationErrors)
	if !ok || len(errs) != 1 || errs[0].Code != form.CodeMissingOptions {
		t.Fatalf("expected MissingOptions detail, got %#v", se.Details)
	}
	if len(b.created) != 0 {
		t.Fatalf("invalid form must not reach the backend")
	}

	created, err := svc.Create(admin, form.Definition{Title: " Pulse ", Fields: []form.FieldSpec{
		{Label: "Mood", Type: form.Select{Options: []string{"Up", "Down", "Up"}}},
	}})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ID != "F-new" || created.Title != "Pulse" {
		t.Fatalf("unexpected created form %+v", created)
	}
	if opts := form.Options(created.Fields[0].Type); len(opts) != 2 {
		t.Fatalf("options should be deduplicated, got %v", opts)
	}
	if len(audit.entries) != 1 || audit.entries[0].Action != "form.create" {
		t.Fatalf("expected a form.create audit entry, got %+v", audit.entries)
	}

	if _, err := svc.List(admin); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if b.listCalls != 2 {
		t.Fatalf("Create must invalidate the forms cache")
	}
}

func TestFormCreateRequiresAdmin(t *testing.T) {
	svc := NewFormService(newStubBackend(), nil, time.Minute, nil)
	_, err := svc.Create(sessionCtx(models.RoleEmployee, "bob"), peerForm())
	if se, ok := AsServiceError(err); !ok || se.Code != ErrorForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
	_, err = svc.Create(context.Background(), peerForm())
	if se, ok := AsServiceError(err); !ok || se.Code != ErrorUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestFormGetAndDescribe(t *testing.T) {
	b := newStubBackend()
	b.forms = []form.Definition{peerForm()}
	svc := NewFormService(b, nil, time.Minute, nil)
	ctx := sessionCtx(models.RoleEmployee, "bob")

	ds, err := svc.Describe(ctx, "F1")
	if err != nil {
		t.Fatalf("Describe returned error: %v", err)
	}
	if len(ds) != 2 || ds[0].Key != "rating-0" || ds[1].Key != "text-1" {
		t.Fatalf("unexpected descriptors %+v", ds)
	}
	_, err = svc.Get(ctx, "nope")
	if se, ok := AsServiceError(err); !ok || se.Code != ErrorNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
}
