package services

import (
	"context"
	"errors"
	"testing"

	"github.com/soaringjerry/Candor/internal/db"
	"github.com/soaringjerry/Candor/internal/models"
)

func TestAuditRecentRequiresAdmin(t *testing.T) {
	log := &stubAudit{}
	for i := 0; i < 3; i++ {
		_ = log.AddAudit(context.Background(), db.AuditEntry{Actor: "a1", Action: "form.create"})
	}
	svc := NewAuditService(log)

	if _, err := svc.Recent(context.Background(), 10); err == nil {
		t.Fatalf("expected unauthorized without a session")
	}
	_, err := svc.Recent(sessionCtx(models.RoleManager, "m1"), 10)
	var se *ServiceError
	if !errors.As(err, &se) || se.Code != ErrorForbidden {
		t.Fatalf("expected forbidden for manager, got %v", err)
	}

	got, err := svc.Recent(sessionCtx(models.RoleAdmin, "a1"), 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	all, _ := svc.Recent(sessionCtx(models.RoleAdmin, "a1"), 0)
	if len(all) != 3 {
		t.Fatalf("default limit should cover all 3 entries, got %d", len(all))
	}
}
