package profiles

import (
	"context"
	"testing"

	pkgerrors "github.com/aarogyam-agencies/storefront-backend/pkg/errors"
	"github.com/google/uuid"
)

func strPtr(s string) *string { return &s }

func newTestService(t *testing.T) Service {
	t.Helper()

	svc, err := NewService(NewRepository(openTestDB(t)))
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestGetReturnsEmptyProfileWhenUnsaved(t *testing.T) {
	svc := newTestService(t)
	userID := uuid.New()

	profile, err := svc.Get(context.Background(), userID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if profile.UserID != userID {
		t.Fatalf("expected user id %s, got %s", userID, profile.UserID)
	}
	if profile.FullName != nil || profile.Phone != nil {
		t.Fatal("expected empty profile fields")
	}
}

func TestUpdateCreatesThenOverwrites(t *testing.T) {
	svc := newTestService(t)
	userID := uuid.New()

	created, err := svc.Update(context.Background(), userID, UpdateInput{
		FullName: strPtr("  Asha Nair  "),
		Phone:    strPtr("9876543210"),
	})
	if err != nil {
		t.Fatalf("first update: %v", err)
	}
	if created.FullName == nil || *created.FullName != "Asha Nair" {
		t.Fatalf("expected trimmed name, got %v", created.FullName)
	}

	updated, err := svc.Update(context.Background(), userID, UpdateInput{
		FullName: strPtr("Asha N"),
	})
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if updated.FullName == nil || *updated.FullName != "Asha N" {
		t.Fatalf("expected overwritten name, got %v", updated.FullName)
	}
	if updated.Phone != nil {
		t.Fatal("phone omitted from the update must clear")
	}

	fetched, err := svc.Get(context.Background(), userID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if fetched.FullName == nil || *fetched.FullName != "Asha N" {
		t.Fatalf("expected persisted name, got %v", fetched.FullName)
	}
}

func TestUpdateBlankFieldsStoreAsNull(t *testing.T) {
	svc := newTestService(t)
	userID := uuid.New()

	profile, err := svc.Update(context.Background(), userID, UpdateInput{
		FullName: strPtr("   "),
		Phone:    strPtr(""),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if profile.FullName != nil || profile.Phone != nil {
		t.Fatal("blank fields must store as null")
	}
}

func TestServiceRejectsMissingUserID(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Get(context.Background(), uuid.Nil); pkgerrors.As(err) == nil {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.Update(context.Background(), uuid.Nil, UpdateInput{}); pkgerrors.As(err) == nil {
		t.Fatalf("expected validation error, got %v", err)
	}
}
