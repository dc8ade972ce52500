package auth

import (
	"context"
	"io"
	"testing"

	"github.com/aarogyam-agencies/storefront-backend/pkg/config"
	"github.com/aarogyam-agencies/storefront-backend/pkg/db/models"
	"github.com/aarogyam-agencies/storefront-backend/pkg/enums"
	pkgerrors "github.com/aarogyam-agencies/storefront-backend/pkg/errors"
	"github.com/aarogyam-agencies/storefront-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type stubSessions struct {
	registered []string
	revoked    []string
	err        error
}

func (s *stubSessions) Register(ctx context.Context, accessID string) error {
	if s.err != nil {
		return s.err
	}
	s.registered = append(s.registered, accessID)
	return nil
}

func (s *stubSessions) Revoke(ctx context.Context, accessID string) error {
	if s.err != nil {
		return s.err
	}
	s.revoked = append(s.revoked, accessID)
	return nil
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() {
		db.Exec("DELETE FROM users")
	})
	return db
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "storefront-test",
		ExpirationMinutes: 60,
	}
}

func newTestService(t *testing.T, sessions *stubSessions) Service {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(NewRepository(openTestDB(t)), sessions, testJWTConfig(), config.PasswordConfig{}, logg)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestRegisterRejectsWeakPayload(t *testing.T) {
	svc := newTestService(t, &stubSessions{})

	_, err := svc.Register(context.Background(), Credentials{Email: "not-an-email", Password: "short"})

	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := appErr.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %T", appErr.Details())
	}
	for _, field := range []string{"email", "password"} {
		if _, found := details[field]; !found {
			t.Fatalf("expected detail for %q, got %v", field, details)
		}
	}
}

func TestRegisterCreatesCustomerAndSession(t *testing.T) {
	sessions := &stubSessions{}
	svc := newTestService(t, sessions)

	session, err := svc.Register(context.Background(), Credentials{Email: "Asha@Example.com", Password: "correct horse"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if session.Token == "" {
		t.Fatal("expected a minted token")
	}
	if session.User.Email != "asha@example.com" {
		t.Fatalf("expected lowercased email, got %q", session.User.Email)
	}
	if session.User.Role != enums.UserRoleCustomer {
		t.Fatalf("expected customer role, got %s", session.User.Role)
	}
	if session.User.PasswordHash == "correct horse" {
		t.Fatal("password must not be stored in the clear")
	}
	if len(sessions.registered) != 1 {
		t.Fatalf("expected one registered session, got %d", len(sessions.registered))
	}
	if session.User.LastLoginAt == nil {
		t.Fatal("expected last login stamp")
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc := newTestService(t, &stubSessions{})
	creds := Credentials{Email: "asha@example.com", Password: "correct horse"}

	if _, err := svc.Register(context.Background(), creds); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := svc.Register(context.Background(), creds)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestLoginVerifiesPassword(t *testing.T) {
	sessions := &stubSessions{}
	svc := newTestService(t, sessions)

	if _, err := svc.Register(context.Background(), Credentials{Email: "asha@example.com", Password: "correct horse"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	session, err := svc.Login(context.Background(), Credentials{Email: "ASHA@example.com", Password: "correct horse"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if session.Token == "" {
		t.Fatal("expected a minted token")
	}
	if len(sessions.registered) != 2 {
		t.Fatalf("expected register+login sessions, got %d", len(sessions.registered))
	}

	_, err = svc.Login(context.Background(), Credentials{Email: "asha@example.com", Password: "wrong horse"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginUnknownEmailMatchesBadPassword(t *testing.T) {
	svc := newTestService(t, &stubSessions{})

	_, err := svc.Login(context.Background(), Credentials{Email: "ghost@example.com", Password: "whatever1"})

	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	// Same code and message as a bad password; no account probing.
	if typed.Message() != "invalid credentials" {
		t.Fatalf("unexpected message %q", typed.Message())
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	sessions := &stubSessions{}
	svc := newTestService(t, sessions)

	if err := svc.Logout(context.Background(), "jti-1"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "jti-1" {
		t.Fatalf("expected jti-1 revoked, got %v", sessions.revoked)
	}

	if err := svc.Logout(context.Background(), "  "); pkgerrors.As(err) == nil {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCurrentUser(t *testing.T) {
	svc := newTestService(t, &stubSessions{})

	session, err := svc.Register(context.Background(), Credentials{Email: "asha@example.com", Password: "correct horse"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	user, err := svc.CurrentUser(context.Background(), session.User.ID)
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if user.Email != "asha@example.com" {
		t.Fatalf("unexpected user %q", user.Email)
	}

	_, err = svc.CurrentUser(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
