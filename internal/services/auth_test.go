package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/serenehq/serene-backend/internal/domain"
	"github.com/serenehq/serene-backend/internal/pkg/ctxutil"
)

type fakeUserRepo struct {
	users []*domain.User
}

func (f *fakeUserRepo) Create(ctx context.Context, tx *gorm.DB, users []*domain.User) ([]*domain.User, error) {
	f.users = append(f.users, users...)
	return users, nil
}

func (f *fakeUserRepo) GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range f.users {
		for _, id := range userIDs {
			if u.ID == id {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func (f *fakeUserRepo) GetByEmails(ctx context.Context, tx *gorm.DB, emails []string) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range f.users {
		for _, e := range emails {
			if u.Email == e {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func (f *fakeUserRepo) EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := NewAuthService(nil, mustTestLogger(t), repo, "test-secret", time.Hour)

	user, err := svc.Register(context.Background(), "  Alex@Example.COM ", "supersecret", "Alex", "Rivera")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email != "alex@example.com" {
		t.Fatalf("email normalization: want=alex@example.com got=%s", user.Email)
	}
	if user.Password == "supersecret" {
		t.Fatalf("password stored in plaintext")
	}

	token, loggedIn, err := svc.Login(context.Background(), "alex@example.com", "supersecret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Fatalf("login user: want=%s got=%s", user.ID, loggedIn.ID)
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("token is not a JWT: %s", token)
	}

	ctx, err := svc.SetContextFromToken(context.Background(), token)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID != user.ID {
		t.Fatalf("request data: want user=%s got=%+v", user.ID, rd)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := NewAuthService(nil, mustTestLogger(t), repo, "test-secret", time.Hour)

	if _, err := svc.Register(context.Background(), "a@b.com", "supersecret", "", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "a@b.com", "wrong-password"); err == nil {
		t.Fatalf("login with wrong password should fail")
	}
	if _, _, err := svc.Login(context.Background(), "missing@b.com", "supersecret"); err == nil {
		t.Fatalf("login with unknown email should fail")
	}
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"empty email", "", "supersecret"},
		{"no at sign", "not-an-email", "supersecret"},
		{"short password", "a@b.com", "short"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewAuthService(nil, mustTestLogger(t), &fakeUserRepo{}, "s", time.Hour)
			if _, err := svc.Register(context.Background(), tc.email, tc.password, "", ""); err == nil {
				t.Fatalf("Register should fail for %q/%q", tc.email, tc.password)
			}
		})
	}
}

func TestSetContextFromTokenRejectsForgedToken(t *testing.T) {
	repo := &fakeUserRepo{}
	issuer := NewAuthService(nil, mustTestLogger(t), repo, "secret-a", time.Hour)
	verifier := NewAuthService(nil, mustTestLogger(t), repo, "secret-b", time.Hour)

	user, err := issuer.Register(context.Background(), "a@b.com", "supersecret", "", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	token, _, err := issuer.Login(context.Background(), user.Email, "supersecret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := verifier.SetContextFromToken(context.Background(), token); err == nil {
		t.Fatalf("token signed with another secret should be rejected")
	}
}
