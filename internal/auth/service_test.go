package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"counseld/internal/apperr"
	"counseld/internal/models"
)

type fakeStore struct {
	users map[string]*models.User
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: map[string]*models.User{}}
}

func (f *fakeStore) UserByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeStore) CreateUser(_ context.Context, u *models.User) error {
	f.users[u.Email] = u
	return nil
}

func newTestService() (*Service, *fakeStore) {
	st := newFakeStore()
	return NewService(st, NewJWT("test-secret", time.Hour)), st
}

func TestRegisterAndLogin(t *testing.T) {
	svc, st := newTestService()
	ctx := context.Background()

	result, err := svc.Register(ctx, "c@example.com", "hunter22", "")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if result.AccessToken == "" {
		t.Fatal("Register() returned an empty token")
	}
	if st.users["c@example.com"].Role != models.RoleCounselor {
		t.Fatalf("role = %v, want default COUNSELOR", st.users["c@example.com"].Role)
	}
	if st.users["c@example.com"].PasswordHash == "hunter22" {
		t.Fatal("password stored in cleartext")
	}

	if _, err := svc.Login(ctx, "c@example.com", "hunter22"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	_, err = svc.Login(ctx, "c@example.com", "wrong")
	if !apperr.IsKind(err, apperr.Unauthorized) {
		t.Fatalf("wrong password: err = %v, want Unauthorized", err)
	}
	_, err = svc.Login(ctx, "nobody@example.com", "hunter22")
	if !apperr.IsKind(err, apperr.Unauthorized) {
		t.Fatalf("unknown email: err = %v, want Unauthorized", err)
	}
}

func TestRegisterRejections(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "dup@example.com", "pw", models.RoleAdmin); err != nil {
		t.Fatalf("seed: %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
		role     models.Role
		wantKind apperr.Kind
	}{
		{"duplicate email", "dup@example.com", "pw", "", apperr.Conflict},
		{"missing email", "  ", "pw", "", apperr.InvalidInput},
		{"missing password", "x@example.com", "", "", apperr.InvalidInput},
		{"unknown role", "y@example.com", "pw", "SUPERUSER", apperr.InvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.email, tt.password, tt.role)
			if !apperr.IsKind(err, tt.wantKind) {
				t.Fatalf("Register() error = %v, want kind %v", err, tt.wantKind)
			}
		})
	}
}

func TestJWTRoundTrip(t *testing.T) {
	j := NewJWT("test-secret", time.Hour)
	user := &models.User{ID: uuid.New(), Email: "c@example.com", Role: models.RoleAdmin}

	token, err := j.Issue(user)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	actor, err := j.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if actor.UserID != user.ID || actor.Role != models.RoleAdmin {
		t.Fatalf("actor = %+v", actor)
	}

	if _, err := NewJWT("other-secret", time.Hour).Verify(token); err == nil {
		t.Fatal("token signed with a different key should not verify")
	}

	expired, err := NewJWT("test-secret", -time.Minute).Issue(user)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if _, err := j.Verify(expired); err == nil {
		t.Fatal("expired token should not verify")
	}
}
