package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/jakeb7757/evolve/internal/models"
	"github.com/jakeb7757/evolve/internal/repository"
)

type fakeUserRepo struct {
	byEmail map[string]*models.User
	nextID  int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*models.User{}, nextID: 1}
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	user.ID = f.nextID
	f.nextID++
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

func newAuthService(repo UserRepository) *AuthService {
	tokens := NewTokenService("test-secret", 0)
	return NewAuthService(repo, fakeHasher{}, tokens, zap.NewNop())
}

func TestSignupAndLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)

	user, err := svc.Signup(context.Background(), "  Student@Example.EDU ", "hunter2")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if user.Email != "student@example.edu" {
		t.Fatalf("expected normalized email, got %s", user.Email)
	}
	if user.Role != models.RoleUser {
		t.Fatalf("expected new accounts to get the user role, got %s", user.Role)
	}
	if user.PasswordHash == "hunter2" {
		t.Fatalf("expected password to be hashed")
	}

	token, loggedIn, err := svc.Login(context.Background(), "student@example.edu", "hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Fatalf("expected a token")
	}
	if loggedIn.ID != user.ID {
		t.Fatalf("expected user id %d, got %d", user.ID, loggedIn.ID)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)

	if _, err := svc.Signup(context.Background(), "dup@example.edu", "pw"); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	if _, err := svc.Signup(context.Background(), "dup@example.edu", "pw"); !errors.Is(err, ErrEmailInUse) {
		t.Fatalf("expected ErrEmailInUse, got %v", err)
	}
}

func TestSignupValidation(t *testing.T) {
	svc := newAuthService(newFakeUserRepo())

	_, err := svc.Signup(context.Background(), "", "")
	var fields FieldErrors
	if !errors.As(err, &fields) {
		t.Fatalf("expected field errors, got %v", err)
	}
	if _, ok := fields["email"]; !ok {
		t.Fatalf("expected error on email, got %v", fields)
	}
	if _, ok := fields["password"]; !ok {
		t.Fatalf("expected error on password, got %v", fields)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)

	if _, err := svc.Signup(context.Background(), "known@example.edu", "right"); err != nil {
		t.Fatalf("signup: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "known@example.edu", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "missing@example.edu", "right"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}
