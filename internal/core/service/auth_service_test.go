package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/alayatales/temple-api/internal/core/domain"
)

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	stored := cloneUser(user)
	stored.ID = "u" + strconv.Itoa(r.nextID)
	r.users[stored.Username] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) CountByRole(_ context.Context, role string) (int64, error) {
	var n int64
	for _, u := range r.users {
		if role == "" || u.Role == role {
			n++
		}
	}
	return n, nil
}

func newTestAuthService(repo *stubUserRepo) *AuthService {
	return NewAuthService(repo, AuthConfig{JWTSecret: "secret", TokenTTL: time.Hour, AllowAdminSignup: true}, zerolog.Nop())
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	user, err := svc.Register(context.Background(), "alice", "pass123", domain.RoleUser)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user == nil || user.ID == "" {
		t.Fatalf("expected user with id, got %+v", user)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("unexpected role: %s", user.Role)
	}
}

func TestAuthService_Register_DefaultsRoleToUser(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	user, err := svc.Register(context.Background(), "bob", "pass", "")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("expected default role %q, got %q", domain.RoleUser, user.Role)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	if _, err := svc.Register(context.Background(), "", "pass", domain.RoleUser); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob", "", domain.RoleUser); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty password, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob", "pass", "superuser"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for bad role, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	first, err := svc.Register(context.Background(), "bob", "pass", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob", "pass2", domain.RoleUser); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	stored := repo.users["bob"]
	if stored.ID != first.ID || stored.Role != domain.RoleAdmin {
		t.Fatalf("first user was modified: %+v", stored)
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pass")) != nil {
		t.Fatalf("first user's password was overwritten")
	}
}

func TestAuthService_Register_AdminSignupDisabled(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, AuthConfig{JWTSecret: "secret"}, zerolog.Nop())

	if _, err := svc.Register(context.Background(), "eve", "pass", domain.RoleAdmin); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(repo.users) != 0 {
		t.Fatalf("no user should be stored")
	}
	if _, err := svc.Register(context.Background(), "eve", "pass", domain.RoleUser); err != nil {
		t.Fatalf("user signup should still work: %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	registered, err := svc.Register(context.Background(), "carol", "s3cret", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "carol", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if user == nil || user.Username != "carol" {
		t.Fatalf("unexpected user: %+v", user)
	}

	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.Role != domain.RoleAdmin {
		t.Fatalf("expected role %s, got %s", domain.RoleAdmin, claims.Role)
	}
	if claims.UserID != registered.ID || claims.Username != "carol" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthService_Login_InvalidPasswordEveryAttempt(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	_, _ = svc.Register(context.Background(), "dave", "goodpass", domain.RoleUser)
	for i := 0; i < 10; i++ {
		if _, _, err := svc.Login(context.Background(), "dave", "badpass"); !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("attempt %d: expected ErrUnauthorized, got %v", i, err)
		}
	}
	if _, _, err := svc.Login(context.Background(), "dave", "goodpass"); err != nil {
		t.Fatalf("correct password must still work after failures: %v", err)
	}
}

func TestAuthService_Login_PaddedUsername(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	if _, err := svc.Register(context.Background(), "  alice ", "pw", ""); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, ok := repo.users["alice"]; !ok {
		t.Fatalf("expected username to be stored trimmed")
	}

	for _, name := range []string{"  alice ", "alice"} {
		token, user, err := svc.Login(context.Background(), name, "pw")
		if err != nil {
			t.Fatalf("login with %q failed: %v", name, err)
		}
		if token == "" || user.Username != "alice" {
			t.Fatalf("login with %q: unexpected result token=%q user=%+v", name, token, user)
		}
	}
	if _, _, err := svc.Login(context.Background(), "   ", "pw"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for blank username, got %v", err)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	if _, _, err := svc.Login(context.Background(), "ghost", "pass"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthService_Validate_Rejects(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	sign := func(method jwt.SigningMethod, key any, claims jwt.Claims) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return s
	}
	valid := func(exp time.Time) tokenClaims {
		return tokenClaims{
			Username: "alice",
			Role:     domain.RoleAdmin,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "u1",
				ExpiresAt: jwt.NewNumericDate(exp),
			},
		}
	}

	noSubject := valid(time.Now().Add(time.Hour))
	noSubject.Subject = ""
	badRole := valid(time.Now().Add(time.Hour))
	badRole.Role = "root"
	noExpiry := valid(time.Now())
	noExpiry.ExpiresAt = nil

	cases := map[string]string{
		"empty":        "",
		"malformed":    "not-a-token",
		"wrong secret": sign(jwt.SigningMethodHS256, []byte("other"), valid(time.Now().Add(time.Hour))),
		"expired":      sign(jwt.SigningMethodHS256, []byte("secret"), valid(time.Now().Add(-time.Minute))),
		"wrong alg":    sign(jwt.SigningMethodHS512, []byte("secret"), valid(time.Now().Add(time.Hour))),
		"none alg":     sign(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, valid(time.Now().Add(time.Hour))),
		"no subject":   sign(jwt.SigningMethodHS256, []byte("secret"), noSubject),
		"unknown role": sign(jwt.SigningMethodHS256, []byte("secret"), badRole),
		"missing exp":  sign(jwt.SigningMethodHS256, []byte("secret"), noExpiry),
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.Validate(token); !errors.Is(err, domain.ErrUnauthorized) {
				t.Fatalf("expected ErrUnauthorized, got %v", err)
			}
		})
	}
}

func TestAuthService_Validate_ExpiresAfterTTL(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())
	_, _ = svc.Register(context.Background(), "frank", "pass", domain.RoleUser)

	issued := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }
	token, _, err := svc.Login(context.Background(), "frank", "pass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	svc.now = func() time.Time { return issued.Add(59 * time.Minute) }
	if _, err := svc.Validate(token); err != nil {
		t.Fatalf("token should still be valid: %v", err)
	}

	svc.now = func() time.Time { return issued.Add(61 * time.Minute) }
	if _, err := svc.Validate(token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}
}

func TestAuthService_Profile(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())
	user, _ := svc.Register(context.Background(), "gina", "pass", domain.RoleUser)

	got, err := svc.Profile(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("profile failed: %v", err)
	}
	if got.Username != "gina" {
		t.Fatalf("unexpected profile: %+v", got)
	}
	if _, err := svc.Profile(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
