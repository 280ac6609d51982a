package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/techzone/storefront-api/internal/core/domain"
	"github.com/techzone/storefront-api/internal/core/ports"
)

type stubUserRepo struct {
	mu     sync.Mutex
	users  map[string]*domain.User // keyed by ID
	nextID int
	err    error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	c := cloneUser(user)
	c.ID = "u" + strconv.Itoa(r.nextID)
	r.users[c.ID] = c
	return cloneUser(c), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) ListByRole(_ context.Context, role domain.Role) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.User
	for _, u := range r.users {
		if u.Role == role {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) DeleteByIDAndRole(_ context.Context, id string, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.Role != role {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func newTestAuthService(repo ports.UserRepository) *AuthService {
	svc := NewAuthService(repo, NewTokenCodec("secret", time.Hour), zerolog.Nop())
	svc.cost = bcrypt.MinCost
	return svc
}

func registerInput(email string) ports.RegisterInput {
	return ports.RegisterInput{
		Username:    "alice smith",
		Email:       email,
		Phone:       "5551234567",
		DateOfBirth: time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC),
		Password:    "correct-horse",
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	sess, err := svc.Register(context.Background(), registerInput("  Alice@Example.com "))
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if sess.Token == "" {
		t.Fatalf("expected token")
	}
	if sess.User.Role != domain.RoleUser {
		t.Fatalf("expected role User, got %s", sess.User.Role)
	}
	if sess.User.Email != "alice@example.com" {
		t.Fatalf("email not normalized: %q", sess.User.Email)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(sess.User.PasswordHash), []byte("correct-horse")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	id, err := svc.tokens.(*TokenCodec).Verify(sess.Token)
	if err != nil || id != sess.User.ID {
		t.Fatalf("token resolves to %q, %v; want %q", id, err, sess.User.ID)
	}
}

func TestAuthService_Register_SanitizesUsername(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	in := registerInput("bob@example.com")
	in.Username = "<script>alert(1)</script>bob builder"
	sess, err := svc.Register(context.Background(), in)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if sess.User.Username != "bob builder" {
		t.Fatalf("unexpected username %q", sess.User.Username)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	cases := map[string]func(*ports.RegisterInput){
		"missing email":    func(in *ports.RegisterInput) { in.Email = "" },
		"missing dob":      func(in *ports.RegisterInput) { in.DateOfBirth = time.Time{} },
		"short password":   func(in *ports.RegisterInput) { in.Password = "short" },
		"long password":    func(in *ports.RegisterInput) { in.Password = string(make([]byte, 73)) },
		"markup-only name": func(in *ports.RegisterInput) { in.Username = "<b></b>" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := registerInput(name + "@example.com")
			mutate(&in)
			if _, err := svc.Register(context.Background(), in); !errors.Is(err, domain.ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestAuthService_Register_DuplicateEmailAcrossRoles(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	if _, err := svc.Provision(context.Background(), domain.RoleAdmin, registerInput("dup@example.com")); err != nil {
		t.Fatalf("provision failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), registerInput("DUP@example.com")); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerInput("carol@example.com")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	ok := ports.LoginInput{Email: "carol@example.com", Password: "correct-horse", ConfirmPassword: "correct-horse", Role: domain.RoleUser}

	t.Run("success", func(t *testing.T) {
		sess, err := svc.Login(ctx, ok)
		if err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if sess.Token == "" || sess.User.Email != "carol@example.com" {
			t.Fatalf("unexpected session: %+v", sess)
		}
		if !sess.ExpiresAt.After(time.Now()) {
			t.Fatalf("expiry should be in the future: %v", sess.ExpiresAt)
		}
	})

	cases := []struct {
		name   string
		mutate func(*ports.LoginInput)
		want   error
	}{
		{"wrong password", func(in *ports.LoginInput) { in.Password, in.ConfirmPassword = "wrong-horse", "wrong-horse" }, domain.ErrInvalidCredentials},
		{"unknown email", func(in *ports.LoginInput) { in.Email = "nobody@example.com" }, domain.ErrInvalidCredentials},
		{"confirm mismatch", func(in *ports.LoginInput) { in.ConfirmPassword = "other" }, domain.ErrInvalidArgument},
		{"role mismatch", func(in *ports.LoginInput) { in.Role = domain.RoleAdmin }, domain.ErrRoleMismatch},
		{"unknown role", func(in *ports.LoginInput) { in.Role = "Root" }, domain.ErrInvalidArgument},
		{"missing field", func(in *ports.LoginInput) { in.Email = "" }, domain.ErrInvalidArgument},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := ok
			tc.mutate(&in)
			sess, err := svc.Login(ctx, in)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if sess != nil {
				t.Fatalf("no session expected on failure")
			}
		})
	}
}

func TestAuthService_Login_StoreFailure(t *testing.T) {
	repo := newStubUserRepo()
	repo.err = domain.ErrDependency
	svc := newTestAuthService(repo)

	_, err := svc.Login(context.Background(), ports.LoginInput{
		Email: "a@example.com", Password: "x", ConfirmPassword: "x", Role: domain.RoleUser,
	})
	if !errors.Is(err, domain.ErrDependency) {
		t.Fatalf("expected ErrDependency, got %v", err)
	}
}

func TestAuthService_Provision(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())
	ctx := context.Background()

	mgr := registerInput("mgr@example.com")
	if _, err := svc.Provision(ctx, domain.RoleManager, mgr); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("manager without department: expected ErrInvalidArgument, got %v", err)
	}

	mgr.Department = "Sales"
	u, err := svc.Provision(ctx, domain.RoleManager, mgr)
	if err != nil {
		t.Fatalf("provision manager: %v", err)
	}
	if u.Role != domain.RoleManager || u.Department != "Sales" {
		t.Fatalf("unexpected manager: %+v", u)
	}

	admin := registerInput("admin@example.com")
	admin.Department = "ignored"
	u, err = svc.Provision(ctx, domain.RoleAdmin, admin)
	if err != nil {
		t.Fatalf("provision admin: %v", err)
	}
	if u.Department != "" {
		t.Fatalf("admin should not carry a department, got %q", u.Department)
	}

	if _, err := svc.Provision(ctx, domain.RoleUser, registerInput("user@example.com")); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("provisioning a User should be refused, got %v", err)
	}
}

func TestAuthService_ListAndDelete(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	in := registerInput("m1@example.com")
	in.Department = "Ops"
	mgr, err := svc.Provision(ctx, domain.RoleManager, in)
	if err != nil {
		t.Fatalf("provision: %v", err)
	}
	if _, err := svc.Register(ctx, registerInput("u1@example.com")); err != nil {
		t.Fatalf("register: %v", err)
	}

	managers, err := svc.ListByRole(ctx, domain.RoleManager)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(managers) != 1 || managers[0].ID != mgr.ID {
		t.Fatalf("unexpected managers: %+v", managers)
	}

	if err := svc.Delete(ctx, mgr.ID, domain.RoleUser); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("deleting with the wrong role should miss, got %v", err)
	}
	if err := svc.Delete(ctx, mgr.ID, domain.RoleManager); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.FindByID(ctx, mgr.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("manager still present: %v", err)
	}
}
