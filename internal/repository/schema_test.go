package repository

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dukapos/dukapos/internal/domain"
)

// memUserRepo enforces username uniqueness at insert time, like the
// database constraint.
type memUserRepo struct {
	byUsername map[string]*domain.User
	nextID     int64
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byUsername: map[string]*domain.User{}}
}

func (m *memUserRepo) Create(_ context.Context, u *domain.User) error {
	if _, ok := m.byUsername[u.Username]; ok {
		return domain.ErrUsernameTaken
	}
	m.nextID++
	u.ID = m.nextID
	u.CreatedAt = time.Now()
	m.byUsername[u.Username] = u
	return nil
}

func (m *memUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	if u, ok := m.byUsername[username]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.byUsername)), nil
}

func TestSeedDefaultAdminCreatesAccount(t *testing.T) {
	repo := newMemUserRepo()

	if err := SeedDefaultAdmin(context.Background(), repo, "admin", "admin123", bcrypt.MinCost, nil); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	admin, err := repo.GetByUsername(context.Background(), "admin")
	if err != nil {
		t.Fatalf("seeded admin not found: %v", err)
	}
	if admin.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %s", admin.Role)
	}
	if admin.PasswordHash == "admin123" {
		t.Fatal("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("admin123")); err != nil {
		t.Fatalf("seeded hash does not verify: %v", err)
	}
}

func TestSeedDefaultAdminIsIdempotent(t *testing.T) {
	repo := newMemUserRepo()

	for i := 0; i < 2; i++ {
		if err := SeedDefaultAdmin(context.Background(), repo, "admin", "admin123", bcrypt.MinCost, nil); err != nil {
			t.Fatalf("seed call %d failed: %v", i+1, err)
		}
	}

	count, _ := repo.Count(context.Background())
	if count != 1 {
		t.Fatalf("expected 1 user after repeated seeding, got %d", count)
	}
}

func TestSeedDefaultAdminSkipsPopulatedTable(t *testing.T) {
	repo := newMemUserRepo()
	if err := repo.Create(context.Background(), &domain.User{
		Username: "mary", PasswordHash: "x", Role: domain.RoleUser,
	}); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	if err := SeedDefaultAdmin(context.Background(), repo, "admin", "admin123", bcrypt.MinCost, nil); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if _, err := repo.GetByUsername(context.Background(), "admin"); err == nil {
		t.Fatal("admin must not be seeded into a populated users table")
	}
}
